// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Pass, the single named unit of ordered work a plugin
// contributes to a phase, and the Descriptor plugins use to declare one.
//
// Anchors are passes too. They are synthetic, carry no body and are flagged
// with Anchor so they can be sorted exactly like real passes and stripped
// from the final order afterwards.

package pass

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/passorder/internal/phase"
)

// Func is the executable body of a pass. The target is whatever the
// execution layer hands in; the resolver never inspects it.
type Func func(ctx context.Context, target any) error

// ID is the stable declaration index a registry assigns to a pass.
type ID int

// Descriptor is what a plugin supplies to declare a real pass.
type Descriptor struct {
	QualifiedName string
	DisplayName   string
	Func          Func
}

// Normalized returns a trimmed copy whose display name falls back to the
// qualified name.
func (d Descriptor) Normalized() Descriptor {
	clone := Descriptor{
		QualifiedName: strings.TrimSpace(d.QualifiedName),
		DisplayName:   strings.TrimSpace(d.DisplayName),
		Func:          d.Func,
	}
	if clone.DisplayName == "" {
		clone.DisplayName = clone.QualifiedName
	}
	return clone
}

// Validate ensures the descriptor can be registered.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.QualifiedName) == "" {
		return fmt.Errorf("pass: qualified name is required")
	}
	return nil
}

// Pass is a registered pass. It is immutable once registered.
type Pass struct {
	ID            ID
	QualifiedName string
	DisplayName   string
	Plugin        string
	Phase         phase.Phase
	Func          Func
	Anchor        bool
}

// Label is the name diagnostics show for the pass. Anchors are rendered by
// their display name, which describes the span they mark, so internal anchor
// keys never reach a user.
func (p Pass) Label() string {
	if p.Anchor {
		return p.DisplayName
	}
	return p.QualifiedName
}

func (p Pass) String() string {
	return fmt.Sprintf("%s (%s, plugin %s)", p.Label(), p.Phase, p.Plugin)
}
