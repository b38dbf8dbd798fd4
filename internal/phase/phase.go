// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Phase, the externally ordered pipeline stage a pass
// belongs to. Passes are only ever ordered against passes of the same phase;
// the phases themselves always run in the order declared here.

package phase

import (
	"fmt"
	"strings"
)

// Phase is an enumerated stage of the build pipeline.
type Phase int

const (
	// Resolving runs first and is where plugins look up the objects they act on.
	Resolving Phase = iota
	// Generating creates new objects consumed by later phases.
	Generating
	// Transforming mutates the generated and resolved objects.
	Transforming
	// Optimizing runs last, once every other plugin is done mutating.
	Optimizing
)

var names = [...]string{
	Resolving:    "resolving",
	Generating:   "generating",
	Transforming: "transforming",
	Optimizing:   "optimizing",
}

// All returns every phase in execution order.
func All() []Phase {
	return []Phase{Resolving, Generating, Transforming, Optimizing}
}

// Valid reports whether p is one of the declared phases.
func (p Phase) Valid() bool {
	return p >= Resolving && p <= Optimizing
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return names[p]
}

// Before reports whether p runs strictly earlier than other.
func (p Phase) Before(other Phase) bool {
	return p < other
}

// Parse converts a phase name (case-insensitive) into a Phase.
func Parse(raw string) (Phase, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for i, candidate := range names {
		if candidate == name {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q: must be one of %s", raw, strings.Join(names[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid %s", p)
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
