package config

import (
	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/phase"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of every loaded manifest.
type Model struct {
	Plugins []*PluginDefinition
}

// PluginDefinition is one `plugin` block.
type PluginDefinition struct {
	Name        string
	DisplayName string
	Sequences   []*SequenceDefinition
	Constraints []*ConstraintDefinition
	Source      constraint.Provenance
}

// SequenceDefinition is one `sequence` block: an ordered chain of passes in a
// phase.
type SequenceDefinition struct {
	Phase  phase.Phase
	Passes []*PassDefinition
	Source constraint.Provenance
}

// PassDefinition is one `pass` block.
type PassDefinition struct {
	Name         string
	DisplayName  string
	Handler      string
	BeforePlugin []string
	BeforePass   []string
	AfterPlugin  []string
	AfterPass    []string
	// Config is handed to the handler. It is null when the manifest gives
	// none.
	Config cty.Value
	Source constraint.Provenance
}

// ConstraintDefinition is one `constraint` block.
type ConstraintDefinition struct {
	First  string
	Second string
	Kind   constraint.Kind
	Source constraint.Provenance
}

// Merge appends the plugins of other, keeping their order.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Plugins = append(m.Plugins, other.Plugins...)
}

// PassCount returns the number of passes declared across all plugins.
func (m *Model) PassCount() int {
	n := 0
	for _, p := range m.Plugins {
		for _, s := range p.Sequences {
			n += len(s.Passes)
		}
	}
	return n
}
