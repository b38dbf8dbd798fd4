package plan

import (
	"fmt"

	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/pass"
	"github.com/specialistvlad/passorder/internal/phase"
)

// Entry is one pass of the plan.
type Entry struct {
	QualifiedName string      `json:"qualified_name" yaml:"qualified_name"`
	DisplayName   string      `json:"display_name" yaml:"display_name"`
	Plugin        string      `json:"plugin" yaml:"plugin"`
	Phase         phase.Phase `json:"phase" yaml:"phase"`
	Func          pass.Func   `json:"-" yaml:"-"`
}

// Dropped is an advisory constraint the resolver discarded.
type Dropped struct {
	Constraint constraint.Constraint
	// First and Second label the endpoints for people: anchors appear as the
	// plugin span they mark. Empty labels fall back to the qualified names.
	First  string
	Second string
	Reason string
}

// String renders the dropped constraint with its endpoint labels.
func (d Dropped) String() string {
	first, second := d.First, d.Second
	if first == "" {
		first = d.Constraint.First
	}
	if second == "" {
		second = d.Constraint.Second
	}
	s := fmt.Sprintf("%s %s -> %s", d.Constraint.Kind, first, second)
	if !d.Constraint.Provenance.IsZero() {
		s += " (declared at " + d.Constraint.Provenance.String() + ")"
	}
	return s
}

// Plan is the resolved execution order.
type Plan struct {
	entries []Entry
	dropped []Dropped
}

// New builds a plan from entries already in execution order.
func New(entries []Entry, dropped []Dropped) *Plan {
	p := &Plan{
		entries: make([]Entry, len(entries)),
		dropped: make([]Dropped, len(dropped)),
	}
	copy(p.entries, entries)
	copy(p.dropped, dropped)
	return p
}

// Entries returns the passes in execution order.
func (p *Plan) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of passes.
func (p *Plan) Len() int { return len(p.entries) }

// Phase returns the passes of one phase in execution order.
func (p *Plan) Phase(ph phase.Phase) []Entry {
	var out []Entry
	for _, e := range p.entries {
		if e.Phase == ph {
			out = append(out, e)
		}
	}
	return out
}

// Names returns the qualified names in execution order.
func (p *Plan) Names() []string {
	out := make([]string, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.QualifiedName
	}
	return out
}

// Dropped returns the advisory constraints that did not make it into the
// ordering, in declaration order.
func (p *Plan) Dropped() []Dropped {
	out := make([]Dropped, len(p.dropped))
	copy(out, p.dropped)
	return out
}
