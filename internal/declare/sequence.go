package declare

import (
	"fmt"

	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/pass"
	"github.com/specialistvlad/passorder/internal/phase"
)

// Sequence declares an ordered chain of passes within one phase. Each pass
// declared through it is mandatorily ordered after the previous one and
// bracketed by the sequence's own anchors, which sit inside the plugin's
// phase span.
//
// A Sequence is not safe for concurrent use.
type Sequence struct {
	plugin *Plugin
	phase  phase.Phase
	number int
	base   string
	start  string
	end    string

	prior   string
	inlines int
	err     error
}

// Phase returns the phase the sequence contributes to.
func (s *Sequence) Phase() phase.Phase { return s.phase }

// Run declares the next pass of the sequence.
func (s *Sequence) Run(d pass.Descriptor) *DeclaringPass {
	return s.run(d, constraint.CallerProvenance(1))
}

// RunAt is Run with explicit provenance, for declarations that come from a
// manifest rather than from Go code.
func (s *Sequence) RunAt(d pass.Descriptor, prov constraint.Provenance) *DeclaringPass {
	return s.run(d, prov)
}

// RunInline declares an anonymous pass. Its qualified name is generated from
// the sequence, so it can be referenced by AfterPass/BeforePass only through
// the returned handle's QualifiedName.
func (s *Sequence) RunInline(displayName string, fn pass.Func) *DeclaringPass {
	name := fmt.Sprintf("%s/inline#%d", s.base, s.inlines)
	s.inlines++
	return s.run(pass.Descriptor{QualifiedName: name, DisplayName: displayName, Func: fn}, constraint.CallerProvenance(1))
}

func (s *Sequence) run(d pass.Descriptor, prov constraint.Provenance) *DeclaringPass {
	if s.err != nil {
		return &DeclaringPass{err: s.err}
	}
	if err := d.Validate(); err != nil {
		err = fmt.Errorf("declared at %s: %w", prov, err)
		s.plugin.fail(err)
		return &DeclaringPass{err: err}
	}
	d = d.Normalized()

	_, err := s.plugin.registry.Register(pass.Pass{
		QualifiedName: d.QualifiedName,
		DisplayName:   d.DisplayName,
		Plugin:        s.plugin.name,
		Phase:         s.phase,
		Func:          d.Func,
	})
	if err != nil {
		err = fmt.Errorf("declared at %s: %w", prov, err)
		s.plugin.fail(err)
		return &DeclaringPass{err: err}
	}

	s.plugin.add(s.start, d.QualifiedName, constraint.Mandatory, prov)
	s.plugin.add(d.QualifiedName, s.end, constraint.Mandatory, prov)
	if s.prior != "" {
		s.plugin.add(s.prior, d.QualifiedName, constraint.Mandatory, prov)
	}
	s.prior = d.QualifiedName

	return &DeclaringPass{seq: s, name: d.QualifiedName, prov: prov}
}
