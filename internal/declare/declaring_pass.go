package declare

import (
	"strings"

	"github.com/specialistvlad/passorder/internal/constraint"
)

// DeclaringPass is returned for every declared pass and adds advisory edges
// relative to it. When the declaration failed, every method is a no-op and
// Err reports why.
type DeclaringPass struct {
	seq    *Sequence
	name   string
	prov   constraint.Provenance
	pinned bool
	err    error
}

// QualifiedName returns the declared pass's qualified name, or "" if the
// declaration failed.
func (d *DeclaringPass) QualifiedName() string { return d.name }

// Err returns the declaration error, if any.
func (d *DeclaringPass) Err() error { return d.err }

// At pins the provenance recorded for edges added through this handle from
// now on. Without it each edge records its caller.
func (d *DeclaringPass) At(prov constraint.Provenance) *DeclaringPass {
	if d.err == nil {
		d.prov = prov
		d.pinned = true
	}
	return d
}

// BeforePlugin asks for this pass to run before the named plugin's span in the
// same phase. The edge is dropped if the plugin contributes nothing there.
func (d *DeclaringPass) BeforePlugin(plugin string) *DeclaringPass {
	if d.err != nil || strings.TrimSpace(plugin) == "" {
		return d
	}
	d.edge(d.name, PhaseStart(strings.TrimSpace(plugin), d.seq.phase), constraint.CallerProvenance(1))
	return d
}

// AfterPlugin asks for this pass to run after the named plugin's span in the
// same phase.
func (d *DeclaringPass) AfterPlugin(plugin string) *DeclaringPass {
	if d.err != nil || strings.TrimSpace(plugin) == "" {
		return d
	}
	d.edge(PhaseEnd(strings.TrimSpace(plugin), d.seq.phase), d.name, constraint.CallerProvenance(1))
	return d
}

// BeforePass asks for this pass to run before the named pass.
func (d *DeclaringPass) BeforePass(qualifiedName string) *DeclaringPass {
	if d.err != nil || strings.TrimSpace(qualifiedName) == "" {
		return d
	}
	d.edge(d.name, strings.TrimSpace(qualifiedName), constraint.CallerProvenance(1))
	return d
}

// AfterPass asks for this pass to run after the named pass.
func (d *DeclaringPass) AfterPass(qualifiedName string) *DeclaringPass {
	if d.err != nil || strings.TrimSpace(qualifiedName) == "" {
		return d
	}
	d.edge(strings.TrimSpace(qualifiedName), d.name, constraint.CallerProvenance(1))
	return d
}

func (d *DeclaringPass) edge(first, second string, caller constraint.Provenance) {
	prov := caller
	if d.pinned {
		prov = d.prov
	}
	d.seq.plugin.add(first, second, constraint.Advisory, prov)
}
