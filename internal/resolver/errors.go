package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/passregistry"
	"github.com/specialistvlad/passorder/internal/phase"
)

var (
	// ErrDuplicateQualifiedName matches passes or plugins sharing a name.
	ErrDuplicateQualifiedName = passregistry.ErrDuplicateQualifiedName
	// ErrDanglingMandatoryConstraint matches mandatory edges to absent passes.
	ErrDanglingMandatoryConstraint = errors.New("dangling mandatory constraint")
	// ErrCyclicDependency matches phases whose constraints admit no order.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrPhaseOrderViolation matches mandatory edges that point backwards
	// across phases.
	ErrPhaseOrderViolation = errors.New("phase order violation")
)

// DuplicateNameError is re-exported so callers need only this package.
type DuplicateNameError = passregistry.DuplicateNameError

// DanglingConstraintError reports a mandatory constraint with an endpoint that
// no plugin declared.
type DanglingConstraintError struct {
	Constraint constraint.Constraint
	// Missing describes each absent endpoint.
	Missing []string
	// First and Second describe the endpoints.
	First, Second string
}

func (e *DanglingConstraintError) Error() string {
	return fmt.Sprintf("%s: %s must run before %s, but %s not declared%s",
		ErrDanglingMandatoryConstraint, e.First, e.Second, isOrAre(e.Missing), declaredAt(e.Constraint.Provenance))
}

func (e *DanglingConstraintError) Is(target error) bool {
	return target == ErrDanglingMandatoryConstraint
}

// CycleError reports a phase whose constraints cannot all be satisfied.
type CycleError struct {
	Phase phase.Phase
	// Unresolved lists every real pass that could not be ordered. It contains
	// every cycle but may contain passes that were only blocked by one.
	Unresolved []string
	// Plugins lists the plugins whose anchors could not be ordered.
	Plugins []string
	// Cycle describes one concrete cycle, each element running before the next
	// and the last before the first.
	Cycle []string
	// Constraints are the constraints forming Cycle, in cycle order.
	Constraints []constraint.Constraint
}

func (e *CycleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s in phase %s", ErrCyclicDependency, e.Phase)
	if len(e.Cycle) > 0 {
		fmt.Fprintf(&b, ": %s -> %s", strings.Join(e.Cycle, " -> "), e.Cycle[0])
	}
	if len(e.Unresolved) > 0 {
		fmt.Fprintf(&b, "; unresolved passes: %s", strings.Join(e.Unresolved, ", "))
	}
	if len(e.Plugins) > 0 {
		fmt.Fprintf(&b, "; implicated plugins: %s", strings.Join(e.Plugins, ", "))
	}
	seen := make(map[string]bool, len(e.Constraints))
	for _, c := range e.Constraints {
		if c.Provenance.IsZero() {
			continue
		}
		site := fmt.Sprintf("%s constraint declared at %s", c.Kind, c.Provenance)
		if seen[site] {
			continue
		}
		seen[site] = true
		fmt.Fprintf(&b, "; %s", site)
	}
	return b.String()
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicDependency
}

// PhaseOrderError reports a mandatory constraint whose first pass belongs to a
// later phase than its second.
type PhaseOrderError struct {
	Constraint  constraint.Constraint
	First       string
	Second      string
	FirstPhase  phase.Phase
	SecondPhase phase.Phase
}

func (e *PhaseOrderError) Error() string {
	return fmt.Sprintf("%s: %s (phase %s) must run before %s (phase %s), but phase %s runs first%s",
		ErrPhaseOrderViolation, e.First, e.FirstPhase, e.Second, e.SecondPhase, e.SecondPhase, declaredAt(e.Constraint.Provenance))
}

func (e *PhaseOrderError) Is(target error) bool {
	return target == ErrPhaseOrderViolation
}

func declaredAt(p constraint.Provenance) string {
	if p.IsZero() {
		return ""
	}
	return " (declared at " + p.String() + ")"
}

func isOrAre(missing []string) string {
	if len(missing) == 1 {
		return missing[0] + " is"
	}
	return strings.Join(missing, " and ") + " are"
}
