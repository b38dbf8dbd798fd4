package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/ctxlog"
	"github.com/specialistvlad/passorder/internal/dag"
	"github.com/specialistvlad/passorder/internal/declare"
	"github.com/specialistvlad/passorder/internal/inmemoryconstraints"
	"github.com/specialistvlad/passorder/internal/pass"
	"github.com/specialistvlad/passorder/internal/passregistry"
	"github.com/specialistvlad/passorder/internal/phase"
	"github.com/specialistvlad/passorder/internal/plan"
)

// Resolve declares every plugin and returns the execution plan. Plugins are
// merged in slice order, which is also the tie-break order between passes
// that no constraint relates.
func Resolve(ctx context.Context, plugins []declare.Descriptor) (*plan.Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving plugins.", "count", len(plugins))

	registry, store, err := collect(ctx, plugins)
	if err != nil {
		return nil, err
	}

	byPhase, dropped, err := filter(ctx, registry, store.All(ctx))
	if err != nil {
		return nil, err
	}

	entries, err := sortPhases(ctx, registry, byPhase)
	if err != nil {
		return nil, err
	}

	logger.Debug("Plan resolved.", "passes", len(entries), "dropped_constraints", len(dropped))
	return plan.New(entries, dropped), nil
}

// collect runs every plugin's declaration and merges the results.
func collect(ctx context.Context, plugins []declare.Descriptor) (*passregistry.Registry, constraint.Store, error) {
	var errs []error
	seen := make(map[string]bool, len(plugins))
	for _, d := range plugins {
		name := strings.TrimSpace(d.QualifiedName())
		if seen[name] {
			errs = append(errs, &DuplicateNameError{Kind: "plugin", Name: name})
		}
		seen[name] = true
	}
	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}

	registry := passregistry.New()
	store := inmemoryconstraints.New()
	for _, d := range plugins {
		name := strings.TrimSpace(d.QualifiedName())
		handle := declare.NewPluginContext(ctx, name)
		if err := d.Declare(handle); err != nil {
			errs = append(errs, fmt.Errorf("plugin %s: %w", name, err))
		}
		if err := handle.Err(); err != nil {
			errs = append(errs, fmt.Errorf("plugin %s: %w", name, err))
			continue
		}
		if err := registry.Merge(handle.Registry()); err != nil {
			errs = append(errs, err)
		}
		for _, c := range handle.Constraints() {
			if err := store.Add(ctx, c); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}

	ctxlog.FromContext(ctx).Debug("Plugins declared.", "passes", registry.Len(), "constraints", store.Len(ctx))
	return registry, store, nil
}

// filter splits constraints by phase, dropping the advisory ones that cannot
// apply and rejecting mandatory ones that cannot hold.
func filter(ctx context.Context, registry *passregistry.Registry, all []constraint.Constraint) (map[phase.Phase][]constraint.Constraint, []plan.Dropped, error) {
	logger := ctxlog.FromContext(ctx)

	var (
		errs    []error
		dropped []plan.Dropped
		byPhase = make(map[phase.Phase][]constraint.Constraint)
	)

	for _, c := range all {
		first, firstOK := registry.Lookup(c.First)
		second, secondOK := registry.Lookup(c.Second)

		if !firstOK || !secondOK {
			var missing []string
			if !firstOK {
				missing = append(missing, describe(registry, c.First))
			}
			if !secondOK {
				missing = append(missing, describe(registry, c.Second))
			}

			if c.Kind == constraint.Advisory {
				reason := fmt.Sprintf("%s not declared", isOrAre(missing))
				d := droppedOf(registry, c, reason)
				logger.Debug("Dropping advisory constraint.", "constraint", d.String(), "reason", reason)
				dropped = append(dropped, d)
				continue
			}
			errs = append(errs, &DanglingConstraintError{
				Constraint: c,
				Missing:    missing,
				First:      describe(registry, c.First),
				Second:     describe(registry, c.Second),
			})
			continue
		}

		if first.Phase != second.Phase {
			switch {
			case first.Phase.Before(second.Phase):
				logger.Debug("Cross-phase constraint already satisfied by phase order.", "constraint", droppedOf(registry, c, "").String())
			case c.Kind == constraint.Advisory:
				reason := fmt.Sprintf("phase %s runs before phase %s", second.Phase, first.Phase)
				d := droppedOf(registry, c, reason)
				logger.Warn("Dropping advisory constraint that contradicts phase order.", "constraint", d.String(), "reason", reason)
				dropped = append(dropped, d)
			default:
				errs = append(errs, &PhaseOrderError{
					Constraint:  c,
					First:       first.Label(),
					Second:      second.Label(),
					FirstPhase:  first.Phase,
					SecondPhase: second.Phase,
				})
			}
			continue
		}

		byPhase[first.Phase] = append(byPhase[first.Phase], c)
	}

	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}
	return byPhase, dropped, nil
}

// sortPhases orders each phase on its own and concatenates the results.
func sortPhases(ctx context.Context, registry *passregistry.Registry, byPhase map[phase.Phase][]constraint.Constraint) ([]plan.Entry, error) {
	logger := ctxlog.FromContext(ctx)
	passes := registry.Passes()

	var (
		errs    []error
		entries []plan.Entry
	)
	for _, ph := range phase.All() {
		g := dag.New()
		for _, p := range passes {
			if p.Phase != ph {
				continue
			}
			if err := g.AddNode(p.QualifiedName, int(p.ID)); err != nil {
				return nil, fmt.Errorf("phase %s: %w", ph, err)
			}
		}
		if g.Len() == 0 {
			continue
		}
		for _, c := range byPhase[ph] {
			if err := g.AddEdge(c.First, c.Second); err != nil {
				return nil, fmt.Errorf("phase %s: %w", ph, err)
			}
		}
		logger.Debug("Sorting phase.", "phase", ph.String(), "nodes", g.Len(), "edges", len(byPhase[ph]))

		order, err := g.TopologicalSort()
		if err != nil {
			var cycle *dag.CycleError
			if errors.As(err, &cycle) {
				errs = append(errs, newCycleError(registry, ph, cycle, byPhase[ph]))
				logBlocked(logger, g, registry, cycle.Remaining)
				continue
			}
			return nil, fmt.Errorf("phase %s: %w", ph, err)
		}

		for _, name := range order {
			p, _ := registry.Lookup(name)
			if p.Anchor {
				continue
			}
			entries = append(entries, entryOf(p))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return entries, nil
}

func entryOf(p pass.Pass) plan.Entry {
	return plan.Entry{
		QualifiedName: p.QualifiedName,
		DisplayName:   p.DisplayName,
		Plugin:        p.Plugin,
		Phase:         p.Phase,
		Func:          p.Func,
	}
}

func newCycleError(registry *passregistry.Registry, ph phase.Phase, cycle *dag.CycleError, constraints []constraint.Constraint) *CycleError {
	e := &CycleError{Phase: ph}

	seenPlugin := make(map[string]bool)
	for _, name := range cycle.Remaining {
		p, _ := registry.Lookup(name)
		if !p.Anchor {
			e.Unresolved = append(e.Unresolved, p.QualifiedName)
			continue
		}
		if !seenPlugin[p.Plugin] {
			seenPlugin[p.Plugin] = true
			e.Plugins = append(e.Plugins, p.Plugin)
		}
	}

	for i, name := range cycle.Cycle {
		e.Cycle = append(e.Cycle, describe(registry, name))
		next := cycle.Cycle[(i+1)%len(cycle.Cycle)]
		for _, c := range constraints {
			if c.First == name && c.Second == next {
				e.Constraints = append(e.Constraints, c)
				break
			}
		}
	}
	return e
}

// logBlocked traces, for every pass the sort could not place, the passes it
// waits on and the passes it holds back.
func logBlocked(logger *slog.Logger, g *dag.Graph, registry *passregistry.Registry, remaining []string) {
	for _, name := range remaining {
		deps, err := g.Dependencies(name)
		if err != nil {
			continue
		}
		dependents, err := g.Dependents(name)
		if err != nil {
			continue
		}
		logger.Debug("Pass blocked by cycle.",
			"pass", describe(registry, name),
			"waits_on", describeAll(registry, deps),
			"blocks", describeAll(registry, dependents),
		)
	}
}

func describeAll(registry *passregistry.Registry, names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = describe(registry, name)
	}
	return out
}

// droppedOf labels the endpoints of c the way diagnostics show them.
func droppedOf(registry *passregistry.Registry, c constraint.Constraint, reason string) plan.Dropped {
	return plan.Dropped{
		Constraint: c,
		First:      describe(registry, c.First),
		Second:     describe(registry, c.Second),
		Reason:     reason,
	}
}

// describe names a pass for diagnostics without leaking anchor keys.
func describe(registry *passregistry.Registry, name string) string {
	if p, ok := registry.Lookup(name); ok {
		return p.Label()
	}
	if label, ok := declare.DescribeAnchor(name); ok {
		return label
	}
	return name
}
