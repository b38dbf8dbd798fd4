package declare

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/ctxlog"
	"github.com/specialistvlad/passorder/internal/inmemoryconstraints"
	"github.com/specialistvlad/passorder/internal/pass"
	"github.com/specialistvlad/passorder/internal/passregistry"
	"github.com/specialistvlad/passorder/internal/phase"
)

// Descriptor is a plugin as handed to the resolver: a name plus a function
// that declares the plugin's passes and constraints.
type Descriptor interface {
	QualifiedName() string
	Declare(p *Plugin) error
}

// PluginFunc adapts a plain function to a Descriptor.
func PluginFunc(name string, declare func(p *Plugin) error) Descriptor {
	return funcPlugin{name: name, declare: declare}
}

type funcPlugin struct {
	name    string
	declare func(p *Plugin) error
}

func (f funcPlugin) QualifiedName() string { return f.name }

func (f funcPlugin) Declare(p *Plugin) error {
	if f.declare == nil {
		return nil
	}
	return f.declare(p)
}

// Plugin is the declaration handle of a single plugin. It owns the passes and
// constraints the plugin declares until the resolver merges them.
type Plugin struct {
	ctx      context.Context
	name     string
	registry *passregistry.Registry
	store    constraint.Store

	mu        sync.Mutex
	anchors   map[phase.Phase]anchorPair
	sequences int
	errs      []error
}

// NewPlugin returns an empty handle for the named plugin.
func NewPlugin(qualifiedName string) *Plugin {
	return NewPluginContext(context.Background(), qualifiedName)
}

// NewPluginContext is NewPlugin with a context whose logger receives
// declaration traces.
func NewPluginContext(ctx context.Context, qualifiedName string) *Plugin {
	p := &Plugin{
		ctx:      ctx,
		name:     strings.TrimSpace(qualifiedName),
		registry: passregistry.New(),
		store:    inmemoryconstraints.New(),
		anchors:  make(map[phase.Phase]anchorPair),
	}
	if p.name == "" {
		p.fail(errors.New("plugin qualified name is required"))
	}
	return p
}

// Name returns the plugin's qualified name.
func (p *Plugin) Name() string { return p.name }

// Registry returns the plugin's own pass registry.
func (p *Plugin) Registry() *passregistry.Registry { return p.registry }

// Passes returns the plugin's passes, anchors included, in declaration order.
func (p *Plugin) Passes() []pass.Pass { return p.registry.Passes() }

// Constraints returns every constraint declared through the plugin.
func (p *Plugin) Constraints() []constraint.Constraint { return p.store.All(p.ctx) }

// Err joins every declaration error recorded so far.
func (p *Plugin) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}

// Sequence opens a new ordered chain of passes in the phase.
func (p *Plugin) Sequence(ph phase.Phase) *Sequence {
	return p.sequence(ph, constraint.CallerProvenance(1))
}

// SequenceAt is Sequence with explicit provenance for the anchor edges.
func (p *Plugin) SequenceAt(ph phase.Phase, prov constraint.Provenance) *Sequence {
	return p.sequence(ph, prov)
}

func (p *Plugin) sequence(ph phase.Phase, prov constraint.Provenance) *Sequence {
	if !ph.Valid() {
		err := fmt.Errorf("invalid phase %s", ph)
		p.fail(err)
		return &Sequence{plugin: p, phase: ph, err: err}
	}

	pair, err := p.phaseAnchors(ph, prov)
	if err != nil {
		return &Sequence{plugin: p, phase: ph, err: err}
	}

	p.mu.Lock()
	n := p.sequences
	p.sequences++
	p.mu.Unlock()

	s := &Sequence{
		plugin: p,
		phase:  ph,
		number: n,
		base:   sequenceBase(p.name, n),
	}
	s.start = sequenceStart(s.base)
	s.end = sequenceEnd(s.base)

	label := fmt.Sprintf("sequence #%d of plugin %s in phase %s", n, p.name, ph)
	if err := p.registerAnchor(s.start, "start of "+label, ph); err != nil {
		s.err = err
		return s
	}
	if err := p.registerAnchor(s.end, "end of "+label, ph); err != nil {
		s.err = err
		return s
	}

	p.add(pair.start, s.start, constraint.Mandatory, prov)
	p.add(s.end, pair.end, constraint.Mandatory, prov)
	p.add(s.start, s.end, constraint.Mandatory, prov)
	return s
}

// Constrain records a constraint between two passes by qualified name.
// Neither endpoint has to exist yet.
func (p *Plugin) Constrain(first, second string, kind constraint.Kind) error {
	return p.ConstrainAt(first, second, kind, constraint.CallerProvenance(1))
}

// ConstrainAt is Constrain with explicit provenance.
func (p *Plugin) ConstrainAt(first, second string, kind constraint.Kind, prov constraint.Provenance) error {
	first, second = strings.TrimSpace(first), strings.TrimSpace(second)
	if first == "" || second == "" {
		err := fmt.Errorf("constraint endpoints are required (declared at %s)", prov)
		p.fail(err)
		return err
	}
	return p.add(first, second, kind, prov)
}

// phaseAnchors returns the plugin's anchor pair for the phase, registering it
// on first use.
func (p *Plugin) phaseAnchors(ph phase.Phase, prov constraint.Provenance) (anchorPair, error) {
	p.mu.Lock()
	pair, ok := p.anchors[ph]
	p.mu.Unlock()
	if ok {
		return pair, nil
	}

	pair = anchorPair{start: PhaseStart(p.name, ph), end: PhaseEnd(p.name, ph)}
	label := fmt.Sprintf("plugin %s in phase %s", p.name, ph)
	if err := p.registerAnchor(pair.start, "start of "+label, ph); err != nil {
		return anchorPair{}, err
	}
	if err := p.registerAnchor(pair.end, "end of "+label, ph); err != nil {
		return anchorPair{}, err
	}
	p.add(pair.start, pair.end, constraint.Mandatory, prov)

	p.mu.Lock()
	p.anchors[ph] = pair
	p.mu.Unlock()
	return pair, nil
}

func (p *Plugin) registerAnchor(name, display string, ph phase.Phase) error {
	_, err := p.registry.Register(pass.Pass{
		QualifiedName: name,
		DisplayName:   display,
		Plugin:        p.name,
		Phase:         ph,
		Anchor:        true,
	})
	if err != nil {
		p.fail(err)
	}
	return err
}

func (p *Plugin) add(first, second string, kind constraint.Kind, prov constraint.Provenance) error {
	err := p.store.Add(p.ctx, constraint.Constraint{
		First:      first,
		Second:     second,
		Kind:       kind,
		Provenance: prov,
	})
	if err != nil {
		p.fail(err)
	}
	return err
}

func (p *Plugin) fail(err error) {
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
	ctxlog.FromContext(p.ctx).Debug("Declaration failed.", "plugin", p.name, "error", err)
}
