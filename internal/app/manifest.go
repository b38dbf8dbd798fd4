package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/passorder/internal/config"
	"github.com/specialistvlad/passorder/internal/declare"
	"github.com/specialistvlad/passorder/internal/handlers"
	"github.com/specialistvlad/passorder/internal/pass"
)

// manifestPlugin adapts a loaded plugin definition to declare.Descriptor.
// Declarations carry the manifest location as provenance.
type manifestPlugin struct {
	def    *config.PluginDefinition
	bodies map[*config.PassDefinition]pass.Func
}

// bindPlugin resolves the handler of every pass in def. All binding problems
// are reported together.
func bindPlugin(ctx context.Context, h *handlers.Handlers, def *config.PluginDefinition) (*manifestPlugin, error) {
	mp := &manifestPlugin{def: def, bodies: make(map[*config.PassDefinition]pass.Func)}

	var errs []error
	for _, s := range def.Sequences {
		for _, pd := range s.Passes {
			if pd.Handler == "" {
				if !pd.Config.IsNull() {
					errs = append(errs, fmt.Errorf("%s: pass %s: config given without a handler", pd.Source, pd.Name))
				}
				continue
			}
			fn, err := h.Bind(ctx, pd.Handler, pd.Config)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: pass %s: %w", pd.Source, pd.Name, err))
				continue
			}
			mp.bodies[pd] = fn
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("plugin %s: %w", def.Name, err)
	}
	return mp, nil
}

func (m *manifestPlugin) QualifiedName() string { return m.def.Name }

func (m *manifestPlugin) Declare(p *declare.Plugin) error {
	for _, s := range m.def.Sequences {
		seq := p.SequenceAt(s.Phase, s.Source)
		for _, pd := range s.Passes {
			dp := seq.RunAt(pass.Descriptor{
				QualifiedName: pd.Name,
				DisplayName:   pd.DisplayName,
				Func:          m.bodies[pd],
			}, pd.Source).At(pd.Source)

			for _, target := range pd.BeforePlugin {
				dp.BeforePlugin(target)
			}
			for _, target := range pd.AfterPlugin {
				dp.AfterPlugin(target)
			}
			for _, target := range pd.BeforePass {
				dp.BeforePass(target)
			}
			for _, target := range pd.AfterPass {
				dp.AfterPass(target)
			}
		}
	}

	for _, c := range m.def.Constraints {
		if err := p.ConstrainAt(c.First, c.Second, c.Kind, c.Source); err != nil {
			return err
		}
	}
	return nil
}
