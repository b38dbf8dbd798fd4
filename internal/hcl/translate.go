package hcl

import (
	"context"
	"fmt"

	"github.com/specialistvlad/passorder/internal/config"
	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/phase"
	"github.com/zclconf/go-cty/cty"
)

// translatePlugin converts the HCL-specific plugin schema into the agnostic
// model.
func (l *Loader) translatePlugin(ctx context.Context, file string, p *pluginBlock) (*config.PluginDefinition, error) {
	def := &config.PluginDefinition{
		Name:        p.Name,
		DisplayName: deref(p.DisplayName),
		Source:      provenanceOf(file, p.Body),
	}

	for _, s := range p.Sequences {
		seq, err := l.translateSequence(ctx, file, p.Name, s)
		if err != nil {
			return nil, err
		}
		def.Sequences = append(def.Sequences, seq)
	}

	for _, c := range p.Constraints {
		src := provenanceOf(file, c.Body)
		kind, err := constraint.ParseKind(deref(c.Kind))
		if err != nil {
			return nil, fmt.Errorf("%s: plugin %s: %w", src, p.Name, err)
		}
		def.Constraints = append(def.Constraints, &config.ConstraintDefinition{
			First:  c.First,
			Second: c.Second,
			Kind:   kind,
			Source: src,
		})
	}
	return def, nil
}

func (l *Loader) translateSequence(ctx context.Context, file, plugin string, s *sequenceBlock) (*config.SequenceDefinition, error) {
	src := provenanceOf(file, s.Body)
	ph, err := phase.Parse(s.Phase)
	if err != nil {
		return nil, fmt.Errorf("%s: plugin %s: %w", src, plugin, err)
	}

	seq := &config.SequenceDefinition{Phase: ph, Source: src}
	for _, ps := range s.Passes {
		def, err := l.translatePass(ctx, file, plugin, ps)
		if err != nil {
			return nil, err
		}
		seq.Passes = append(seq.Passes, def)
	}
	return seq, nil
}

func (l *Loader) translatePass(ctx context.Context, file, plugin string, ps *passBlock) (*config.PassDefinition, error) {
	def := &config.PassDefinition{
		Name:         ps.Name,
		DisplayName:  deref(ps.DisplayName),
		Handler:      deref(ps.Handler),
		BeforePlugin: ps.BeforePlugin,
		BeforePass:   ps.BeforePass,
		AfterPlugin:  ps.AfterPlugin,
		AfterPass:    ps.AfterPass,
		Config:       cty.NullVal(cty.DynamicPseudoType),
		Source:       provenanceOf(file, ps.Body),
	}

	if isExprDefined(ctx, ps.Config, "config") {
		val, diags := ps.Config.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%s: plugin %s: invalid config for pass %s: %w", def.Source, plugin, ps.Name, diags)
		}
		def.Config = val
	}
	return def, nil
}
