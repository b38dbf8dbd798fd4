package yamlconf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/specialistvlad/passorder/internal/config"
	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/ctxlog"
	"github.com/specialistvlad/passorder/internal/fsutil"
	"github.com/specialistvlad/passorder/internal/phase"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// Loader implements config.Loader for *.yaml and *.yml manifests.
type Loader struct{}

// NewLoader creates a new YAML manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every YAML manifest under paths, in discovery order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		root, err := parseFile(file)
		if err != nil {
			return nil, err
		}
		for _, p := range root.Plugins {
			def, err := translatePlugin(file, p)
			if err != nil {
				return nil, err
			}
			model.Plugins = append(model.Plugins, def)
		}
		logger.Debug("Loaded YAML file.", "file", file, "plugins", len(root.Plugins))
	}

	logger.Debug("YAML loading complete.", "plugins", len(model.Plugins), "passes", model.PassCount())
	return model, nil
}

func parseFile(file string) (*fileRoot, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
	}

	var root fileRoot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return &root, nil
		}
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
	}
	return &root, nil
}

func source(file string, line int) constraint.Provenance {
	return constraint.Provenance{File: filepath.ToSlash(file), Line: line}
}

func translatePlugin(file string, p *pluginDoc) (*config.PluginDefinition, error) {
	def := &config.PluginDefinition{
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Source:      source(file, p.line),
	}

	for _, s := range p.Sequences {
		src := source(file, s.line)
		ph, err := phase.Parse(s.Phase)
		if err != nil {
			return nil, fmt.Errorf("%s: plugin %s: %w", src, p.Name, err)
		}
		seq := &config.SequenceDefinition{Phase: ph, Source: src}
		for _, ps := range s.Passes {
			pd, err := translatePass(file, p.Name, ps)
			if err != nil {
				return nil, err
			}
			seq.Passes = append(seq.Passes, pd)
		}
		def.Sequences = append(def.Sequences, seq)
	}

	for _, c := range p.Constraints {
		src := source(file, c.line)
		kind, err := constraint.ParseKind(c.Kind)
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

func translatePass(file, plugin string, ps *passDoc) (*config.PassDefinition, error) {
	def := &config.PassDefinition{
		Name:         ps.Name,
		DisplayName:  ps.DisplayName,
		Handler:      ps.Handler,
		BeforePlugin: ps.BeforePlugin,
		BeforePass:   ps.BeforePass,
		AfterPlugin:  ps.AfterPlugin,
		AfterPass:    ps.AfterPass,
		Config:       cty.NullVal(cty.DynamicPseudoType),
		Source:       source(file, ps.line),
	}

	if ps.Config.Kind != 0 {
		val, err := configValue(&ps.Config)
		if err != nil {
			return nil, fmt.Errorf("%s: plugin %s: invalid config for pass %s: %w", def.Source, plugin, ps.Name, err)
		}
		def.Config = val
	}
	return def, nil
}

// configValue converts a YAML subtree into a cty value with the same shape
// HCL would give it: mappings become objects and sequences become tuples.
func configValue(node *yaml.Node) (cty.Value, error) {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return cty.NilVal, err
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return cty.NilVal, err
	}
	ty, err := ctyjson.ImpliedType(buf)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(buf, ty)
}
