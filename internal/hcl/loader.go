package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/passorder/internal/config"
	"github.com/specialistvlad/passorder/internal/ctxlog"
	"github.com/specialistvlad/passorder/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths. Plugins keep the order of their
// files and, within a file, their order of appearance.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &config.Model{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, p := range root.Plugins {
			def, err := l.translatePlugin(ctx, file, p)
			if err != nil {
				return nil, err
			}
			model.Plugins = append(model.Plugins, def)
		}
		logger.Debug("Loaded HCL file.", "file", file, "plugins", len(root.Plugins))
	}

	logger.Debug("HCL loading complete.", "plugins", len(model.Plugins), "passes", model.PassCount())
	return model, nil
}
