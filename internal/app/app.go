package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/passorder/internal/config"
	"github.com/specialistvlad/passorder/internal/ctxlog"
	"github.com/specialistvlad/passorder/internal/declare"
	"github.com/specialistvlad/passorder/internal/handlers"
	"github.com/specialistvlad/passorder/internal/hcl"
	"github.com/specialistvlad/passorder/internal/plan"
	"github.com/specialistvlad/passorder/internal/resolver"
	"github.com/specialistvlad/passorder/internal/yamlconf"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	handlers *handlers.Handlers
}

// DefaultLoader reads both HCL and YAML manifests.
func DefaultLoader() config.Loader {
	return config.MultiLoader{
		{Extensions: []string{".hcl"}, Loader: hcl.NewLoader()},
		{Extensions: []string{".yaml", ".yml"}, Loader: yamlconf.NewLoader()},
	}
}

// NewApp is the constructor for the main application. Plans and pass output
// go to outW, logs to logW. A nil loader means DefaultLoader and no modules
// means the built-in ones.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...handlers.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if loader == nil {
		loader = DefaultLoader()
	}

	h := handlers.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(h)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "handlers", h.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		handlers: h,
	}
}

// Handlers returns the application's handler registry. This is primarily for
// testing.
func (a *App) Handlers() *handlers.Handlers {
	return a.handlers
}

// Plugins loads the configured manifests and turns every plugin definition
// into a descriptor with its handlers bound.
func (a *App) Plugins(ctx context.Context) ([]declare.Descriptor, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	model, err := a.loader.Load(ctx, a.config.Paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	a.logger.Debug("Configuration loaded and translated into unified model.",
		"plugins", len(model.Plugins), "passes", model.PassCount())

	plugins := make([]declare.Descriptor, 0, len(model.Plugins))
	for _, def := range model.Plugins {
		mp, err := bindPlugin(ctx, a.handlers, def)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, mp)
	}
	return plugins, nil
}

// Resolve loads the manifests and computes the execution plan.
func (a *App) Resolve(ctx context.Context) (*plan.Plan, error) {
	plugins, err := a.Plugins(ctx)
	if err != nil {
		return nil, err
	}
	p, err := resolver.Resolve(ctxlog.WithLogger(ctx, a.logger), plugins)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Plan resolved.", "passes", p.Len(), "dropped", len(p.Dropped()))
	return p, nil
}

// Plan resolves the manifests and writes the plan in the configured output
// format.
func (a *App) Plan(ctx context.Context) error {
	p, err := a.Resolve(ctx)
	if err != nil {
		return err
	}
	return plan.Render(a.outW, p, plan.Format(a.config.OutputFormat))
}

// Validate resolves the manifests and reports the advisory constraints that
// could not be honoured.
func (a *App) Validate(ctx context.Context) error {
	p, err := a.Resolve(ctx)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(a.outW, "ok: %d passes\n", p.Len()); err != nil {
		return err
	}
	return plan.RenderDropped(a.outW, p)
}

// Run resolves the manifests and executes the plan.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("App.Run method started.")
	p, err := a.Resolve(ctx)
	if err != nil {
		return err
	}
	if err := a.Execute(ctx, p); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// Execute runs the passes of p one after another, stopping at the first
// failure. Each body receives the app's output writer as its target. Passes
// without a body are skipped.
func (a *App) Execute(ctx context.Context, p *plan.Plan) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	if p.Len() == 0 {
		a.logger.Warn("Plan is empty, execution not required.")
		return nil
	}

	a.logger.Info("Starting sequential execution...", "passes", p.Len())
	for i, e := range p.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.Func == nil {
			a.logger.Debug("Pass has no body, skipping.", "pass", e.QualifiedName)
			continue
		}
		a.logger.Debug("Running pass.", "index", i, "pass", e.QualifiedName, "phase", e.Phase.String(), "plugin", e.Plugin)
		if err := e.Func(ctx, a.outW); err != nil {
			return fmt.Errorf("pass %s: %w", e.QualifiedName, err)
		}
	}
	a.logger.Info("Execution finished.")
	return nil
}
