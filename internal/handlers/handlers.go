package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/specialistvlad/passorder/internal/pass"
	"github.com/zclconf/go-cty/cty"
)

// Module is the interface that all handler modules must implement to be
// registered.
type Module interface {
	Register(h *Handlers)
}

// RegisteredHandler holds the compiled Go parts of a handler.
type RegisteredHandler struct {
	// NewConfig returns a pointer to a fresh config struct. Nil means the
	// handler takes no config.
	NewConfig func() any
	// Build turns a decoded config (nil when NewConfig is nil) into a pass
	// body.
	Build func(cfg any) (pass.Func, error)
}

// Handlers holds all the registered handlers.
type Handlers struct {
	all map[string]*RegisteredHandler
}

// New creates and initializes an empty Handlers instance.
func New() *Handlers {
	return &Handlers{
		all: make(map[string]*RegisteredHandler),
	}
}

// RegisterHandler registers a handler under name. Registering the same name
// twice is a programming error and panics.
func (h *Handlers) RegisterHandler(name string, handler *RegisteredHandler) {
	if _, exists := h.all[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	if handler == nil || handler.Build == nil {
		panic(fmt.Sprintf("handler '%s' has no Build function", name))
	}
	slog.Debug("Registering handler.", "name", name)
	h.all[name] = handler
}

// Lookup returns the handler registered under name.
func (h *Handlers) Lookup(name string) (*RegisteredHandler, bool) {
	handler, ok := h.all[name]
	return handler, ok
}

// Names returns every registered handler name, sorted.
func (h *Handlers) Names() []string {
	names := make([]string, 0, len(h.all))
	for name := range h.all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind builds the pass body of the named handler from a manifest config value.
// A null cfg means the manifest gave no config.
func (h *Handlers) Bind(ctx context.Context, name string, cfg cty.Value) (pass.Func, error) {
	handler, ok := h.all[name]
	if !ok {
		return nil, fmt.Errorf("unknown handler %q (registered: %s)", name, strings.Join(h.Names(), ", "))
	}

	if handler.NewConfig == nil {
		if hasAttributes(cfg) {
			return nil, fmt.Errorf("handler %q takes no config", name)
		}
		return handler.Build(nil)
	}

	target := handler.NewConfig()
	if err := decodeConfig(ctx, cfg, target); err != nil {
		return nil, fmt.Errorf("handler %q: invalid config: %w", name, err)
	}
	return handler.Build(target)
}

func hasAttributes(v cty.Value) bool {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return false
	}
	ty := v.Type()
	if ty.IsObjectType() || ty.IsMapType() {
		return v.LengthInt() > 0
	}
	return true
}
