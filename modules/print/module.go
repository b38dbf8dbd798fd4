package print

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/specialistvlad/passorder/internal/ctxlog"
	"github.com/specialistvlad/passorder/internal/handlers"
	"github.com/specialistvlad/passorder/internal/pass"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Config defines the arguments of the print handler.
type Config struct {
	Message *string           `cty:"message"`
	Fields  map[string]string `cty:"fields"`
}

// OnRunPrint writes the configured message and fields to the target when it
// is an io.Writer, and logs them otherwise.
func OnRunPrint(cfg *Config) pass.Func {
	return func(ctx context.Context, target any) error {
		logger := ctxlog.FromContext(ctx)
		logger.Debug("Printing input")

		w, ok := target.(io.Writer)
		if !ok {
			logger.Info("print", "message", message(cfg), "fields", cfg.Fields)
			return nil
		}

		if _, err := fmt.Fprintln(w, message(cfg)); err != nil {
			return err
		}

		// Sort keys for consistent output
		keys := make([]string, 0, len(cfg.Fields))
		for k := range cfg.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "      %s = %q\n", k, cfg.Fields[k]); err != nil {
				return err
			}
		}
		return nil
	}
}

func message(cfg *Config) string {
	if cfg.Message == nil {
		return "(null)"
	}
	return *cfg.Message
}

// Register registers the handler with the registry.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("print", &handlers.RegisteredHandler{
		NewConfig: func() any { return new(Config) },
		Build: func(cfg any) (pass.Func, error) {
			return OnRunPrint(cfg.(*Config)), nil
		},
	})
}
