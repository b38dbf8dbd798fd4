package env_vars

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/specialistvlad/passorder/internal/ctxlog"
	"github.com/specialistvlad/passorder/internal/handlers"
	"github.com/specialistvlad/passorder/internal/pass"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Config defines the arguments of the env_vars handler.
type Config struct {
	// Require lists variables that must be set for the pass to succeed.
	Require []string `cty:"require"`
	// Prefix selects the variables that are printed. Nil prints none.
	Prefix *string `cty:"prefix"`
}

// OnRunEnvVars checks the required environment variables and writes the ones
// matching the prefix, sorted, to the target when it is an io.Writer.
func OnRunEnvVars(cfg *Config) pass.Func {
	return func(ctx context.Context, target any) error {
		logger := ctxlog.FromContext(ctx)

		var errs []error
		for _, name := range cfg.Require {
			if _, ok := os.LookupEnv(name); !ok {
				errs = append(errs, fmt.Errorf("environment variable %s is not set", name))
			}
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}

		if cfg.Prefix == nil {
			return nil
		}
		envMap := make(map[string]string)
		for _, e := range os.Environ() {
			pair := strings.SplitN(e, "=", 2)
			if len(pair) == 2 && strings.HasPrefix(pair[0], *cfg.Prefix) {
				envMap[pair[0]] = pair[1]
			}
		}
		keys := make([]string, 0, len(envMap))
		for k := range envMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		logger.Debug("Collected environment variables.", "prefix", *cfg.Prefix, "count", len(keys))

		w, ok := target.(io.Writer)
		if !ok {
			return nil
		}
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "%s=%s\n", k, envMap[k]); err != nil {
				return err
			}
		}
		return nil
	}
}

// Register registers the handler with the registry.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("env_vars", &handlers.RegisteredHandler{
		NewConfig: func() any { return new(Config) },
		Build: func(cfg any) (pass.Func, error) {
			return OnRunEnvVars(cfg.(*Config)), nil
		},
	})
}
