package config

import "context"

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads every manifest under the given paths and translates it into
	// the format-agnostic model. Paths may be files or directories.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
