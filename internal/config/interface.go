package config

import (
	"context"
)

// Loader is the interface for a format-specific project loader.
type Loader interface {
	// Load reads every manifest file found under paths and translates the
	// declared nodes into the format-agnostic project model.
	Load(ctx context.Context, paths ...string) (*Project, error)
}
