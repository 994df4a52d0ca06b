package settings

import "context"

// Store persists settings between runs.
type Store interface {
	// Load returns the saved settings. found is false when nothing was saved yet.
	Load(ctx context.Context) (s Settings, found bool, err error)
	// Save replaces the saved settings.
	Save(ctx context.Context, s Settings) error
}
