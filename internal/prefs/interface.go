package prefs

import "context"

// Persister stores the preference record. Load returns nil, nil when nothing
// has been stored yet.
type Persister interface {
	Load(ctx context.Context) (*DisplayConfig, error)
	Save(ctx context.Context, cfg DisplayConfig) error
}

// Syncer reflects a configuration in UI controls such as menu check marks.
type Syncer interface {
	Sync(cfg DisplayConfig) error
}

// Source exposes the current configuration to readers.
type Source interface {
	Current() DisplayConfig
}
