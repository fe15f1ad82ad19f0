package ingest

import "context"

// Watcher monitors the drop directory for externally recorded audio.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// Handler processes one dropped audio file.
type Handler func(ctx context.Context, filePath string) error
