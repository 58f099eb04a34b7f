package ports

import (
	"context"

	"github.com/resumatch/resumatch/internal/core/domain"
)

// Embedder produces fixed-length vectors for one of the named backends.
// Implementations initialize each backend lazily on first use; Loaded
// reports availability without triggering inference.
type Embedder interface {
	Encode(ctx context.Context, backend domain.Backend, text string) ([]float32, error)
	EncodeBatch(ctx context.Context, backend domain.Backend, texts []string) ([][]float32, error)
	Loaded(backend domain.Backend) bool
}

// TextExtractor turns an opaque uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// SummaryProvider writes free-text prose for one match. Providers are
// consulted in priority order; any error falls through to the next one.
type SummaryProvider interface {
	Name() string
	Generate(ctx context.Context, facts domain.MatchFacts) (string, error)
}

// PoolSource reads the candidate pools from an external store. A missing
// source yields empty slices, not an error.
type PoolSource interface {
	LoadJobs(ctx context.Context) ([]*domain.Job, error)
	LoadResumes(ctx context.Context) ([]*domain.Resume, error)
}
