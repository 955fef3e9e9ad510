package ports

import (
	"context"

	"github.com/aretw0/keepaway/pkg/domain"
)

// AnswerCache stores finished run results keyed by input digest and mode.
// It never holds simulation state: a run either completes and is cached whole, or is not cached.
type AnswerCache interface {
	// Get returns the cached result for key.
	// Returns domain.ErrCacheMiss if nothing is stored under key.
	Get(ctx context.Context, key string) (*domain.Result, error)

	// Put stores the result under key, replacing any previous value.
	Put(ctx context.Context, key string, result *domain.Result) error

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
