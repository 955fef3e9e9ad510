package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keepaway/pkg/domain"
)

// RunAnswerCacheContract runs a suite of tests to verify that an AnswerCache implementation
// adheres to the defined interface contract.
func RunAnswerCacheContract(t *testing.T, cache AnswerCache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		want := &domain.Result{
			RunID:       "run-1",
			Answer:      10605,
			Rounds:      20,
			Dampener:    3,
			Modulus:     96577,
			Inspections: []int64{101, 95, 7, 105},
		}
		require.NoError(t, cache.Put(ctx, key, want), "Put should not return error")

		got, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, want, got)
	})

	t.Run("Returned results are isolated", func(t *testing.T) {
		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		got.Inspections[0] = -1
		got.Answer = -1

		again, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(10605), again.Answer)
		assert.Equal(t, int64(101), again.Inspections[0])
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, &domain.Result{Answer: 1}))
		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Answer)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Delete(ctx, key), "Delete should not return error")
		_, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Get after Delete should return ErrCacheMiss")

		assert.NoError(t, cache.Delete(ctx, key), "Deleting twice is not an error")
	})
}
