//go:build integration
// +build integration

package dedup_repo_test

import (
	"context"
	"sync/atomic"
	"testing"

	dedup_repo "payhook/internal/repo/dedup"
	"payhook/internal/testinfra"
	"payhook/internal/webhook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestPgDedupStore_Integration(t *testing.T) {
	ctx := context.Background()

	pg, err := testinfra.NewPostgres(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { pg.Cleanup(ctx) })

	store := dedup_repo.NewPgDedupStore(pg.Pool)

	t.Run("first delivery inserts, redelivery conflicts", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))

		isNew, err := store.MarkSeen(ctx, webhook.SourceVendor, "p1")
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkSeen(ctx, webhook.SourceVendor, "p1")
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("same id on different sources is independent", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))

		isNew, err := store.MarkSeen(ctx, webhook.SourceVendor, "evt-1")
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkSeen(ctx, webhook.SourcePlatform, "evt-1")
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("concurrent deliveries yield exactly one insert", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))

		var firstSeen atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < 50; i++ {
			g.Go(func() error {
				isNew, err := store.MarkSeen(gctx, webhook.SourcePlatform, "evt-race")
				if err != nil {
					return err
				}
				if isNew {
					firstSeen.Add(1)
				}
				return nil
			})
		}

		require.NoError(t, g.Wait())
		assert.Equal(t, int64(1), firstSeen.Load())
	})
}
