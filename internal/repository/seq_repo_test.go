package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeqRepo(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewSeqRepo(newTestDB(t), rdb)
	ctx := context.Background()

	t.Run("fresh conversation allocates from 1", func(t *testing.T) {
		seq, err := repo.AllocSeq(ctx, "cs_u1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), seq)

		seq, err = repo.AllocSeq(ctx, "cs_u1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), seq)
	})

	t.Run("counter reseeds from the synced high-water mark after redis loss", func(t *testing.T) {
		require.NoError(t, repo.SyncSeqToMySQLWithTx(ctx, repo.db, "cs_u1", 2))
		mr.FlushAll()

		seq, err := repo.AllocSeq(ctx, "cs_u1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), seq)
	})

	t.Run("read watermark only moves forward", func(t *testing.T) {
		require.NoError(t, repo.UpdateReadSeq(ctx, "cs_u1", constant.RoleAdmin, 5))
		require.NoError(t, repo.UpdateReadSeq(ctx, "cs_u1", constant.RoleAdmin, 3))

		readSeq, err := repo.GetReadSeq(ctx, "cs_u1", constant.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, int64(5), readSeq)
	})
}
