// internal/repository/queue_repository_test.go
package repository

import (
	"context"
	"testing"
	"time"

	"go_5_study_keep/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupQueueDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.QueueItem{}))
	return db
}

func newItemAt(enqueuedAt time.Time) *model.QueueItem {
	return &model.QueueItem{
		ItemID:           uuid.New(),
		TargetCollection: "mastery_states",
		OperationKind:    model.OperationUpsert,
		Payload:          []byte(`{}`),
		EnqueuedAt:       enqueuedAt,
	}
}

func Test_gormQueueRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormQueueRepository()

	t.Run("正常系: enqueued_atの昇順で返る(FIFO)", func(t *testing.T) {
		db := setupQueueDB(t, "queue_fifo")
		base := time.Now()

		// わざと逆順に書き込む
		third := newItemAt(base.Add(2 * time.Second))
		first := newItemAt(base)
		second := newItemAt(base.Add(time.Second))
		for _, item := range []*model.QueueItem{third, first, second} {
			require.NoError(t, repo.Enqueue(ctx, db, item))
		}

		items, err := repo.ListPending(ctx, db)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, first.ItemID, items[0].ItemID)
		assert.Equal(t, second.ItemID, items[1].ItemID)
		assert.Equal(t, third.ItemID, items[2].ItemID)

		count, err := repo.CountPending(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("正常系: 削除した項目は一覧から消える", func(t *testing.T) {
		db := setupQueueDB(t, "queue_delete")
		item := newItemAt(time.Now())
		require.NoError(t, repo.Enqueue(ctx, db, item))

		require.NoError(t, repo.Delete(ctx, db, item.ItemID))

		items, err := repo.ListPending(ctx, db)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("正常系: リトライ回数の加算", func(t *testing.T) {
		db := setupQueueDB(t, "queue_retry")
		item := newItemAt(time.Now())
		require.NoError(t, repo.Enqueue(ctx, db, item))

		require.NoError(t, repo.IncrementRetry(ctx, db, item.ItemID))
		require.NoError(t, repo.IncrementRetry(ctx, db, item.ItemID))

		items, err := repo.ListPending(ctx, db)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].RetryCount)
	})
}
