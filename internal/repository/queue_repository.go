// internal/repository/queue_repository.go
package repository

import (
	"context"

	"go_5_study_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueueRepository はオフラインキューの永続化を担います。
// キューはローカルDBにのみ存在し、enqueued_at の昇順が処理順になる。
type QueueRepository interface {
	Enqueue(ctx context.Context, db *gorm.DB, item *model.QueueItem) error
	ListPending(ctx context.Context, db *gorm.DB) ([]*model.QueueItem, error)
	CountPending(ctx context.Context, db *gorm.DB) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, itemID uuid.UUID) error
	IncrementRetry(ctx context.Context, db *gorm.DB, itemID uuid.UUID) error
}

type gormQueueRepository struct{}

func NewGormQueueRepository() QueueRepository {
	return &gormQueueRepository{}
}

func (r *gormQueueRepository) Enqueue(ctx context.Context, db *gorm.DB, item *model.QueueItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *gormQueueRepository) ListPending(ctx context.Context, db *gorm.DB) ([]*model.QueueItem, error) {
	var items []*model.QueueItem
	result := db.WithContext(ctx).Order("enqueued_at ASC").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (r *gormQueueRepository) CountPending(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.QueueItem{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func (r *gormQueueRepository) Delete(ctx context.Context, db *gorm.DB, itemID uuid.UUID) error {
	return db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&model.QueueItem{}).Error
}

func (r *gormQueueRepository) IncrementRetry(ctx context.Context, db *gorm.DB, itemID uuid.UUID) error {
	return db.WithContext(ctx).Model(&model.QueueItem{}).
		Where("item_id = ?", itemID).
		UpdateColumn("retry_count", gorm.Expr("retry_count + 1")).Error
}
