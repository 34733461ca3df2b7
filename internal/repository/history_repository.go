// internal/repository/history_repository.go
package repository

import (
	"context"

	"go_5_study_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryRepository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *model.QuestionHistory) error
	FindByFilter(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, filter model.HistoryFilter) ([]*model.QuestionHistory, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.QuestionHistory, error)
	DeleteAll(ctx context.Context, db *gorm.DB) error
}

type gormHistoryRepository struct{}

func NewGormHistoryRepository() HistoryRepository {
	return &gormHistoryRepository{}
}

func (r *gormHistoryRepository) Insert(ctx context.Context, db *gorm.DB, entry *model.QuestionHistory) error {
	return db.WithContext(ctx).Create(entry).Error
}

// FindByFilter は新しい順に履歴を返します。ゼロ値のフィルタ条件は無視する。
func (r *gormHistoryRepository) FindByFilter(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, filter model.HistoryFilter) ([]*model.QuestionHistory, error) {
	query := db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Topic != "" {
		query = query.Where("topic = ?", filter.Topic)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []*model.QuestionHistory
	result := query.Order("answered_at DESC").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

func (r *gormHistoryRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.QuestionHistory, error) {
	var entries []*model.QuestionHistory
	result := db.WithContext(ctx).Order("answered_at ASC").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

func (r *gormHistoryRepository) DeleteAll(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.QuestionHistory{}).Error
}
