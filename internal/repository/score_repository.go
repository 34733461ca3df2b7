// internal/repository/score_repository.go
package repository

import (
	"context"
	"errors"

	"go_5_study_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreRepository interface {
	Find(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, subject, topic string) (*model.BestScore, error)
	FindAllByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]*model.BestScore, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.BestScore, error)
	Upsert(ctx context.Context, db *gorm.DB, score *model.BestScore) error
	DeleteAll(ctx context.Context, db *gorm.DB) error
}

type gormScoreRepository struct{}

func NewGormScoreRepository() ScoreRepository {
	return &gormScoreRepository{}
}

func (r *gormScoreRepository) Find(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, subject, topic string) (*model.BestScore, error) {
	var score model.BestScore
	result := db.WithContext(ctx).
		Where("owner_id = ? AND subject = ? AND topic = ?", ownerID, subject, topic).
		First(&score)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &score, nil
}

func (r *gormScoreRepository) FindAllByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]*model.BestScore, error) {
	var scores []*model.BestScore
	result := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("subject ASC, topic ASC").
		Find(&scores)
	if result.Error != nil {
		return nil, result.Error
	}
	return scores, nil
}

func (r *gormScoreRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.BestScore, error) {
	var scores []*model.BestScore
	result := db.WithContext(ctx).Order("subject ASC, topic ASC").Find(&scores)
	if result.Error != nil {
		return nil, result.Error
	}
	return scores, nil
}

// Upsert は既存行があれば上書きします。
// 「より高いスコアだけ残す」判定は Service 層が行い、ここは素直に書くだけ。
func (r *gormScoreRepository) Upsert(ctx context.Context, db *gorm.DB, score *model.BestScore) error {
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "subject"}, {Name: "topic"}},
		UpdateAll: true,
	}).Create(score)
	return result.Error
}

func (r *gormScoreRepository) DeleteAll(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.BestScore{}).Error
}
