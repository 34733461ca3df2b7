// internal/repository/mastery_repository.go
package repository

import (
	"context"
	"errors"

	"go_5_study_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MasteryRepository は習熟状態の永続化を担います。
// DB接続は呼び出し側(Service/Store層)から渡され、ローカル・リモートどちらの
// バックエンドでも同じ実装が使われる。
type MasteryRepository interface {
	Find(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, subject, topic string) (*model.MasteryState, error)
	FindAllByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]*model.MasteryState, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.MasteryState, error)
	Upsert(ctx context.Context, db *gorm.DB, state *model.MasteryState) error
	DeleteAll(ctx context.Context, db *gorm.DB) error
}

type gormMasteryRepository struct{}

func NewGormMasteryRepository() MasteryRepository {
	return &gormMasteryRepository{}
}

func (r *gormMasteryRepository) Find(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, subject, topic string) (*model.MasteryState, error) {
	var state model.MasteryState
	result := db.WithContext(ctx).
		Where("owner_id = ? AND subject = ? AND topic = ?", ownerID, subject, topic).
		First(&state)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &state, nil
}

func (r *gormMasteryRepository) FindAllByOwner(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]*model.MasteryState, error) {
	var states []*model.MasteryState
	result := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("subject ASC, topic ASC").
		Find(&states)
	if result.Error != nil {
		return nil, result.Error
	}
	return states, nil
}

// FindAll は移行用にストア内の全状態を返します（ローカルDBは端末内の
// 単一ゲストのデータしか持たない前提）。
func (r *gormMasteryRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.MasteryState, error) {
	var states []*model.MasteryState
	result := db.WithContext(ctx).Order("subject ASC, topic ASC").Find(&states)
	if result.Error != nil {
		return nil, result.Error
	}
	return states, nil
}

func (r *gormMasteryRepository) Upsert(ctx context.Context, db *gorm.DB, state *model.MasteryState) error {
	// conflict key は (owner_id, subject, topic)。一致する行があれば全体を上書きする。
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "subject"}, {Name: "topic"}},
		UpdateAll: true,
	}).Create(state)
	return result.Error
}

func (r *gormMasteryRepository) DeleteAll(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.MasteryState{}).Error
}
