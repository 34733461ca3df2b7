// internal/repository/marker_repository.go
package repository

import (
	"context"
	"errors"

	"go_5_study_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarkerRepository は移行マーカー(リモートストア側)を扱います。
type MarkerRepository interface {
	Find(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) (*model.MigrationMarker, error)
	Create(ctx context.Context, db *gorm.DB, marker *model.MigrationMarker) error
}

type gormMarkerRepository struct{}

func NewGormMarkerRepository() MarkerRepository {
	return &gormMarkerRepository{}
}

func (r *gormMarkerRepository) Find(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) (*model.MigrationMarker, error) {
	var marker model.MigrationMarker
	result := db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&marker)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &marker, nil
}

func (r *gormMarkerRepository) Create(ctx context.Context, db *gorm.DB, marker *model.MigrationMarker) error {
	return db.WithContext(ctx).Create(marker).Error
}
