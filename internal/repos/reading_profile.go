package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/types"
)

type ReadingProfileRepo interface {
	GetByLanguage(ctx context.Context, tx *gorm.DB, language string) (*types.ReadingProfile, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ReadingProfile) error
	All(ctx context.Context, tx *gorm.DB) ([]*types.ReadingProfile, error)
}

type readingProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadingProfileRepo(db *gorm.DB, baseLog *logger.Logger) ReadingProfileRepo {
	return &readingProfileRepo{
		db:  db,
		log: baseLog.With("repo", "ReadingProfileRepo"),
	}
}

func (r *readingProfileRepo) GetByLanguage(ctx context.Context, tx *gorm.DB, language string) (*types.ReadingProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.ReadingProfile
	err := transaction.WithContext(ctx).
		Where("language = ?", language).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Language == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *readingProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ReadingProfile) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "language"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"skill_level", "confidence", "trend_7d", "trend_30d",
				"bottleneck", "signals", "recommended", "history", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *readingProfileRepo) All(ctx context.Context, tx *gorm.DB) ([]*types.ReadingProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ReadingProfile
	err := transaction.WithContext(ctx).
		Order("language asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
