package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/types"
)

type TextDocRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.TextDoc, error)
	ListByDifficulty(ctx context.Context, tx *gorm.DB, language string, min, max float64, limit int) ([]*types.TextDoc, error)
	ListByLanguage(ctx context.Context, tx *gorm.DB, language string, limit int) ([]*types.TextDoc, error)
	Upsert(ctx context.Context, tx *gorm.DB, rows []*types.TextDoc) error
}

type textDocRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTextDocRepo(db *gorm.DB, baseLog *logger.Logger) TextDocRepo {
	return &textDocRepo{
		db:  db,
		log: baseLog.With("repo", "TextDocRepo"),
	}
}

func (r *textDocRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.TextDoc, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.TextDoc
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *textDocRepo) ListByDifficulty(ctx context.Context, tx *gorm.DB, language string, min, max float64, limit int) ([]*types.TextDoc, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Where("language = ? AND difficulty_score >= ? AND difficulty_score <= ?", language, min, max).
		Order("difficulty_score asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []*types.TextDoc
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *textDocRepo) ListByLanguage(ctx context.Context, tx *gorm.DB, language string, limit int) ([]*types.TextDoc, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Where("language = ?", language).
		Order("difficulty_score asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []*types.TextDoc
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *textDocRepo) Upsert(ctx context.Context, tx *gorm.DB, rows []*types.TextDoc) error {
	if len(rows) == 0 {
		return nil
	}
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"language", "difficulty_score", "title", "paragraphs",
				"quiz", "source", "word_count", "updated_at",
			}),
		}).
		Create(rows).Error
}
