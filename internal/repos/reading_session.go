package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/types"
)

type ReadingSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ReadingSession) error
	GetByClientSessionID(ctx context.Context, tx *gorm.DB, clientSessionID string) (*types.ReadingSession, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.ReadingSession) error
	RecentTextIDs(ctx context.Context, tx *gorm.DB, language string, limit int) ([]string, error)
}

type readingSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadingSessionRepo(db *gorm.DB, baseLog *logger.Logger) ReadingSessionRepo {
	return &readingSessionRepo{
		db:  db,
		log: baseLog.With("repo", "ReadingSessionRepo"),
	}
}

func (r *readingSessionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ReadingSession) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *readingSessionRepo) GetByClientSessionID(ctx context.Context, tx *gorm.DB, clientSessionID string) (*types.ReadingSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.ReadingSession
	err := transaction.WithContext(ctx).
		Where("client_session_id = ?", clientSessionID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ClientSessionID == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *readingSessionRepo) Update(ctx context.Context, tx *gorm.DB, row *types.ReadingSession) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(row).Error
}

// RecentTextIDs returns the text ids of the most recently served sessions
// for a language, newest first. The selector uses these as its novelty
// filter.
func (r *readingSessionRepo) RecentTextIDs(ctx context.Context, tx *gorm.DB, language string, limit int) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []string
	err := transaction.WithContext(ctx).
		Model(&types.ReadingSession{}).
		Where("language = ? AND text_id <> ''", language).
		Order("start_ts desc").
		Limit(limit).
		Pluck("text_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
