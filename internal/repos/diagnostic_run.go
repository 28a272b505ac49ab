package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/types"
)

type DiagnosticRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.DiagnosticRunRecord) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DiagnosticRunRecord, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.DiagnosticRunRecord) error
}

type diagnosticRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiagnosticRunRepo(db *gorm.DB, baseLog *logger.Logger) DiagnosticRunRepo {
	return &diagnosticRunRepo{
		db:  db,
		log: baseLog.With("repo", "DiagnosticRunRepo"),
	}
}

func (r *diagnosticRunRepo) Create(ctx context.Context, tx *gorm.DB, row *types.DiagnosticRunRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *diagnosticRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DiagnosticRunRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.DiagnosticRunRecord
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *diagnosticRunRepo) Update(ctx context.Context, tx *gorm.DB, row *types.DiagnosticRunRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(row).Error
}
