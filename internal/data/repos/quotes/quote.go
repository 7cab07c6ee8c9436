package quotes

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

var ErrQuoteNotFound = errors.New("quote not found")

type QuoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, quotes []*types.Quote) ([]*types.Quote, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, quoteID uuid.UUID) (*types.Quote, error)
	UpdateCurrentOutput(ctx context.Context, tx *gorm.DB, tenantID, quoteID uuid.UUID, output datatypes.JSON, versionNumber int) error
}

type quoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteRepo {
	return &quoteRepo{db: db, log: baseLog.With("repo", "QuoteRepo")}
}

func (r *quoteRepo) Create(ctx context.Context, tx *gorm.DB, quotes []*types.Quote) ([]*types.Quote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(quotes) == 0 {
		return []*types.Quote{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *quoteRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, quoteID uuid.UUID) (*types.Quote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var q types.Quote
	err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, quoteID).
		First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *quoteRepo) UpdateCurrentOutput(ctx context.Context, tx *gorm.DB, tenantID, quoteID uuid.UUID, output datatypes.JSON, versionNumber int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Quote{}).
		Where("tenant_id = ? AND id = ?", tenantID, quoteID).
		Updates(map[string]interface{}{
			"current_output":         output,
			"current_version_number": versionNumber,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}
