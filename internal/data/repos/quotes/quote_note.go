package quotes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

type QuoteNoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notes []*types.QuoteNote) ([]*types.QuoteNote, error)
	// GetRecentByQuoteID returns up to limit notes, newest first. Callers
	// needing a canonical order re-sort; retrieval order is not a contract.
	GetRecentByQuoteID(ctx context.Context, tx *gorm.DB, tenantID, quoteID uuid.UUID, limit int) ([]*types.QuoteNote, error)
}

type quoteNoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuoteNoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteNoteRepo {
	return &quoteNoteRepo{db: db, log: baseLog.With("repo", "QuoteNoteRepo")}
}

func (r *quoteNoteRepo) Create(ctx context.Context, tx *gorm.DB, notes []*types.QuoteNote) ([]*types.QuoteNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(notes) == 0 {
		return []*types.QuoteNote{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *quoteNoteRepo) GetRecentByQuoteID(ctx context.Context, tx *gorm.DB, tenantID, quoteID uuid.UUID, limit int) ([]*types.QuoteNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Where("tenant_id = ? AND quote_id = ?", tenantID, quoteID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var results []*types.QuoteNote
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
