package config

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

type IndustryPackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, packs []*types.IndustryPack) ([]*types.IndustryPack, error)
	// GetLatestEnabled returns the highest enabled pack_version for the
	// industry key, or nil when the industry has no enabled pack. A missing
	// pack is not an error: the platform defaults stand alone.
	GetLatestEnabled(ctx context.Context, tx *gorm.DB, industryKey string) (*types.IndustryPack, error)
}

type industryPackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIndustryPackRepo(db *gorm.DB, baseLog *logger.Logger) IndustryPackRepo {
	return &industryPackRepo{db: db, log: baseLog.With("repo", "IndustryPackRepo")}
}

func (r *industryPackRepo) Create(ctx context.Context, tx *gorm.DB, packs []*types.IndustryPack) ([]*types.IndustryPack, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(packs) == 0 {
		return []*types.IndustryPack{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&packs).Error; err != nil {
		return nil, err
	}
	return packs, nil
}

func (r *industryPackRepo) GetLatestEnabled(ctx context.Context, tx *gorm.DB, industryKey string) (*types.IndustryPack, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if industryKey == "" {
		return nil, nil
	}

	var pack types.IndustryPack
	err := transaction.WithContext(ctx).
		Where("industry_key = ? AND enabled = ?", industryKey, true).
		Order("pack_version DESC").
		First(&pack).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pack, nil
}
