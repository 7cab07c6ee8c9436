package config

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

// ErrNoPlatformConfig means the singleton default row is missing. This
// is a deployment fault: nothing can be estimated without it.
var ErrNoPlatformConfig = errors.New("no platform config row")

type PlatformConfigRepo interface {
	Get(ctx context.Context, tx *gorm.DB) (*types.PlatformConfig, error)
	// Upsert writes the singleton row; used by the boot-time seeder and
	// the platform console, never by the estimation pipeline.
	Upsert(ctx context.Context, tx *gorm.DB, cfg *types.PlatformConfig) (*types.PlatformConfig, error)
}

type platformConfigRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlatformConfigRepo(db *gorm.DB, baseLog *logger.Logger) PlatformConfigRepo {
	return &platformConfigRepo{db: db, log: baseLog.With("repo", "PlatformConfigRepo")}
}

func (r *platformConfigRepo) Get(ctx context.Context, tx *gorm.DB) (*types.PlatformConfig, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var cfg types.PlatformConfig
	err := transaction.WithContext(ctx).
		Order("created_at ASC").
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPlatformConfig
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *platformConfigRepo) Upsert(ctx context.Context, tx *gorm.DB, cfg *types.PlatformConfig) (*types.PlatformConfig, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	existing, err := r.Get(ctx, transaction)
	if err != nil && !errors.Is(err, ErrNoPlatformConfig) {
		return nil, err
	}
	if existing != nil {
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
		if err := transaction.WithContext(ctx).Save(cfg).Error; err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := transaction.WithContext(ctx).Create(cfg).Error; err != nil {
		return nil, err
	}
	return cfg, nil
}
