package config

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

type TenantSettingsRepo interface {
	Create(ctx context.Context, tx *gorm.DB, settings []*types.TenantSettings) ([]*types.TenantSettings, error)
	// GetByTenantID returns nil when the tenant has never saved settings;
	// the platform/industry layers then apply unmodified.
	GetByTenantID(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (*types.TenantSettings, error)
}

type tenantSettingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTenantSettingsRepo(db *gorm.DB, baseLog *logger.Logger) TenantSettingsRepo {
	return &tenantSettingsRepo{db: db, log: baseLog.With("repo", "TenantSettingsRepo")}
}

func (r *tenantSettingsRepo) Create(ctx context.Context, tx *gorm.DB, settings []*types.TenantSettings) ([]*types.TenantSettings, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(settings) == 0 {
		return []*types.TenantSettings{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *tenantSettingsRepo) GetByTenantID(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (*types.TenantSettings, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var s types.TenantSettings
	err := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
