package config

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

var ErrTenantNotFound = errors.New("tenant not found")

type TenantRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tenants []*types.Tenant) ([]*types.Tenant, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (*types.Tenant, error)
}

type tenantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTenantRepo(db *gorm.DB, baseLog *logger.Logger) TenantRepo {
	return &tenantRepo{db: db, log: baseLog.With("repo", "TenantRepo")}
}

func (r *tenantRepo) Create(ctx context.Context, tx *gorm.DB, tenants []*types.Tenant) ([]*types.Tenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(tenants) == 0 {
		return []*types.Tenant{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *tenantRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (*types.Tenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var t types.Tenant
	err := transaction.WithContext(ctx).
		Where("id = ?", tenantID).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}
