package db

import (
	types "github.com/quotedesk/quotedesk-backend/internal/domain"
)

func (s *PostgresService) AutoMigrateAll() error {
	return s.db.AutoMigrate(
		&types.Tenant{},
		&types.TenantSettings{},
		&types.PlatformConfig{},
		&types.IndustryPack{},
		&types.Quote{},
		&types.QuoteVersion{},
		&types.QuoteNote{},
	)
}
