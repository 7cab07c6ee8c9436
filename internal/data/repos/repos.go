package repos

import (
	"gorm.io/gorm"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos/config"
	"github.com/quotedesk/quotedesk-backend/internal/data/repos/quotes"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

type QuoteRepo = quotes.QuoteRepo
type QuoteVersionRepo = quotes.QuoteVersionRepo
type QuoteNoteRepo = quotes.QuoteNoteRepo

type TenantRepo = config.TenantRepo
type TenantSettingsRepo = config.TenantSettingsRepo
type PlatformConfigRepo = config.PlatformConfigRepo
type IndustryPackRepo = config.IndustryPackRepo

func NewQuoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteRepo {
	return quotes.NewQuoteRepo(db, baseLog)
}
func NewQuoteVersionRepo(db *gorm.DB, baseLog *logger.Logger) QuoteVersionRepo {
	return quotes.NewQuoteVersionRepo(db, baseLog)
}
func NewQuoteNoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteNoteRepo {
	return quotes.NewQuoteNoteRepo(db, baseLog)
}

func NewTenantRepo(db *gorm.DB, baseLog *logger.Logger) TenantRepo {
	return config.NewTenantRepo(db, baseLog)
}
func NewTenantSettingsRepo(db *gorm.DB, baseLog *logger.Logger) TenantSettingsRepo {
	return config.NewTenantSettingsRepo(db, baseLog)
}
func NewPlatformConfigRepo(db *gorm.DB, baseLog *logger.Logger) PlatformConfigRepo {
	return config.NewPlatformConfigRepo(db, baseLog)
}
func NewIndustryPackRepo(db *gorm.DB, baseLog *logger.Logger) IndustryPackRepo {
	return config.NewIndustryPackRepo(db, baseLog)
}
