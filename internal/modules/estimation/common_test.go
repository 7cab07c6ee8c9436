package estimation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos/config"
	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

type fakePlatformConfigRepo struct {
	cfg *types.PlatformConfig
	err error
}

func (f *fakePlatformConfigRepo) Get(ctx context.Context, tx *gorm.DB) (*types.PlatformConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.cfg == nil {
		return nil, config.ErrNoPlatformConfig
	}
	return f.cfg, nil
}

func (f *fakePlatformConfigRepo) Upsert(ctx context.Context, tx *gorm.DB, cfg *types.PlatformConfig) (*types.PlatformConfig, error) {
	f.cfg = cfg
	return cfg, nil
}

type fakeIndustryPackRepo struct {
	pack *types.IndustryPack
	err  error
}

func (f *fakeIndustryPackRepo) Create(ctx context.Context, tx *gorm.DB, packs []*types.IndustryPack) ([]*types.IndustryPack, error) {
	return packs, nil
}

func (f *fakeIndustryPackRepo) GetLatestEnabled(ctx context.Context, tx *gorm.DB, industryKey string) (*types.IndustryPack, error) {
	return f.pack, f.err
}

type fakeTenantSettingsRepo struct {
	settings *types.TenantSettings
	err      error
}

func (f *fakeTenantSettingsRepo) Create(ctx context.Context, tx *gorm.DB, settings []*types.TenantSettings) ([]*types.TenantSettings, error) {
	return settings, nil
}

func (f *fakeTenantSettingsRepo) GetByTenantID(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (*types.TenantSettings, error) {
	return f.settings, f.err
}

type fakeNoteRepo struct {
	notes []*types.QuoteNote
	err   error
}

func (f *fakeNoteRepo) Create(ctx context.Context, tx *gorm.DB, notes []*types.QuoteNote) ([]*types.QuoteNote, error) {
	return notes, nil
}

func (f *fakeNoteRepo) GetRecentByQuoteID(ctx context.Context, tx *gorm.DB, tenantID, quoteID uuid.UUID, limit int) ([]*types.QuoteNote, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.notes) > limit {
		return f.notes[:limit], nil
	}
	return f.notes, nil
}

func basePlatformConfig() *types.PlatformConfig {
	return &types.PlatformConfig{
		EstimatorModel:        "gpt-5.2",
		QAModel:               "gpt-5-mini",
		RenderModel:           "gpt-image-1",
		BaseEstimatorPrompt:   "You are an estimator.",
		MaxOutputTokens:       2048,
		MaxImages:             6,
		MaxImageBytes:         8 << 20,
		ImageFetchTimeoutSecs: 12,
		NotesCharBudget:       6000,
		NotesLimit:            50,
	}
}
