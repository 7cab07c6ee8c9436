package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
)

func SeedTenant(tb testing.TB, ctx context.Context, tx *gorm.DB, industryKey string) *types.Tenant {
	tb.Helper()
	t := &types.Tenant{
		ID:          uuid.New(),
		Name:        "tenant",
		IndustryKey: industryKey,
		Status:      "active",
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed tenant: %v", err)
	}
	return t
}

func SeedPlatformConfig(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.PlatformConfig {
	tb.Helper()
	cfg := &types.PlatformConfig{
		ID:                    uuid.New(),
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
		GraceAPIKey:           "grace-key",
	}
	if err := tx.WithContext(ctx).Create(cfg).Error; err != nil {
		tb.Fatalf("seed platform config: %v", err)
	}
	return cfg
}

func SeedQuote(tb testing.TB, ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) *types.Quote {
	tb.Helper()
	q := &types.Quote{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Category:        "repair",
		ServiceType:     "roofing",
		ImageURLs:       datatypes.JSON([]byte(`[]`)),
		PricingSnapshot: datatypes.JSON([]byte(`{"enabled":true,"mode":"range"}`)),
		Status:          "submitted",
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quote: %v", err)
	}
	return q
}

func SeedNote(tb testing.TB, ctx context.Context, tx *gorm.DB, tenantID, quoteID uuid.UUID, body string, at time.Time) *types.QuoteNote {
	tb.Helper()
	n := &types.QuoteNote{
		ID:         uuid.New(),
		QuoteID:    quoteID,
		TenantID:   tenantID,
		AuthorID:   uuid.New(),
		AuthorName: "tech",
		Body:       body,
		CreatedAt:  at,
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed note: %v", err)
	}
	return n
}

func PtrInt(v int) *int { return &v }
