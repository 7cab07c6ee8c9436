package estimation

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/apierr"
)

func TestResolveConfigPlatformOnly(t *testing.T) {
	deps := ConfigResolverDeps{
		PlatformConfig: &fakePlatformConfigRepo{cfg: basePlatformConfig()},
		IndustryPacks:  &fakeIndustryPackRepo{},
		TenantSettings: &fakeTenantSettingsRepo{},
	}

	cfg, err := ResolveConfig(context.Background(), deps, nil, uuid.New(), "roofing")
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if cfg.EstimatorModel != "gpt-5.2" {
		t.Fatalf("expected platform model, got %q", cfg.EstimatorModel)
	}
	if cfg.Provenance["estimator_model"] != LayerPlatform {
		t.Fatalf("expected platform provenance, got %q", cfg.Provenance["estimator_model"])
	}
	if cfg.Guardrails.MaxOutputTokens != 2048 || cfg.Guardrails.NotesCharBudget != 6000 {
		t.Fatalf("unexpected guardrails: %+v", cfg.Guardrails)
	}
	if cfg.Guardrails.MaxImages != 6 || cfg.Guardrails.ImageFetchTimeoutSecs != 12 {
		t.Fatalf("platform-only guardrails not carried: %+v", cfg.Guardrails)
	}
}

func TestResolveConfigLayerPrecedence(t *testing.T) {
	deps := ConfigResolverDeps{
		PlatformConfig: &fakePlatformConfigRepo{cfg: basePlatformConfig()},
		IndustryPacks: &fakeIndustryPackRepo{pack: &types.IndustryPack{
			IndustryKey:    "roofing",
			PackVersion:    3,
			Enabled:        true,
			PromptAddendum: "Mind the flashing.",
			EstimatorModel: "gpt-5.2-roofing",
		}},
		TenantSettings: &fakeTenantSettingsRepo{settings: &types.TenantSettings{
			EstimatorModel:   "gpt-5.2-tenant",
			RenderStyleNotes: "Short sentences.",
			NotesCharBudget:  1200,
		}},
	}

	cfg, err := ResolveConfig(context.Background(), deps, nil, uuid.New(), "roofing")
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}

	// Tenant wins over industry which wins over platform, field by field.
	if cfg.EstimatorModel != "gpt-5.2-tenant" {
		t.Fatalf("expected tenant model override, got %q", cfg.EstimatorModel)
	}
	if cfg.Provenance["estimator_model"] != LayerTenant {
		t.Fatalf("expected tenant provenance, got %q", cfg.Provenance["estimator_model"])
	}
	if cfg.IndustryAddendum != "Mind the flashing." {
		t.Fatalf("industry addendum lost: %q", cfg.IndustryAddendum)
	}
	if cfg.Provenance["industry_addendum"] != LayerIndustry {
		t.Fatalf("expected industry provenance, got %q", cfg.Provenance["industry_addendum"])
	}
	// A layer that doesn't touch a field leaves the lower layer's value.
	if cfg.QAModel != "gpt-5-mini" || cfg.Provenance["qa_model"] != LayerPlatform {
		t.Fatalf("qa model should come from platform: %q / %q", cfg.QAModel, cfg.Provenance["qa_model"])
	}
	if cfg.Guardrails.NotesCharBudget != 1200 {
		t.Fatalf("expected tenant notes budget, got %d", cfg.Guardrails.NotesCharBudget)
	}
}

func TestResolveConfigMissingPlatformIsFatal(t *testing.T) {
	deps := ConfigResolverDeps{
		PlatformConfig: &fakePlatformConfigRepo{},
		IndustryPacks:  &fakeIndustryPackRepo{},
		TenantSettings: &fakeTenantSettingsRepo{},
	}

	_, err := ResolveConfig(context.Background(), deps, nil, uuid.New(), "roofing")
	if err == nil {
		t.Fatalf("expected error for missing platform config")
	}
	if !apierr.Is(err, apierr.CodeConfigUnavailable) {
		t.Fatalf("expected config_unavailable, got %v", err)
	}
}
