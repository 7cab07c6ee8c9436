package estimation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos"
	"github.com/quotedesk/quotedesk-backend/internal/data/repos/config"
	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/apierr"
)

type ConfigResolverDeps struct {
	PlatformConfig repos.PlatformConfigRepo
	IndustryPacks  repos.IndustryPackRepo
	TenantSettings repos.TenantSettingsRepo
}

// configLayer is one partial override in the precedence chain. Zero
// values mean "this layer does not touch the field"; the reducer merges
// field-by-field so a tenant overriding one prompt keeps every other
// platform- or industry-supplied value.
type configLayer struct {
	name string

	estimatorModel string
	qaModel        string
	renderModel    string

	estimatorSystemPrompt string
	industryAddendum      string
	renderStyleNotes      string

	maxOutputTokens int
	notesCharBudget int
}

// ResolveConfig merges platform default, the industry's latest enabled
// prompt pack, and the tenant's overrides, lowest precedence first.
// A missing platform default is fatal misconfiguration, not a
// per-tenant condition.
func ResolveConfig(ctx context.Context, deps ConfigResolverDeps, tx *gorm.DB, tenantID uuid.UUID, industryKey string) (*EffectiveConfig, error) {
	platform, err := deps.PlatformConfig.Get(ctx, tx)
	if err != nil {
		if errors.Is(err, config.ErrNoPlatformConfig) {
			return nil, apierr.ConfigUnavailable(fmt.Errorf("no platform default configuration: %w", err))
		}
		return nil, err
	}

	pack, err := deps.IndustryPacks.GetLatestEnabled(ctx, tx, industryKey)
	if err != nil {
		return nil, err
	}

	settings, err := deps.TenantSettings.GetByTenantID(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}

	layers := []configLayer{platformLayer(platform)}
	if pack != nil {
		layers = append(layers, industryLayer(pack))
	}
	if settings != nil {
		layers = append(layers, tenantLayer(settings))
	}

	cfg := &EffectiveConfig{
		Guardrails: types.Guardrails{
			MaxImages:             platform.MaxImages,
			MaxImageBytes:         platform.MaxImageBytes,
			ImageFetchTimeoutSecs: platform.ImageFetchTimeoutSecs,
			NotesLimit:            platform.NotesLimit,
		},
		Provenance: map[string]string{},
	}

	for _, layer := range layers {
		applyLayer(cfg, layer)
	}
	return cfg, nil
}

func platformLayer(p *types.PlatformConfig) configLayer {
	return configLayer{
		name:                  LayerPlatform,
		estimatorModel:        p.EstimatorModel,
		qaModel:               p.QAModel,
		renderModel:           p.RenderModel,
		estimatorSystemPrompt: p.BaseEstimatorPrompt,
		maxOutputTokens:       p.MaxOutputTokens,
		notesCharBudget:       p.NotesCharBudget,
	}
}

func industryLayer(p *types.IndustryPack) configLayer {
	return configLayer{
		name:             LayerIndustry,
		estimatorModel:   p.EstimatorModel,
		qaModel:          p.QAModel,
		renderModel:      p.RenderModel,
		industryAddendum: p.PromptAddendum,
		maxOutputTokens:  p.MaxOutputTokens,
		notesCharBudget:  p.NotesCharBudget,
	}
}

func tenantLayer(s *types.TenantSettings) configLayer {
	return configLayer{
		name:                  LayerTenant,
		estimatorModel:        s.EstimatorModel,
		estimatorSystemPrompt: s.EstimatorPromptOverride,
		renderStyleNotes:      s.RenderStyleNotes,
		maxOutputTokens:       s.MaxOutputTokens,
		notesCharBudget:       s.NotesCharBudget,
	}
}

func applyLayer(cfg *EffectiveConfig, layer configLayer) {
	setString(&cfg.EstimatorModel, layer.estimatorModel, cfg.Provenance, "estimator_model", layer.name)
	setString(&cfg.QAModel, layer.qaModel, cfg.Provenance, "qa_model", layer.name)
	setString(&cfg.RenderModel, layer.renderModel, cfg.Provenance, "render_model", layer.name)
	setString(&cfg.EstimatorSystemPrompt, layer.estimatorSystemPrompt, cfg.Provenance, "estimator_system_prompt", layer.name)
	setString(&cfg.IndustryAddendum, layer.industryAddendum, cfg.Provenance, "industry_addendum", layer.name)
	setString(&cfg.RenderStyleNotes, layer.renderStyleNotes, cfg.Provenance, "render_style_notes", layer.name)
	setInt(&cfg.Guardrails.MaxOutputTokens, layer.maxOutputTokens, cfg.Provenance, "max_output_tokens", layer.name)
	setInt(&cfg.Guardrails.NotesCharBudget, layer.notesCharBudget, cfg.Provenance, "notes_char_budget", layer.name)
}

func setString(dst *string, val string, prov map[string]string, field, layer string) {
	if val == "" {
		return
	}
	*dst = val
	prov[field] = layer
}

func setInt(dst *int, val int, prov map[string]string, field, layer string) {
	if val == 0 {
		return
	}
	*dst = val
	prov[field] = layer
}
