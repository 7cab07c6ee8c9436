package estimation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/quotedesk/quotedesk-backend/internal/data/repos"
	"github.com/quotedesk/quotedesk-backend/internal/data/repos/quotes"
	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/apierr"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
	"github.com/quotedesk/quotedesk-backend/internal/platform/openai"
)

// AIFactory builds a provider client from a resolved credential and
// effective configuration. Injected so pipeline tests substitute a fake
// without an HTTP round trip.
type AIFactory func(log *logger.Logger, cfg openai.Config) (openai.Client, error)

type Deps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Quotes         repos.QuoteRepo
	Versions       repos.QuoteVersionRepo
	Notes          repos.QuoteNoteRepo
	Tenants        repos.TenantRepo
	TenantSettings repos.TenantSettingsRepo
	PlatformConfig repos.PlatformConfigRepo
	IndustryPacks  repos.IndustryPackRepo

	HTTPClient *http.Client
	NewAI      AIFactory

	// BaseURL overrides the provider endpoint (local gateways, tests).
	ProviderBaseURL string
}

type Input struct {
	TenantID uuid.UUID
	QuoteID  uuid.UUID

	ActorID   uuid.UUID
	ActorName string

	// Engine is full or deterministic_only. Deterministic runs never call
	// the provider and therefore can never fail with InferenceError.
	Engine string

	// NotesLimit caps how many notes are considered; 0 uses the resolved
	// guardrail.
	NotesLimit int

	// ForceKeySource pins the credential tier; empty means prefer tenant,
	// fall back to platform grace.
	ForceKeySource string

	Source string
	Reason string
}

type Output struct {
	VersionID     uuid.UUID     `json:"version_id"`
	VersionNumber int           `json:"version_number"`
	Output        VersionOutput `json:"output"`
}

// Reestimate runs the full re-estimation pipeline for one quote and
// appends the result as a new version. Configuration and credential
// resolution run concurrently; everything downstream is sequential. A
// failure anywhere before the version write leaves the quote's existing
// versions and current output untouched.
func Reestimate(ctx context.Context, deps Deps, in Input) (*Output, error) {
	if err := validateDeps(deps); err != nil {
		return nil, err
	}
	if in.TenantID == uuid.Nil || in.QuoteID == uuid.Nil {
		return nil, apierr.InvalidInput(errors.New("tenant_id and quote_id are required"))
	}
	engine := in.Engine
	if engine == "" {
		engine = types.EngineFull
	}
	if engine != types.EngineFull && engine != types.EngineDeterministicOnly {
		return nil, apierr.InvalidInput(fmt.Errorf("unknown engine %q", engine))
	}

	log := deps.Log.With("module", "estimation", "quote_id", in.QuoteID.String())

	quote, err := deps.Quotes.GetByID(ctx, nil, in.TenantID, in.QuoteID)
	if err != nil {
		if errors.Is(err, quotes.ErrQuoteNotFound) {
			return nil, apierr.QuoteNotFound(err)
		}
		return nil, err
	}

	tenant, err := deps.Tenants.GetByID(ctx, nil, in.TenantID)
	if err != nil {
		return nil, err
	}

	// Config and key resolution have no data dependency on each other.
	var (
		cfg *EffectiveConfig
		key ResolvedKey
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		resolved, err := ResolveConfig(egCtx, ConfigResolverDeps{
			PlatformConfig: deps.PlatformConfig,
			IndustryPacks:  deps.IndustryPacks,
			TenantSettings: deps.TenantSettings,
		}, nil, in.TenantID, tenant.IndustryKey)
		if err != nil {
			return err
		}
		cfg = resolved
		return nil
	})
	if engine == types.EngineFull {
		eg.Go(func() error {
			resolved, err := ResolveKey(egCtx, KeyResolverDeps{
				TenantSettings: deps.TenantSettings,
				PlatformConfig: deps.PlatformConfig,
			}, nil, in.TenantID, in.ForceKeySource)
			if err != nil {
				return err
			}
			key = resolved
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	notesLimit := cfg.Guardrails.NotesLimit
	if in.NotesLimit > 0 {
		notesLimit = in.NotesLimit
	}
	notesCtx, err := BuildNotesContext(ctx, deps.Notes, nil, in.TenantID, in.QuoteID, notesLimit, cfg.Guardrails.NotesCharBudget)
	if err != nil {
		return nil, err
	}

	policy := quote.PricingPolicy()
	prompt := ComposeEstimatorPrompt(cfg, tenant.IndustryKey, policy)
	promptHash := PromptSHA256(prompt)

	imageURLs := quote.ImageURLList()

	var (
		vision VisionContent
		raw    EstimateResult
	)
	keyTier := "none"
	if engine == types.EngineFull {
		vision = BuildVisionContent(ctx, log, deps.HTTPClient, imageURLs, cfg.Guardrails)

		ai, err := deps.NewAI(log, openai.Config{
			APIKey:          key.APIKey,
			BaseURL:         deps.ProviderBaseURL,
			Model:           cfg.EstimatorModel,
			MaxOutputTokens: cfg.Guardrails.MaxOutputTokens,
		})
		if err != nil {
			return nil, apierr.InferenceError(err)
		}

		raw, err = InvokeEstimation(ctx, ai, prompt, vision, CaseMetadata{
			Category:      quote.Category,
			ServiceType:   quote.ServiceType,
			CustomerNotes: quote.CustomerNotes,
			InternalNotes: notesCtx.Text,
		})
		if err != nil {
			return nil, err
		}
		keyTier = key.Tier
	} else {
		raw = DeterministicFallbackResult()
	}

	imageCount := len(imageURLs)
	if capImages := cfg.Guardrails.MaxImages; capImages > 0 && imageCount > capImages {
		imageCount = capImages
	}
	computed := ComputePricing(raw, imageCount, policy)
	shaped := ShapeEstimate(computed, policy)

	output := VersionOutput{
		Confidence:         raw.Confidence,
		InspectionRequired: shaped.InspectionRequired,
		EstimateLow:        shaped.EstimateLow,
		EstimateHigh:       shaped.EstimateHigh,
		ComputedLow:        computed.Low,
		ComputedHigh:       computed.High,
		Basis:              shaped.Basis,
		Currency:           policy.Currency,
		Summary:            raw.Summary,
		VisibleScope:       raw.VisibleScope,
		Assumptions:        raw.Assumptions,
		Questions:          raw.Questions,
	}
	outputJSON, err := json.Marshal(output)
	if err != nil {
		return nil, err
	}

	audit := types.AuditSnapshot{
		PromptSHA256:     promptHash,
		NotesSHA256:      notesCtx.SHA256,
		NoteIDsUsed:      notesCtx.NoteIDsUsed,
		NotesCount:       notesCtx.Count,
		EstimatorModel:   cfg.EstimatorModel,
		QAModel:          cfg.QAModel,
		RenderModel:      cfg.RenderModel,
		Guardrails:       cfg.Guardrails,
		KeyTier:          keyTier,
		Engine:           engine,
		ImagesInlined:    vision.Inlined,
		ImagesLinked:     vision.Linked,
		ConfigProvenance: cfg.Provenance,
	}
	auditJSON, err := json.Marshal(audit)
	if err != nil {
		return nil, err
	}

	version, err := WriteVersion(ctx, VersionWriterDeps{
		DB:       deps.DB,
		Log:      log,
		Quotes:   deps.Quotes,
		Versions: deps.Versions,
	}, VersionWriteInput{
		TenantID:  in.TenantID,
		QuoteID:   in.QuoteID,
		ActorID:   in.ActorID,
		ActorName: in.ActorName,
		Engine:    engine,
		Source:    in.Source,
		Reason:    in.Reason,
		Output:    datatypes.JSON(outputJSON),
		Metadata:  datatypes.JSON(auditJSON),
	})
	if err != nil {
		return nil, err
	}

	log.Info("quote re-estimated",
		"version_number", version.VersionNumber,
		"engine", engine,
		"key_tier", keyTier,
		"basis", shaped.Basis,
	)

	return &Output{
		VersionID:     version.ID,
		VersionNumber: version.VersionNumber,
		Output:        output,
	}, nil
}

func validateDeps(deps Deps) error {
	if deps.DB == nil || deps.Log == nil ||
		deps.Quotes == nil || deps.Versions == nil || deps.Notes == nil ||
		deps.Tenants == nil || deps.TenantSettings == nil ||
		deps.PlatformConfig == nil || deps.IndustryPacks == nil ||
		deps.NewAI == nil {
		return apierr.Internal(errors.New("estimation: missing deps"))
	}
	return nil
}
