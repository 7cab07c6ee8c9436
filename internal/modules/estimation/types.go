package estimation

import (
	"github.com/google/uuid"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
)

// Configuration layer names recorded in per-field provenance.
const (
	LayerPlatform = "platform"
	LayerIndustry = "industry_pack"
	LayerTenant   = "tenant"
)

// EffectiveConfig is the fully merged model/prompt/guardrail set used
// for one estimation call. It is resolved fresh on every invocation and
// never cached: each version's audit snapshot must reflect the
// configuration active at that exact moment.
type EffectiveConfig struct {
	EstimatorModel string
	QAModel        string
	RenderModel    string

	EstimatorSystemPrompt string
	IndustryAddendum      string
	RenderStyleNotes      string

	Guardrails types.Guardrails

	// Provenance maps each resolved field to the layer that supplied it.
	Provenance map[string]string
}

// NotesContext is the canonical rendering of a quote's internal notes.
// SHA256 covers the truncated text; it, not the text, is what proves
// two runs consumed identical notes.
type NotesContext struct {
	Text        string
	SHA256      string
	NoteIDsUsed []uuid.UUID
	Count       int
}

// VisionContent is the per-image outcome of the bounded fetch pass.
type VisionContent struct {
	Items   []VisionItem
	Inlined int
	Linked  int
}

// VisionItem is one image, either inlined as a data URL or degraded to
// its original remote URL.
type VisionItem struct {
	SourceURL string
	DataURL   string
	Inline    bool
}

// EstimateResult is the fully validated estimator output. Every field
// has been through the coercion pass; no raw provider values escape it.
type EstimateResult struct {
	Confidence         string   `json:"confidence"`
	InspectionRequired bool     `json:"inspection_required"`
	EstimateLow        float64  `json:"estimate_low"`
	EstimateHigh       float64  `json:"estimate_high"`
	Summary            string   `json:"summary"`
	VisibleScope       []string `json:"visible_scope"`
	Assumptions        []string `json:"assumptions"`
	Questions          []string `json:"questions"`
}

// PricingComputation is the deterministic band derived from the model
// output plus business rules. It is always computed and stored for
// audit, independent of what the tenant displays.
type PricingComputation struct {
	Low                float64 `json:"low"`
	High               float64 `json:"high"`
	InspectionRequired bool    `json:"inspection_required"`
}

// ShapedEstimate is the published estimate after display-mode shaping.
type ShapedEstimate struct {
	EstimateLow        float64 `json:"estimate_low"`
	EstimateHigh       float64 `json:"estimate_high"`
	InspectionRequired bool    `json:"inspection_required"`
	Basis              string  `json:"basis"`
}

// VersionOutput is the structured output persisted on each quote
// version and projected onto the quote's current output.
type VersionOutput struct {
	Confidence         string   `json:"confidence"`
	InspectionRequired bool     `json:"inspection_required"`
	EstimateLow        float64  `json:"estimate_low"`
	EstimateHigh       float64  `json:"estimate_high"`
	ComputedLow        float64  `json:"computed_low"`
	ComputedHigh       float64  `json:"computed_high"`
	Basis              string   `json:"basis"`
	Currency           string   `json:"currency,omitempty"`
	Summary            string   `json:"summary"`
	VisibleScope       []string `json:"visible_scope"`
	Assumptions        []string `json:"assumptions"`
	Questions          []string `json:"questions"`
}

// ResolvedKey is a ready-to-use inference credential. Only the tier is
// ever surfaced downstream; the material itself must not appear in any
// diagnostic path.
type ResolvedKey struct {
	APIKey string
	Tier   string
}
