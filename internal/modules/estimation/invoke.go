package estimation

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/quotedesk/quotedesk-backend/internal/modules/estimation/prompts"
	"github.com/quotedesk/quotedesk-backend/internal/platform/apierr"
	"github.com/quotedesk/quotedesk-backend/internal/platform/openai"
)

// CaseMetadata is the textual case description sent alongside the
// images.
type CaseMetadata struct {
	Category      string
	ServiceType   string
	CustomerNotes string
	InternalNotes string
}

// InvokeEstimation issues the multimodal structured-output call and
// runs the full coercion pass over the response. Transport and auth
// failures surface as InferenceError; the provider is never retried
// here.
func InvokeEstimation(ctx context.Context, ai openai.Client, systemPrompt string, vision VisionContent, meta CaseMetadata) (EstimateResult, error) {
	content := make([]openai.ContentItem, 0, 1+len(vision.Items))
	content = append(content, openai.TextItem(renderCaseText(meta)))
	for _, item := range vision.Items {
		if item.Inline {
			content = append(content, openai.ImageItem(item.DataURL))
		} else {
			content = append(content, openai.ImageItem(item.SourceURL))
		}
	}

	obj, err := ai.GenerateJSON(ctx, systemPrompt, content, string(prompts.PromptEstimateQuote), prompts.EstimateResultSchema())
	if err != nil {
		return EstimateResult{}, apierr.InferenceError(err)
	}
	return CoerceEstimateResult(obj), nil
}

// DeterministicFallbackResult is the fixed placeholder the
// deterministic-only engine substitutes for a model call. It is
// deliberately labeled so nobody mistakes it for an inference result.
func DeterministicFallbackResult() EstimateResult {
	return EstimateResult{
		Confidence:         "low",
		InspectionRequired: true,
		EstimateLow:        0,
		EstimateHigh:       0,
		Summary:            "Deterministic assessment only; no model estimate was produced.",
		VisibleScope:       []string{},
		Assumptions:        []string{},
		Questions:          []string{},
	}
}

func renderCaseText(meta CaseMetadata) string {
	var b strings.Builder
	b.WriteString("Category: ")
	b.WriteString(strings.TrimSpace(meta.Category))
	b.WriteString("\nService type: ")
	b.WriteString(strings.TrimSpace(meta.ServiceType))
	if notes := strings.TrimSpace(meta.CustomerNotes); notes != "" {
		b.WriteString("\n\nCustomer notes:\n")
		b.WriteString(notes)
	}
	if notes := strings.TrimSpace(meta.InternalNotes); notes != "" {
		b.WriteString("\n\nInternal notes:\n")
		b.WriteString(notes)
	}
	return b.String()
}

// CoerceEstimateResult converts the provider's decoded JSON into a
// fully typed result. Schema enforcement upstream is advisory only, so
// every field is coerced defensively: non-numeric and NaN estimates
// become 0, a reversed band is reordered, unknown confidence clamps to
// low, non-array lists become empty lists.
func CoerceEstimateResult(obj map[string]any) EstimateResult {
	out := EstimateResult{
		Confidence:         coerceConfidence(obj["confidence"]),
		InspectionRequired: asBool(obj["inspection_required"]),
		EstimateLow:        asNumber(obj["estimate_low"]),
		EstimateHigh:       asNumber(obj["estimate_high"]),
		Summary:            strings.TrimSpace(asString(obj["summary"])),
		VisibleScope:       asStringSlice(obj["visible_scope"]),
		Assumptions:        asStringSlice(obj["assumptions"]),
		Questions:          asStringSlice(obj["questions"]),
	}
	if out.EstimateLow < 0 {
		out.EstimateLow = 0
	}
	if out.EstimateHigh < 0 {
		out.EstimateHigh = 0
	}
	if out.EstimateLow > out.EstimateHigh {
		out.EstimateLow, out.EstimateHigh = out.EstimateHigh, out.EstimateLow
	}
	return out
}

func coerceConfidence(v any) string {
	switch strings.ToLower(strings.TrimSpace(asString(v))) {
	case "high":
		return "high"
	case "medium":
		return "medium"
	default:
		return "low"
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return ""
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	default:
		return false
	}
}

func asNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func asStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s := strings.TrimSpace(asString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
