package estimation

import (
	"math"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
)

// ComputePricing derives the deterministic candidate band from the
// model's raw band plus the frozen business rules. It runs regardless
// of display mode: the computed band is always stored for audit, even
// when the tenant never shows a price.
func ComputePricing(raw EstimateResult, imageCount int, policy types.PricingPolicySnapshot) PricingComputation {
	low := raw.EstimateLow
	high := raw.EstimateHigh

	if policy.MarkupPercent > 0 {
		factor := 1 + policy.MarkupPercent/100
		low *= factor
		high *= factor
	}
	if policy.PerImageFee > 0 && imageCount > 0 {
		fee := policy.PerImageFee * float64(imageCount)
		low += fee
		high += fee
	}
	if policy.MinJobValue > 0 {
		if low > 0 && low < policy.MinJobValue {
			low = policy.MinJobValue
		}
		if high > 0 && high < policy.MinJobValue {
			high = policy.MinJobValue
		}
	}
	if policy.RoundTo > 0 {
		low = roundTo(low, policy.RoundTo)
		high = roundTo(high, policy.RoundTo)
	}
	if low > high {
		low, high = high, low
	}

	inspection := raw.InspectionRequired || raw.Confidence == types.ConfidenceLow
	if policy.InspectionSpreadRatio > 0 && low > 0 && high/low > policy.InspectionSpreadRatio {
		inspection = true
	}

	return PricingComputation{Low: low, High: high, InspectionRequired: inspection}
}

// ShapeEstimate applies the tenant's display mode to the computed band.
// A disabled pricing feature behaves as assessment_only regardless of
// the configured mode.
func ShapeEstimate(comp PricingComputation, policy types.PricingPolicySnapshot) ShapedEstimate {
	mode := policy.Mode
	if !policy.Enabled {
		mode = types.DisplayModeAssessmentOnly
	}

	switch mode {
	case types.DisplayModeAssessmentOnly:
		return ShapedEstimate{
			EstimateLow:        0,
			EstimateHigh:       0,
			InspectionRequired: comp.InspectionRequired,
			Basis:              types.DisplayModeAssessmentOnly,
		}
	case types.DisplayModeFixed:
		return ShapedEstimate{
			EstimateLow:        comp.Low,
			EstimateHigh:       comp.Low,
			InspectionRequired: comp.InspectionRequired,
			Basis:              types.DisplayModeFixed,
		}
	default:
		return ShapedEstimate{
			EstimateLow:        comp.Low,
			EstimateHigh:       comp.High,
			InspectionRequired: comp.InspectionRequired,
			Basis:              types.DisplayModeRange,
		}
	}
}

func roundTo(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
