package domain

// Estimation engine selected by the caller.
const (
	EngineFull              = "full"
	EngineDeterministicOnly = "deterministic_only"
)

// Display modes for the published estimate.
const (
	DisplayModeAssessmentOnly = "assessment_only"
	DisplayModeFixed          = "fixed"
	DisplayModeRange          = "range"
)

// Inference credential tiers.
const (
	KeyTierTenant        = "tenant"
	KeyTierPlatformGrace = "platform_grace"
)

// Confidence levels reported by the estimator.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Provenance sources recorded on a quote version.
const (
	SourceTenantUser = "tenant_user"
	SourceAutomation = "automation"
	SourcePlatform   = "platform"
)
