package estimation

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
)

// ComposeEstimatorPrompt concatenates the system-prompt fragments in a
// fixed precedence order. It is a pure function: identical inputs yield
// byte-identical output, because the prompt's SHA-256 is the audit
// anchor for every version.
//
// Fragment order: resolved base estimator prompt, industry addendum,
// tenant render/style notes, pricing-mode instruction block.
func ComposeEstimatorPrompt(cfg *EffectiveConfig, industryKey string, policy types.PricingPolicySnapshot) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(cfg.EstimatorSystemPrompt))

	if addendum := strings.TrimSpace(cfg.IndustryAddendum); addendum != "" {
		b.WriteString("\n\n## Industry guidance (")
		b.WriteString(industryKey)
		b.WriteString(")\n")
		b.WriteString(addendum)
	}

	if style := strings.TrimSpace(cfg.RenderStyleNotes); style != "" {
		b.WriteString("\n\n## Tenant style notes\n")
		b.WriteString(style)
	}

	b.WriteString("\n\n## Pricing instructions\n")
	b.WriteString(pricingInstruction(policy))

	return b.String()
}

func pricingInstruction(policy types.PricingPolicySnapshot) string {
	if !policy.Enabled {
		return "Do not state any price. Describe the work, its visible scope, and your assessment only."
	}
	switch policy.Mode {
	case types.DisplayModeFixed:
		return "Provide a single fixed price for the work. Do not present a range to the customer."
	case types.DisplayModeAssessmentOnly:
		return "Do not state any price. Describe the work, its visible scope, and your assessment only."
	default:
		return "Provide a realistic low and high price range for the work."
	}
}

// PromptSHA256 returns the hex SHA-256 of a composed prompt.
func PromptSHA256(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
