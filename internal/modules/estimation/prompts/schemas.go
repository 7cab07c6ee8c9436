package prompts

// Strict JSON schema for the estimator's structured output. Strict mode
// requires additionalProperties=false and every property listed in
// required; optionality is expressed as empty values and enforced in
// the coercion pass, not here.

func StringArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func EnumSchema(values ...string) map[string]any {
	return map[string]any{
		"type": "string",
		"enum": values,
	}
}

func EstimateResultSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"confidence":          EnumSchema("high", "medium", "low"),
			"inspection_required": map[string]any{"type": "boolean"},
			"estimate_low":        map[string]any{"type": "number"},
			"estimate_high":       map[string]any{"type": "number"},
			"summary":             map[string]any{"type": "string"},
			"visible_scope":       StringArraySchema(),
			"assumptions":         StringArraySchema(),
			"questions":           StringArraySchema(),
		},
		"required": []string{
			"confidence",
			"inspection_required",
			"estimate_low",
			"estimate_high",
			"summary",
			"visible_scope",
			"assumptions",
			"questions",
		},
		"additionalProperties": false,
	}
}
