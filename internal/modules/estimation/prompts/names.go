package prompts

type PromptName string

const (
	PromptEstimateQuote PromptName = "estimate_quote"
	PromptEstimateQA    PromptName = "estimate_qa"
)
