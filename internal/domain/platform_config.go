package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlatformConfig is the singleton lowest-precedence configuration
// layer. Exactly one row is expected; its absence is a fatal
// misconfiguration, not a per-tenant condition.
type PlatformConfig struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	EstimatorModel string `gorm:"column:estimator_model;not null" json:"estimator_model"`
	QAModel        string `gorm:"column:qa_model" json:"qa_model"`
	RenderModel    string `gorm:"column:render_model" json:"render_model"`

	BaseEstimatorPrompt string `gorm:"column:base_estimator_prompt;type:text;not null" json:"base_estimator_prompt"`
	BaseQAPrompt        string `gorm:"column:base_qa_prompt;type:text" json:"base_qa_prompt"`

	MaxOutputTokens       int   `gorm:"column:max_output_tokens;not null;default:2048" json:"max_output_tokens"`
	MaxImages             int   `gorm:"column:max_images;not null;default:6" json:"max_images"`
	MaxImageBytes         int64 `gorm:"column:max_image_bytes;not null;default:8388608" json:"max_image_bytes"`
	ImageFetchTimeoutSecs int   `gorm:"column:image_fetch_timeout_secs;not null;default:12" json:"image_fetch_timeout_secs"`
	NotesCharBudget       int   `gorm:"column:notes_char_budget;not null;default:6000" json:"notes_char_budget"`
	NotesLimit            int   `gorm:"column:notes_limit;not null;default:50" json:"notes_limit"`

	// GraceAPIKey is the platform-owned inference credential a tenant may
	// use before configuring its own. Never logged, never serialized out.
	GraceAPIKey string `gorm:"column:grace_api_key" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PlatformConfig) TableName() string { return "platform_config" }
