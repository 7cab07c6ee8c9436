package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TenantSettings is the highest-precedence configuration layer plus the
// tenant's live pricing configuration. The live pricing fields are what
// get snapshotted onto a quote at submission; the estimation core never
// reads them directly.
type TenantSettings struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"tenant_id"`
	Tenant   *Tenant   `gorm:"constraint:OnDelete:CASCADE;foreignKey:TenantID;references:ID" json:"tenant,omitempty"`

	EstimatorModel          string `gorm:"column:estimator_model" json:"estimator_model"`
	EstimatorPromptOverride string `gorm:"column:estimator_prompt_override;type:text" json:"estimator_prompt_override"`
	RenderStyleNotes        string `gorm:"column:render_style_notes;type:text" json:"render_style_notes"`

	MaxOutputTokens int `gorm:"column:max_output_tokens;not null;default:0" json:"max_output_tokens"`
	NotesCharBudget int `gorm:"column:notes_char_budget;not null;default:0" json:"notes_char_budget"`

	// APIKey is the tenant-owned inference credential. Never logged.
	APIKey string `gorm:"column:api_key" json:"-"`

	PricingEnabled bool           `gorm:"column:pricing_enabled;not null;default:false" json:"pricing_enabled"`
	DisplayMode    string         `gorm:"column:display_mode;not null;default:'range'" json:"display_mode"`
	PricingRules   datatypes.JSON `gorm:"column:pricing_rules;type:jsonb" json:"pricing_rules"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (TenantSettings) TableName() string { return "tenant_settings" }
