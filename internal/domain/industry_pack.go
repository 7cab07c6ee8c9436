package domain

import (
	"time"

	"github.com/google/uuid"
)

// IndustryPack is a versioned per-industry prompt pack managed from the
// platform console. Resolution always picks the latest enabled version
// for an industry key. Zero-valued override fields mean "not overridden".
type IndustryPack struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	IndustryKey string    `gorm:"column:industry_key;not null;uniqueIndex:idx_industry_pack_version,priority:1" json:"industry_key"`
	PackVersion int       `gorm:"column:pack_version;not null;uniqueIndex:idx_industry_pack_version,priority:2" json:"pack_version"`
	Enabled     bool      `gorm:"column:enabled;not null;default:false" json:"enabled"`

	PromptAddendum string `gorm:"column:prompt_addendum;type:text" json:"prompt_addendum"`
	EstimatorModel string `gorm:"column:estimator_model" json:"estimator_model"`
	QAModel        string `gorm:"column:qa_model" json:"qa_model"`
	RenderModel    string `gorm:"column:render_model" json:"render_model"`

	MaxOutputTokens int `gorm:"column:max_output_tokens;not null;default:0" json:"max_output_tokens"`
	NotesCharBudget int `gorm:"column:notes_char_budget;not null;default:0" json:"notes_char_budget"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (IndustryPack) TableName() string { return "industry_pack" }
