package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuoteVersion is an append-only record of one estimation result.
// Version numbers form a gapless sequence starting at 1 per quote; the
// composite unique index is what makes concurrent writers safe.
type QuoteVersion struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuoteID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quote_version_number,priority:1" json:"quote_id"`
	Quote         *Quote    `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuoteID;references:ID" json:"quote,omitempty"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	VersionNumber int       `gorm:"column:version_number;not null;uniqueIndex:idx_quote_version_number,priority:2" json:"version_number"`

	Output datatypes.JSON `gorm:"column:output;type:jsonb;not null" json:"output"`

	// Provenance: who/what triggered this version and through which engine.
	CreatedByID   uuid.UUID `gorm:"type:uuid;column:created_by_id" json:"created_by_id"`
	CreatedByName string    `gorm:"column:created_by_name" json:"created_by_name"`
	Engine        string    `gorm:"column:engine;not null" json:"engine"`
	Source        string    `gorm:"column:source" json:"source"`
	Reason        string    `gorm:"column:reason" json:"reason"`

	// Metadata carries the audit snapshot (input hashes, models, guardrails).
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (QuoteVersion) TableName() string { return "quote_version" }

// AuditSnapshot is stored in QuoteVersion.Metadata. Two versions with
// identical hashes provably ran identical inputs; a differing hash
// explains why an estimate changed.
type AuditSnapshot struct {
	PromptSHA256   string      `json:"prompt_sha256"`
	NotesSHA256    string      `json:"notes_sha256"`
	NoteIDsUsed    []uuid.UUID `json:"note_ids_used"`
	NotesCount     int         `json:"notes_count"`
	EstimatorModel string      `json:"estimator_model"`
	QAModel        string      `json:"qa_model"`
	RenderModel    string      `json:"render_model"`
	Guardrails     Guardrails  `json:"guardrails"`
	KeyTier        string      `json:"key_tier"`
	Engine         string      `json:"engine"`
	ImagesInlined  int         `json:"images_inlined"`
	ImagesLinked   int         `json:"images_linked"`

	// ConfigProvenance records which layer supplied each resolved field.
	ConfigProvenance map[string]string `json:"config_provenance,omitempty"`
}

// Guardrails are the numeric limits in effect for one estimation call.
type Guardrails struct {
	MaxOutputTokens       int   `json:"max_output_tokens"`
	MaxImages             int   `json:"max_images"`
	MaxImageBytes         int64 `json:"max_image_bytes"`
	ImageFetchTimeoutSecs int   `json:"image_fetch_timeout_secs"`
	NotesCharBudget       int   `json:"notes_char_budget"`
	NotesLimit            int   `json:"notes_limit"`
}
