package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuoteNote is a tenant-authored annotation on a quote, optionally tied
// to one version. The estimation core only ever reads notes.
type QuoteNote struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuoteID       uuid.UUID `gorm:"type:uuid;not null;index" json:"quote_id"`
	Quote         *Quote    `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuoteID;references:ID" json:"quote,omitempty"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	VersionNumber *int      `gorm:"column:version_number" json:"version_number,omitempty"`
	AuthorID      uuid.UUID `gorm:"type:uuid;column:author_id" json:"author_id"`
	AuthorName    string    `gorm:"column:author_name" json:"author_name"`
	Body          string    `gorm:"column:body;not null" json:"body"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (QuoteNote) TableName() string { return "quote_note" }
