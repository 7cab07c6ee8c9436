package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quote is one customer-submitted request. Its pricing policy is frozen
// at submission time so re-estimating an old quote reproduces the
// business rules that were active when the customer submitted it.
type Quote struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Tenant        *Tenant        `gorm:"constraint:OnDelete:CASCADE;foreignKey:TenantID;references:ID" json:"tenant,omitempty"`
	CustomerName  string         `gorm:"column:customer_name" json:"customer_name"`
	CustomerEmail string         `gorm:"column:customer_email" json:"customer_email"`
	Category      string         `gorm:"column:category" json:"category"`
	ServiceType   string         `gorm:"column:service_type" json:"service_type"`
	CustomerNotes string         `gorm:"column:customer_notes" json:"customer_notes"`
	ImageURLs     datatypes.JSON `gorm:"column:image_urls;type:jsonb" json:"image_urls"`

	// PricingSnapshot holds a PricingPolicySnapshot captured at submission.
	PricingSnapshot datatypes.JSON `gorm:"column:pricing_snapshot;type:jsonb" json:"pricing_snapshot"`

	// CurrentOutput mirrors the latest committed version's output. It is a
	// projection: the versions table is the source of truth and history.
	CurrentOutput        datatypes.JSON `gorm:"column:current_output;type:jsonb" json:"current_output"`
	CurrentVersionNumber int            `gorm:"column:current_version_number;not null;default:0" json:"current_version_number"`

	Status    string         `gorm:"column:status;not null;default:'submitted'" json:"status"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Quote) TableName() string { return "quote" }

// PricingPolicySnapshot is the frozen copy of the tenant's pricing
// configuration carried inside the quote's input payload.
type PricingPolicySnapshot struct {
	Enabled               bool    `json:"enabled"`
	Mode                  string  `json:"mode"`
	Currency              string  `json:"currency"`
	MinJobValue           float64 `json:"min_job_value"`
	MarkupPercent         float64 `json:"markup_percent"`
	PerImageFee           float64 `json:"per_image_fee"`
	RoundTo               float64 `json:"round_to"`
	InspectionSpreadRatio float64 `json:"inspection_spread_ratio"`
}

// ImageURLList decodes the stored image URL array. A missing or
// malformed column yields an empty list.
func (q *Quote) ImageURLList() []string {
	if len(q.ImageURLs) == 0 {
		return nil
	}
	var urls []string
	if err := json.Unmarshal(q.ImageURLs, &urls); err != nil {
		return nil
	}
	return urls
}

// PricingPolicy decodes the frozen pricing snapshot. A quote submitted
// before pricing was configured decodes to the zero value, which the
// shaper treats as pricing disabled.
func (q *Quote) PricingPolicy() PricingPolicySnapshot {
	var p PricingPolicySnapshot
	if len(q.PricingSnapshot) == 0 {
		return p
	}
	_ = json.Unmarshal(q.PricingSnapshot, &p)
	return p
}
