package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ListingStatusActive   = "active"
	ListingStatusPaused   = "paused"
	ListingStatusArchived = "archived"
)

// Listing is a rentable offer for a machine with per-hour/day/week rates.
// Rates are nullable: a listing may only define a subset of tiers.
type Listing struct {
	ListingID  string              `gorm:"primaryKey;type:char(36)" json:"listing_id"`
	HardwareID string              `gorm:"type:char(36);not null;index" json:"hardware_id"`
	PriceHour  decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"price_hour"`
	PriceDay   decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"price_day"`
	PriceWeek  decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"price_week"`
	Currency   string              `gorm:"type:char(3);not null;default:'EUR'" json:"currency"`
	Status     string              `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt  time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	Machine *Machine `gorm:"foreignKey:HardwareID;references:HardwareID" json:"machine,omitempty"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == "" {
		l.ListingID = uuid.New().String()
	}
	if l.Status == "" {
		l.Status = ListingStatusActive
	}
	return nil
}
