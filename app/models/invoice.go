package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	InvoiceStatusDraft  = "draft"
	InvoiceStatusIssued = "issued"
	InvoiceStatusPaid   = "paid"
	InvoiceStatusVoid   = "void"
)

// Invoice bills a booking. At most one invoice exists per booking; the
// unique index on booking_id is the hard guarantee, creation code treats a
// duplicate-key violation as "already created".
type Invoice struct {
	InvoiceID     string          `gorm:"primaryKey;type:char(36)" json:"invoice_id"`
	BookingID     string          `gorm:"type:char(36);not null;uniqueIndex" json:"booking_id"`
	PayerID       string          `gorm:"type:char(36);not null;index" json:"payer_id"`
	ProviderID    string          `gorm:"type:char(36);not null;index" json:"provider_id"`
	AmountTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_total"`
	Currency      string          `gorm:"type:char(3);not null;default:'EUR'" json:"currency"`
	Status        string          `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	InvoiceNumber string          `gorm:"type:varchar(40);not null;uniqueIndex" json:"invoice_number"`
	IssuedAt      *time.Time      `gorm:"type:timestamp;default:null" json:"issued_at,omitempty"`
	PaidAt        *time.Time      `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.InvoiceID == "" {
		i.InvoiceID = uuid.New().String()
	}
	return nil
}
