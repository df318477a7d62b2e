package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusIncomplete = "incomplete"
	PaymentStatusPaid       = "paid"
	PaymentStatusFailed     = "failed"
)

// Payment records one processor interaction for a booking. A booking can
// accumulate several payments (retries, placeholder + real checkout). The
// correlation ref carries the externally issued token used to find the row
// again during reconciliation: the checkout session id for hosted flows, the
// invoice number for placeholder rows.
type Payment struct {
	PaymentID      string          `gorm:"primaryKey;type:char(36)" json:"payment_id"`
	BookingID      string          `gorm:"type:char(36);not null;index" json:"booking_id"`
	HardwareID     string          `gorm:"type:char(36);not null;index" json:"hardware_id"`
	PayerID        string          `gorm:"type:char(36);not null;index" json:"payer_id"`
	ProviderID     string          `gorm:"type:char(36);default:null" json:"provider_id,omitempty"`
	AmountTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_total"`
	Currency       string          `gorm:"type:char(3);not null;default:'EUR'" json:"currency"`
	Status         string          `gorm:"type:varchar(20);not null;default:'incomplete'" json:"status"`
	CorrelationRef string          `gorm:"type:varchar(191);index" json:"correlation_ref,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == "" {
		p.PaymentID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = PaymentStatusIncomplete
	}
	return nil
}
