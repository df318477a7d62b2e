package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusActive    = "active"
	BookingStatusCompleted = "completed"
	BookingStatusCanceled  = "canceled"
	BookingStatusDisputed  = "disputed"
)

// Booking reserves a machine for a buyer over a time window. Timestamps are
// stored in UTC; normalization happens before persistence.
type Booking struct {
	BookingID      string    `gorm:"primaryKey;type:char(36)" json:"booking_id"`
	ListingID      string    `gorm:"type:char(36);not null;index" json:"listing_id"`
	HardwareID     string    `gorm:"type:char(36);not null;index" json:"hardware_id"`
	BuyerID        string    `gorm:"type:char(36);not null;index" json:"buyer_id"`
	StartTimestamp time.Time `gorm:"not null;index:idx_bookings_start_end,priority:1" json:"start_timestamp"`
	EndTimestamp   time.Time `gorm:"not null;index:idx_bookings_start_end,priority:2" json:"end_timestamp"`
	BookingStatus  string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"booking_status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	Listing *Listing `gorm:"foreignKey:ListingID;references:ListingID" json:"listing,omitempty"`
	Machine *Machine `gorm:"foreignKey:HardwareID;references:HardwareID" json:"machine,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.BookingID == "" {
		b.BookingID = uuid.New().String()
	}
	if b.BookingStatus == "" {
		b.BookingStatus = BookingStatusPending
	}
	return nil
}
