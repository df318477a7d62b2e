package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a marketplace participant. The same account can own machines
// (provider side) and book listings (buyer side).
type User struct {
	CustomerID       string    `gorm:"primaryKey;type:char(36)" json:"customer_id"`
	Email            string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	OrganizationName string    `gorm:"type:varchar(200);default:null" json:"organization_name,omitempty"`
	Role             string    `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsBillingAccount bool      `gorm:"not null;default:false" json:"is_billing_account"`
	SignupDate       time.Time `gorm:"autoCreateTime" json:"signup_date"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.CustomerID == "" {
		u.CustomerID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
