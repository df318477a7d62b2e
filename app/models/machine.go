package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AgentStatusOnline  = "online"
	AgentStatusOffline = "offline"
)

// Machine is a physical or virtual compute unit a provider rents out.
type Machine struct {
	HardwareID          string    `gorm:"primaryKey;type:char(36)" json:"hardware_id"`
	CustomerID          string    `gorm:"type:char(36);not null;index" json:"customer_id"`
	GPUModel            string    `gorm:"type:varchar(150);default:null" json:"gpu_model,omitempty"`
	CPUModel            string    `gorm:"type:varchar(150);default:null" json:"cpu_model,omitempty"`
	RAMGB               int       `gorm:"not null" json:"ram_gb"`
	DiskType            string    `gorm:"type:varchar(50);default:null" json:"disk_type,omitempty"`
	DiskSizeGB          int       `gorm:"default:null" json:"disk_size_gb,omitempty"`
	NetworkBandwidth    string    `gorm:"type:varchar(100);default:null" json:"network_bandwidth,omitempty"`
	OS                  string    `gorm:"column:os;type:varchar(100);default:null" json:"os,omitempty"`
	ProviderAgentStatus string    `gorm:"type:varchar(20);not null;default:'offline'" json:"provider_agent_status"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Owner *User `gorm:"foreignKey:CustomerID;references:CustomerID" json:"owner,omitempty"`
}

func (m *Machine) BeforeCreate(tx *gorm.DB) error {
	if m.HardwareID == "" {
		m.HardwareID = uuid.New().String()
	}
	if m.ProviderAgentStatus == "" {
		m.ProviderAgentStatus = AgentStatusOffline
	}
	return nil
}
