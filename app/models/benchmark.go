package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BenchmarkVerificationPending  = "pending"
	BenchmarkVerificationApproved = "approved"
	BenchmarkVerificationRejected = "rejected"
)

// Benchmark holds measured performance numbers for a machine. Values are
// provider-reported until an admin verifies them.
type Benchmark struct {
	BenchmarkID             string              `gorm:"primaryKey;type:char(36)" json:"benchmark_id"`
	HardwareID              string              `gorm:"type:char(36);not null;index" json:"hardware_id"`
	GPUThroughputFP16       decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"gpu_throughput_fp16"`
	GPUThroughputFP32       decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"gpu_throughput_fp32"`
	CPUScore                decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"cpu_score"`
	DiskReadMBs             decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"disk_read_mb_s"`
	DiskWriteMBs            decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"disk_write_mb_s"`
	NetworkBandwidthGbps    decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"network_bandwidth_gbps"`
	CollectedAt             time.Time           `gorm:"not null" json:"collected_at"`
	AdminVerificationStatus string              `gorm:"type:varchar(20);not null;default:'pending'" json:"admin_verification_status"`
	VerifiedByAdminID       string              `gorm:"type:char(36);default:null" json:"verified_by_admin_id,omitempty"`
	CreatedAt               time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (b *Benchmark) BeforeCreate(tx *gorm.DB) error {
	if b.BenchmarkID == "" {
		b.BenchmarkID = uuid.New().String()
	}
	if b.AdminVerificationStatus == "" {
		b.AdminVerificationStatus = BenchmarkVerificationPending
	}
	return nil
}
