package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rackmarket/rackmarket/app/models"
	"github.com/rackmarket/rackmarket/app/repository"
	"github.com/rackmarket/rackmarket/internal/pkg/machines"
	"github.com/rackmarket/rackmarket/internal/pkg/usercontext"
	"github.com/shopspring/decimal"
)

type submitBenchmarkRequest struct {
	GPUThroughputFP16    decimal.NullDecimal `json:"gpu_throughput_fp16"`
	GPUThroughputFP32    decimal.NullDecimal `json:"gpu_throughput_fp32"`
	CPUScore             decimal.NullDecimal `json:"cpu_score"`
	DiskReadMBs          decimal.NullDecimal `json:"disk_read_mb_s"`
	DiskWriteMBs         decimal.NullDecimal `json:"disk_write_mb_s"`
	NetworkBandwidthGbps decimal.NullDecimal `json:"network_bandwidth_gbps"`
	CollectedAt          *time.Time          `json:"collected_at"`
}

type verifyBenchmarkRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// HandleSubmitBenchmark records benchmark numbers for a machine the caller
// owns. They stay pending until an admin verifies them.
func HandleSubmitBenchmark(machineSvc *machines.Service, benchmarks repository.BenchmarkRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hardwareID := c.Params("hardware_id")
		if hardwareID == "" {
			return badRequest(c, "hardware_id missing")
		}
		var req submitBenchmarkRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		user := usercontext.GetUserContext(c)
		owns, err := machineSvc.CustomerOwnsMachine(c.Context(), user.CustomerID, hardwareID)
		if err != nil {
			return internalError(c, "could not check machine ownership")
		}
		if !owns && !user.IsAdmin {
			return forbidden(c, "machine belongs to another customer")
		}

		collectedAt := time.Now().UTC()
		if req.CollectedAt != nil {
			collectedAt = req.CollectedAt.UTC()
		}
		benchmark := &models.Benchmark{
			HardwareID:              hardwareID,
			GPUThroughputFP16:       req.GPUThroughputFP16,
			GPUThroughputFP32:       req.GPUThroughputFP32,
			CPUScore:                req.CPUScore,
			DiskReadMBs:             req.DiskReadMBs,
			DiskWriteMBs:            req.DiskWriteMBs,
			NetworkBandwidthGbps:    req.NetworkBandwidthGbps,
			CollectedAt:             collectedAt,
			AdminVerificationStatus: models.BenchmarkVerificationPending,
		}
		if err := benchmarks.Create(benchmark); err != nil {
			return internalError(c, "could not record benchmark")
		}
		return c.Status(fiber.StatusCreated).JSON(benchmark)
	}
}

// HandleListMachineBenchmarks returns the benchmarks of a machine. Public.
func HandleListMachineBenchmarks(benchmarks repository.BenchmarkRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hardwareID := c.Params("hardware_id")
		if hardwareID == "" {
			return badRequest(c, "hardware_id missing")
		}
		list, err := benchmarks.ListForMachine(hardwareID)
		if err != nil {
			return internalError(c, "could not list benchmarks")
		}
		return c.JSON(fiber.Map{"benchmarks": list})
	}
}

// HandleVerifyBenchmark approves or rejects a pending benchmark. Admin only.
func HandleVerifyBenchmark(benchmarks repository.BenchmarkRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		benchmarkID := c.Params("benchmark_id")
		if benchmarkID == "" {
			return badRequest(c, "benchmark_id missing")
		}
		var req verifyBenchmarkRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		benchmark, err := benchmarks.GetByID(benchmarkID)
		if err != nil {
			return notFound(c, "benchmark not found")
		}
		user := usercontext.GetUserContext(c)
		benchmark.AdminVerificationStatus = req.Status
		benchmark.VerifiedByAdminID = user.CustomerID
		if err := benchmarks.Update(benchmark); err != nil {
			return internalError(c, "could not update benchmark")
		}
		return c.JSON(benchmark)
	}
}
