package payments

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rackmarket/rackmarket/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestMarkPaidByCorrelationSettlesBothRows(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `payments` WHERE correlation_ref").
		WithArgs("cs_123").
		WillReturnRows(sqlmock.NewRows([]string{"payment_id", "booking_id", "status", "amount_total", "currency", "correlation_ref"}).
			AddRow("pay-1", "booking-1", models.PaymentStatusIncomplete, "25.00", "EUR", "cs_123"))
	mock.ExpectExec("UPDATE `payments` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM `invoices` WHERE booking_id").
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows([]string{"invoice_id", "booking_id", "status", "amount_total", "currency", "invoice_number"}).
			AddRow("inv-1", "booking-1", models.InvoiceStatusIssued, "25.00", "EUR", "INV-2026-000000001"))
	mock.ExpectExec("UPDATE `invoices` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, invoice, err := repo.MarkPaidByCorrelation("cs_123", time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	require.NotNil(t, invoice.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidByCorrelationRollsBackWithoutInvoice(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `payments` WHERE correlation_ref").
		WithArgs("cs_123").
		WillReturnRows(sqlmock.NewRows([]string{"payment_id", "booking_id", "status", "amount_total", "currency", "correlation_ref"}).
			AddRow("pay-1", "booking-1", models.PaymentStatusIncomplete, "25.00", "EUR", "cs_123"))
	mock.ExpectExec("UPDATE `payments` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM `invoices` WHERE booking_id").
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows([]string{"invoice_id"}))
	mock.ExpectRollback()

	_, _, err := repo.MarkPaidByCorrelation("cs_123", time.Now())
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidByCorrelationUnknownPayment(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `payments` WHERE correlation_ref").
		WithArgs("cs_missing").
		WillReturnRows(sqlmock.NewRows([]string{"payment_id"}))
	mock.ExpectRollback()

	_, _, err := repo.MarkPaidByCorrelation("cs_missing", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
