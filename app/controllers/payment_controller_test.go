package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rackmarket/rackmarket/internal/pkg/billing"
	"github.com/rackmarket/rackmarket/internal/pkg/payments"
	"github.com/rackmarket/rackmarket/internal/pkg/usercontext"
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

func newCheckoutApp(bill *billing.Service, user usercontext.UserContext) *fiber.App {
	app := fiber.New()
	app.Post("/payments/checkout", func(c *fiber.Ctx) error {
		c.Locals(usercontext.ContextKey, user)
		return c.Next()
	}, HandleCreateCheckout(bill))
	return app
}

func TestHandleCreateCheckoutResponseShape(t *testing.T) {
	db, mock := newMockGorm(t)
	bill := billing.NewService(db, payments.NewMockProcessor())

	bookingID := uuid.NewString()
	mock.ExpectQuery("SELECT (.+) FROM `bookings` WHERE booking_id").
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "listing_id", "hardware_id", "buyer_id"}).
			AddRow(bookingID, "listing-1", "hw-1", "buyer-1"))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `payments`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	app := newCheckoutApp(bill, usercontext.UserContext{CustomerID: "buyer-1", IsLoggedIn: true})
	body, err := json.Marshal(fiber.Map{
		"booking_id": bookingID,
		"amount":     "25.00",
		"currency":   "EUR",
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/payments/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotEmpty(t, got["checkout_url"], "redirect link must be exposed as checkout_url")
	assert.NotEmpty(t, got["session_id"])
	assert.Equal(t, bookingID, got["booking_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCreateCheckoutForeignBooking(t *testing.T) {
	db, mock := newMockGorm(t)
	bill := billing.NewService(db, payments.NewMockProcessor())

	bookingID := uuid.NewString()
	mock.ExpectQuery("SELECT (.+) FROM `bookings` WHERE booking_id").
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "listing_id", "hardware_id", "buyer_id"}).
			AddRow(bookingID, "listing-1", "hw-1", "buyer-1"))

	app := newCheckoutApp(bill, usercontext.UserContext{CustomerID: "someone-else", IsLoggedIn: true})
	body, err := json.Marshal(fiber.Map{
		"booking_id": bookingID,
		"amount":     "25.00",
		"currency":   "EUR",
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/payments/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
