package payments

import (
	"errors"
	"time"

	"github.com/rackmarket/rackmarket/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound means no payment matched the given key.
	ErrNotFound = errors.New("payment not found")
	// ErrInvoiceNotFound means a payment was matched but the invoice that
	// should settle with it does not exist, so the whole settlement is
	// rolled back.
	ErrInvoiceNotFound = errors.New("invoice for payment not found")
)

// Repository persists payment rows. MarkPaidByCorrelation and
// MarkFailedByCorrelation are the reconciliation entry points; the paid
// transition also settles the booking's invoice in the same database
// transaction so the two ledgers never disagree.
type Repository interface {
	Create(p *models.Payment) error
	GetByCorrelation(ref string) (*models.Payment, error)
	ListForBooking(bookingID string) ([]models.Payment, error)
	MarkPaidByCorrelation(ref string, now time.Time) (*models.Payment, *models.Invoice, error)
	MarkFailedByCorrelation(ref string, now time.Time) (*models.Payment, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *gormRepository) GetByCorrelation(ref string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("correlation_ref = ?", ref).Order("created_at DESC").First(&p).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &p, nil
}

func (r *gormRepository) ListForBooking(bookingID string) ([]models.Payment, error) {
	var out []models.Payment
	err := r.db.Where("booking_id = ?", bookingID).Order("created_at ASC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkPaidByCorrelation marks the payment paid and settles the invoice of
// the payment's booking, atomically. Calling it again for an already paid
// payment is a no-op that reports the current rows.
func (r *gormRepository) MarkPaidByCorrelation(ref string, now time.Time) (*models.Payment, *models.Invoice, error) {
	var payment models.Payment
	var invoice models.Invoice
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("correlation_ref = ?", ref).
			Order("created_at DESC").
			First(&payment).Error
		if err != nil {
			return translateNotFound(err)
		}

		alreadyPaid := payment.Status == models.PaymentStatusPaid
		if !alreadyPaid {
			payment.Status = models.PaymentStatusPaid
			if err := tx.Save(&payment).Error; err != nil {
				return err
			}
		}

		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("booking_id = ?", payment.BookingID).
			First(&invoice).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if invoice.Status == models.InvoiceStatusPaid {
			return nil
		}
		invoice.Status = models.InvoiceStatusPaid
		paidAt := now.UTC()
		invoice.PaidAt = &paidAt
		return tx.Save(&invoice).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &payment, &invoice, nil
}

func (r *gormRepository) MarkFailedByCorrelation(ref string, now time.Time) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("correlation_ref = ?", ref).
			Order("created_at DESC").
			First(&payment).Error
		if err != nil {
			return translateNotFound(err)
		}
		if payment.Status == models.PaymentStatusFailed {
			return nil
		}
		payment.Status = models.PaymentStatusFailed
		payment.UpdatedAt = now.UTC()
		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
