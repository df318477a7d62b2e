package invoices

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/rackmarket/rackmarket/app/models"
	"gorm.io/gorm"
)

// Duplicate-key sentinels let the service tell the two unique constraints
// apart: an existing invoice for the booking versus a number collision.
var (
	ErrDuplicateBooking = errors.New("invoice already exists for booking")
	ErrDuplicateNumber  = errors.New("invoice number already taken")
)

// Repository provides DB operations used by the invoice service.
type Repository interface {
	Create(inv *models.Invoice) error
	GetByID(invoiceID string) (*models.Invoice, error)
	GetByNumber(number string) (*models.Invoice, error)
	GetByBooking(bookingID string) (*models.Invoice, error)
	Save(inv *models.Invoice) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates an invoice repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(inv *models.Invoice) error {
	err := r.db.Create(inv).Error
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		return classifyDuplicate(err)
	}
	return err
}

// classifyDuplicate tells the two unique indexes apart by the index name in
// the MySQL 1062 message. Translated errors (gorm.ErrDuplicatedKey) carry no
// index name; those report ErrDuplicateBooking and the service resolves the
// ambiguity by re-fetching per booking.
func classifyDuplicate(err error) error {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && strings.Contains(myErr.Message, "invoice_number") {
		return ErrDuplicateNumber
	}
	return ErrDuplicateBooking
}

func (r *gormRepository) GetByID(invoiceID string) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.Where("invoice_id = ?", invoiceID).First(&inv).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &inv, nil
}

func (r *gormRepository) GetByNumber(number string) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.Where("invoice_number = ?", number).First(&inv).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &inv, nil
}

func (r *gormRepository) GetByBooking(bookingID string) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.Where("booking_id = ?", bookingID).First(&inv).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &inv, nil
}

func (r *gormRepository) Save(inv *models.Invoice) error {
	return r.db.Save(inv).Error
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// isDuplicateKey recognizes MySQL error 1062 (duplicate entry) in both raw
// and GORM-translated form.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}
