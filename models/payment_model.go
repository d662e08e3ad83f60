package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "Cash"
	PaymentModeCheque PaymentMode = "Cheque"
	PaymentModeOnline PaymentMode = "Online"
)

var PaymentModes = []PaymentMode{PaymentModeCash, PaymentModeCheque, PaymentModeOnline}

type PaymentTerm string

const (
	Term1 PaymentTerm = "Term 1"
	Term2 PaymentTerm = "Term 2"
	Term3 PaymentTerm = "Term 3"
	Term4 PaymentTerm = "Term 4"
)

var PaymentTerms = []PaymentTerm{Term1, Term2, Term3, Term4}

var termMonths = map[PaymentTerm]string{
	Term1: "Months 1-3",
	Term2: "Months 4-6",
	Term3: "Months 7-9",
	Term4: "Months 10-12",
}

// Display labels a term with the months it covers, e.g. "Term 1 (Months 1-3)".
// Unknown terms are returned unchanged.
func (t PaymentTerm) Display() string {
	months, ok := termMonths[t]
	if !ok {
		return string(t)
	}
	return string(t) + " (" + months + ")"
}

const TermsPerYear = 4

type PaymentStatus string

// PaymentOverdue is part of the stored vocabulary but nothing assigns it yet.
const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPartial PaymentStatus = "Partial"
	PaymentOverdue PaymentStatus = "Overdue"
)

func ValidPaymentMode(m PaymentMode) bool {
	for _, v := range PaymentModes {
		if v == m {
			return true
		}
	}
	return false
}

func ValidPaymentTerm(t PaymentTerm) bool {
	for _, v := range PaymentTerms {
		if v == t {
			return true
		}
	}
	return false
}

type Payment struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"student"`
	Student       Student       `gorm:"foreignKey:StudentID" json:"-"`
	PaymentMode   PaymentMode   `gorm:"size:10;not null" json:"payment_mode"`
	PaymentTerm   PaymentTerm   `gorm:"size:10;not null" json:"payment_term"`
	PaymentStatus PaymentStatus `gorm:"size:10;not null;default:'Pending'" json:"payment_status"`
	AmountPaid    Money         `gorm:"type:numeric(10,2);not null" json:"amount_paid"`
	AmountDue     Money         `gorm:"type:numeric(10,2);not null" json:"amount_due"`

	TransactionDate time.Time  `gorm:"type:date;not null;index" json:"transaction_date"`
	DueDate         *time.Time `gorm:"type:date" json:"due_date"`
	TransactionID   *string    `gorm:"size:100" json:"transaction_id"`
	Notes           *string    `gorm:"type:text" json:"notes"`

	ReceiptNumber string  `gorm:"size:16;not null;unique" json:"receipt_number"`
	ReceiptURL    *string `gorm:"size:255" json:"receipt_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeriveStatus classifies a payment from what was paid against what was due.
func DeriveStatus(paid, due decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(due):
		return PaymentPaid
	case paid.IsPositive():
		return PaymentPartial
	}
	return PaymentPending
}

// Derive fills AmountDue from fee when it is unset (zero) and recomputes
// PaymentStatus. A nil fee means no schedule row exists for the student.
func (p *Payment) Derive(fee *FeeStructure) {
	if p.AmountDue.IsZero() {
		p.AmountDue = NewMoney(decimal.Zero)
		if fee != nil {
			p.AmountDue = NewMoney(QuarterlyDue(fee.FeeAmount.Decimal))
		}
	}
	p.PaymentStatus = DeriveStatus(p.AmountPaid.Decimal, p.AmountDue.Decimal)
}

// BeforeSave runs on every create and save, inside the caller's transaction.
func (p *Payment) BeforeSave(tx *gorm.DB) error {
	if p.TransactionDate.IsZero() {
		p.TransactionDate = Today()
	}

	var fee *FeeStructure
	if p.AmountDue.IsZero() {
		db := tx.Session(&gorm.Session{NewDB: true})

		var student Student
		if err := db.Select("id", "grade", "board").First(&student, "id = ?", p.StudentID).Error; err != nil {
			return errors.Wrap(err, "loading student for payment")
		}

		var fs FeeStructure
		err := db.Where("grade = ? AND board = ?", student.Grade, student.Board).First(&fs).Error
		switch {
		case err == nil:
			fee = &fs
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return errors.Wrap(err, "looking up fee structure")
		}
	}

	p.Derive(fee)
	return nil
}

// Today returns the current date at midnight UTC.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
