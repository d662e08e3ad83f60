package services

import (
	"context"
	"time"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/anjiri1684/tuition_admin/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewPaymentService(db *gorm.DB, log zerolog.Logger) *PaymentService {
	return &PaymentService{db: db, log: log}
}

// PaymentView is a payment with the owning student's name and grade.
type PaymentView struct {
	models.Payment
	StudentName          string `json:"student_name"`
	StudentGrade         string `json:"student_grade"`
	PaymentModeDisplay   string `json:"payment_mode_display"`
	PaymentTermDisplay   string `json:"payment_term_display"`
	PaymentStatusDisplay string `json:"payment_status_display"`
}

func newPaymentView(p models.Payment) PaymentView {
	return PaymentView{
		Payment:              p,
		StudentName:          p.Student.FullName(),
		StudentGrade:         p.Student.Grade,
		PaymentModeDisplay:   string(p.PaymentMode),
		PaymentTermDisplay:   p.PaymentTerm.Display(),
		PaymentStatusDisplay: string(p.PaymentStatus),
	}
}

// PaymentInput carries a create or update request. AmountDue nil or zero
// means "derive it from the fee schedule".
type PaymentInput struct {
	StudentID     uuid.UUID
	PaymentMode   models.PaymentMode
	PaymentTerm   models.PaymentTerm
	AmountPaid    *decimal.Decimal
	AmountDue     *decimal.Decimal
	DueDate       *time.Time
	TransactionID *string
	Notes         *string
}

func (in PaymentInput) validate() error {
	var fields []FieldError
	switch {
	case in.AmountPaid == nil:
		fields = append(fields, FieldError{Field: "amount_paid", Error: "amount_paid is a required field"})
	case in.AmountPaid.IsNegative():
		fields = append(fields, FieldError{Field: "amount_paid", Error: "amount_paid must be 0 or greater"})
	}
	if in.AmountDue != nil && in.AmountDue.IsNegative() {
		fields = append(fields, FieldError{Field: "amount_due", Error: "amount_due must be 0 or greater"})
	}
	if len(fields) > 0 {
		return NewValidationError("Invalid payment", fields...)
	}
	return nil
}

// PaymentSummary is returned alongside a newly recorded payment.
type PaymentSummary struct {
	StudentName    string             `json:"student_name"`
	TotalFee       models.Money       `json:"total_fee"`
	TotalPaid      models.Money       `json:"total_paid"`
	BalanceDue     models.Money       `json:"balance_due"`
	TermFee        models.Money       `json:"term_fee"`
	CurrentTerm    models.PaymentTerm `json:"current_term"`
	AmountJustPaid models.Money       `json:"amount_just_paid"`
}

func (s *PaymentService) List(ctx context.Context) ([]PaymentView, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).Preload("Student").
		Order("transaction_date desc, created_at desc").
		Find(&payments).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing payments")
	}

	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, newPaymentView(p))
	}
	return views, nil
}

func (s *PaymentService) find(db *gorm.DB, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := db.Preload("Student").First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading payment")
	}
	return &payment, nil
}

func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*PaymentView, error) {
	payment, err := s.find(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	view := newPaymentView(*payment)
	return &view, nil
}

// Record stores a new payment. Amount due and status are derived inside the
// same transaction as the insert.
func (s *PaymentService) Record(ctx context.Context, in PaymentInput) (*PaymentView, *PaymentSummary, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	var payment models.Payment
	var summary *PaymentSummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		student, err := studentForPayment(tx, in.StudentID)
		if err != nil {
			return err
		}

		receipt, err := utils.GenerateUniqueReceiptNumber(tx)
		if err != nil {
			return err
		}

		payment = models.Payment{
			StudentID:     student.ID,
			PaymentMode:   in.PaymentMode,
			PaymentTerm:   in.PaymentTerm,
			AmountPaid:    models.NewMoney(*in.AmountPaid),
			DueDate:       in.DueDate,
			TransactionID: in.TransactionID,
			Notes:         in.Notes,
			ReceiptNumber: receipt,
		}
		if in.AmountDue != nil {
			payment.AmountDue = models.NewMoney(*in.AmountDue)
		}
		if err := tx.Omit("Student").Create(&payment).Error; err != nil {
			return errors.Wrap(err, "creating payment")
		}
		payment.Student = *student

		summary, err = summarize(tx, student, &payment)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("student_id", payment.StudentID.String()).
		Str("amount_paid", payment.AmountPaid.String()).
		Str("status", string(payment.PaymentStatus)).
		Msg("payment recorded")

	view := newPaymentView(payment)
	return &view, summary, nil
}

// Update replaces the editable fields of a payment and derives amount due and
// status again. The transaction date is kept. Omitting amount_due keeps the
// stored value.
func (s *PaymentService) Update(ctx context.Context, id uuid.UUID, in PaymentInput) (*PaymentView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var payment *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		payment, err = s.find(tx, id)
		if err != nil {
			return err
		}

		student, err := studentForPayment(tx, in.StudentID)
		if err != nil {
			return err
		}

		payment.StudentID = student.ID
		payment.PaymentMode = in.PaymentMode
		payment.PaymentTerm = in.PaymentTerm
		payment.AmountPaid = models.NewMoney(*in.AmountPaid)
		if in.AmountDue != nil {
			payment.AmountDue = models.NewMoney(*in.AmountDue)
		}
		payment.DueDate = in.DueDate
		payment.TransactionID = in.TransactionID
		payment.Notes = in.Notes

		if err := tx.Omit("Student").Save(payment).Error; err != nil {
			return errors.Wrap(err, "updating payment")
		}
		payment.Student = *student
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := newPaymentView(*payment)
	return &view, nil
}

func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Payment{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "deleting payment")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// StudentSummary reports the balance of the student who made the payment,
// together with the payment itself.
func (s *PaymentService) StudentSummary(ctx context.Context, id uuid.UUID) (*StudentPaymentSummary, error) {
	db := s.db.WithContext(ctx)
	payment, err := s.find(db, id)
	if err != nil {
		return nil, err
	}

	fee, err := lookupFee(db, payment.Student.Grade, payment.Student.Board)
	if err != nil {
		return nil, err
	}
	totalPaid, err := totalPaidBy(db, payment.StudentID)
	if err != nil {
		return nil, err
	}

	annual := decimal.Zero
	if fee != nil {
		annual = fee.FeeAmount.Decimal
	}
	return &StudentPaymentSummary{
		StudentName:    payment.Student.FullName(),
		TotalFee:       models.NewMoney(annual),
		TotalPaid:      models.NewMoney(totalPaid),
		BalanceDue:     models.NewMoney(annual.Sub(totalPaid)),
		TermFee:        models.NewMoney(models.QuarterlyDue(annual)),
		CurrentPayment: newPaymentView(*payment),
	}, nil
}

type StudentPaymentSummary struct {
	StudentName    string       `json:"student_name"`
	TotalFee       models.Money `json:"total_fee"`
	TotalPaid      models.Money `json:"total_paid"`
	BalanceDue     models.Money `json:"balance_due"`
	TermFee        models.Money `json:"term_fee"`
	CurrentPayment PaymentView  `json:"current_payment"`
}

type GlobalSummary struct {
	TotalPayments  int64                               `json:"total_payments"`
	TotalAmount    models.Money                        `json:"total_amount"`
	PaymentsByMode map[models.PaymentMode]models.Money `json:"payments_by_mode"`
	CountsByMode   map[models.PaymentMode]int64        `json:"payment_counts_by_mode"`
}

// Summary aggregates every payment, overall and per payment mode. Modes with
// no payments are reported as zero.
func (s *PaymentService) Summary(ctx context.Context) (*GlobalSummary, error) {
	var rows []struct {
		PaymentMode models.PaymentMode
		Count       int64
		Amount      decimal.Decimal
	}
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("payment_mode, COUNT(*) AS count, COALESCE(SUM(amount_paid), 0) AS amount").
		Group("payment_mode").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "summarising payments")
	}

	total := decimal.Zero
	summary := &GlobalSummary{
		PaymentsByMode: make(map[models.PaymentMode]models.Money, len(models.PaymentModes)),
		CountsByMode:   make(map[models.PaymentMode]int64, len(models.PaymentModes)),
	}
	for _, m := range models.PaymentModes {
		summary.PaymentsByMode[m] = models.NewMoney(decimal.Zero)
		summary.CountsByMode[m] = 0
	}
	for _, r := range rows {
		summary.TotalPayments += r.Count
		total = total.Add(r.Amount)
		summary.PaymentsByMode[r.PaymentMode] = models.NewMoney(r.Amount)
		summary.CountsByMode[r.PaymentMode] = r.Count
	}
	summary.TotalAmount = models.NewMoney(total)
	return summary, nil
}

// Between returns payments with a transaction date in [from, to], oldest first.
func (s *PaymentService) Between(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).Preload("Student").
		Where("transaction_date BETWEEN ? AND ?", startOfDay(from), startOfDay(to)).
		Order("transaction_date, created_at").
		Find(&payments).Error
	return payments, errors.Wrap(err, "listing payments for report")
}

func studentForPayment(tx *gorm.DB, id uuid.UUID) (*models.Student, error) {
	var student models.Student
	err := tx.First(&student, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewValidationError("Invalid payment",
			FieldError{Field: "student", Error: "student does not exist"})
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading student")
	}
	return &student, nil
}

func totalPaidBy(db *gorm.DB, studentID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount_paid), 0)").
		Where("student_id = ?", studentID).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "summing student payments")
	}
	return total, nil
}

func summarize(tx *gorm.DB, student *models.Student, p *models.Payment) (*PaymentSummary, error) {
	fee, err := lookupFee(tx, student.Grade, student.Board)
	if err != nil {
		return nil, err
	}
	totalPaid, err := totalPaidBy(tx, student.ID)
	if err != nil {
		return nil, err
	}

	annual := decimal.Zero
	if fee != nil {
		annual = fee.FeeAmount.Decimal
	}
	return &PaymentSummary{
		StudentName:    student.FullName(),
		TotalFee:       models.NewMoney(annual),
		TotalPaid:      models.NewMoney(totalPaid),
		BalanceDue:     models.NewMoney(annual.Sub(totalPaid)),
		TermFee:        models.NewMoney(models.QuarterlyDue(annual)),
		CurrentTerm:    p.PaymentTerm,
		AmountJustPaid: p.AmountPaid,
	}, nil
}
