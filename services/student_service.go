package services

import (
	"context"
	"strings"
	"time"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StudentService struct {
	db *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

type FeeRef struct {
	ID        uuid.UUID    `json:"id"`
	FeeAmount models.Money `json:"fee_amount"`
}

// StudentView is a student with its fee lookup and payment total attached.
type StudentView struct {
	models.Student
	FullName     string       `json:"full_name"`
	GradeDisplay string       `json:"grade_display"`
	TotalPaid    models.Money `json:"total_paid"`
	FeeStructure *FeeRef      `json:"fee_structure"`
}

type StudentInput struct {
	FirstName              string
	LastName               string
	Grade                  string
	Board                  models.Board
	ParentName             string
	ParentContactPrimary   string
	ParentContactSecondary *string
}

func (in StudentInput) apply(s *models.Student) {
	s.FirstName = strings.TrimSpace(in.FirstName)
	s.LastName = strings.TrimSpace(in.LastName)
	s.Grade = in.Grade
	s.Board = in.Board
	s.ParentName = strings.TrimSpace(in.ParentName)
	s.ParentContactPrimary = in.ParentContactPrimary
	s.ParentContactSecondary = in.ParentContactSecondary
}

func (s *StudentService) List(ctx context.Context) ([]StudentView, error) {
	var students []models.Student
	if err := s.db.WithContext(ctx).Order("last_name, first_name").Find(&students).Error; err != nil {
		return nil, errors.Wrap(err, "listing students")
	}
	return s.views(ctx, students)
}

// Search matches q case-insensitively against names, parent name, grade and
// board. An empty query matches nothing.
func (s *StudentService) Search(ctx context.Context, q string) ([]StudentView, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []StudentView{}, nil
	}

	term := "%" + escapeLike(q) + "%"
	var students []models.Student
	err := s.db.WithContext(ctx).
		Where("first_name ILIKE ? OR last_name ILIKE ? OR parent_name ILIKE ? OR grade ILIKE ? OR board ILIKE ?",
			term, term, term, term, term).
		Order("last_name, first_name").
		Find(&students).Error
	if err != nil {
		return nil, errors.Wrap(err, "searching students")
	}
	return s.views(ctx, students)
}

func (s *StudentService) find(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	var student models.Student
	err := s.db.WithContext(ctx).First(&student, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading student")
	}
	return &student, nil
}

func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*StudentView, error) {
	student, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []models.Student{*student})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *StudentService) Create(ctx context.Context, in StudentInput) (*StudentView, error) {
	student := models.Student{AdmissionDate: models.Today()}
	in.apply(&student)

	if err := s.db.WithContext(ctx).Create(&student).Error; err != nil {
		return nil, errors.Wrap(err, "creating student")
	}
	return s.Get(ctx, student.ID)
}

// Update replaces the editable fields. The admission date never changes.
func (s *StudentService) Update(ctx context.Context, id uuid.UUID, in StudentInput) (*StudentView, error) {
	student, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(student)

	if err := s.db.WithContext(ctx).Save(student).Error; err != nil {
		return nil, errors.Wrap(err, "updating student")
	}
	return s.Get(ctx, id)
}

// Delete removes the student and, through the foreign key, its payments.
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Student{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "deleting student")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Payments returns the student's payment history, newest first.
func (s *StudentService) Payments(ctx context.Context, id uuid.UUID) ([]PaymentView, error) {
	student, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	var payments []models.Payment
	err = s.db.WithContext(ctx).
		Where("student_id = ?", id).
		Order("transaction_date desc, created_at desc").
		Find(&payments).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing student payments")
	}

	views := make([]PaymentView, 0, len(payments))
	for i := range payments {
		payments[i].Student = *student
		views = append(views, newPaymentView(payments[i]))
	}
	return views, nil
}

type StudentSummary struct {
	Student   StudentView  `json:"student"`
	TotalFee  models.Money `json:"total_fee"`
	TotalPaid models.Money `json:"total_paid"`
	Balance   models.Money `json:"balance"`
}

// PaymentSummary reports the annual fee, what has been paid and what remains.
func (s *StudentService) PaymentSummary(ctx context.Context, id uuid.UUID) (*StudentSummary, error) {
	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	totalFee := decimal.Zero
	if view.FeeStructure != nil {
		totalFee = view.FeeStructure.FeeAmount.Decimal
	}

	return &StudentSummary{
		Student:   *view,
		TotalFee:  models.NewMoney(totalFee),
		TotalPaid: view.TotalPaid,
		Balance:   models.NewMoney(totalFee.Sub(view.TotalPaid.Decimal)),
	}, nil
}

type paidTotal struct {
	StudentID uuid.UUID
	Total     decimal.Decimal
}

// views attaches fee structures and payment totals with one query each.
func (s *StudentService) views(ctx context.Context, students []models.Student) ([]StudentView, error) {
	views := make([]StudentView, 0, len(students))
	if len(students) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}

	var totals []paidTotal
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("student_id, COALESCE(SUM(amount_paid), 0) AS total").
		Where("student_id IN ?", ids).
		Group("student_id").
		Scan(&totals).Error
	if err != nil {
		return nil, errors.Wrap(err, "summing payments")
	}
	paid := make(map[uuid.UUID]decimal.Decimal, len(totals))
	for _, t := range totals {
		paid[t.StudentID] = t.Total
	}

	var fees []models.FeeStructure
	if err := s.db.WithContext(ctx).Find(&fees).Error; err != nil {
		return nil, errors.Wrap(err, "loading fee structures")
	}
	feeByKey := make(map[string]models.FeeStructure, len(fees))
	for _, f := range fees {
		feeByKey[f.Grade+"/"+string(f.Board)] = f
	}

	for _, st := range students {
		v := StudentView{
			Student:      st,
			FullName:     st.FullName(),
			GradeDisplay: models.GradeDisplay(st.Grade),
			TotalPaid:    models.NewMoney(decimal.Zero),
		}
		if total, ok := paid[st.ID]; ok {
			v.TotalPaid = models.NewMoney(total)
		}
		if f, ok := feeByKey[st.Grade+"/"+string(st.Board)]; ok {
			v.FeeStructure = &FeeRef{ID: f.ID, FeeAmount: f.FeeAmount}
		}
		views = append(views, v)
	}
	return views, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
