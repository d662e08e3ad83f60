package services

import (
	"context"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FeeService struct {
	db *gorm.DB
}

func NewFeeService(db *gorm.DB) *FeeService {
	return &FeeService{db: db}
}

type FeeInput struct {
	Grade     string
	Board     models.Board
	FeeAmount decimal.Decimal
}

func (in FeeInput) validate() error {
	if in.FeeAmount.IsNegative() {
		return NewValidationError("Invalid fee structure",
			FieldError{Field: "fee_amount", Error: "fee_amount must be 0 or greater"})
	}
	return nil
}

func duplicateFeeError() error {
	return NewValidationError("Invalid fee structure",
		FieldError{Field: "grade", Error: "a fee structure for this grade and board already exists"})
}

// List returns every fee structure, or only the one for (grade, board) when
// both are given.
func (s *FeeService) List(ctx context.Context, grade string, board models.Board) ([]models.FeeStructure, error) {
	query := s.db.WithContext(ctx).Order("board, length(grade), grade")
	if grade != "" && board != "" {
		query = query.Where("grade = ? AND board = ?", grade, board)
	}

	fees := []models.FeeStructure{}
	if err := query.Find(&fees).Error; err != nil {
		return nil, errors.Wrap(err, "listing fee structures")
	}
	return fees, nil
}

func (s *FeeService) Get(ctx context.Context, id uuid.UUID) (*models.FeeStructure, error) {
	var fee models.FeeStructure
	err := s.db.WithContext(ctx).First(&fee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading fee structure")
	}
	return &fee, nil
}

// Lookup returns the fee structure for (grade, board), or nil when none exists.
func (s *FeeService) Lookup(ctx context.Context, grade string, board models.Board) (*models.FeeStructure, error) {
	return lookupFee(s.db.WithContext(ctx), grade, board)
}

func lookupFee(db *gorm.DB, grade string, board models.Board) (*models.FeeStructure, error) {
	var fee models.FeeStructure
	err := db.Where("grade = ? AND board = ?", grade, board).First(&fee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "looking up fee structure")
	}
	return &fee, nil
}

func (s *FeeService) Create(ctx context.Context, in FeeInput) (*models.FeeStructure, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	fee := models.FeeStructure{Grade: in.Grade, Board: in.Board, FeeAmount: models.NewMoney(in.FeeAmount)}
	if err := s.db.WithContext(ctx).Create(&fee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateFeeError()
		}
		return nil, errors.Wrap(err, "creating fee structure")
	}
	return &fee, nil
}

func (s *FeeService) Update(ctx context.Context, id uuid.UUID, in FeeInput) (*models.FeeStructure, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	fee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fee.Grade = in.Grade
	fee.Board = in.Board
	fee.FeeAmount = models.NewMoney(in.FeeAmount)

	if err := s.db.WithContext(ctx).Save(fee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateFeeError()
		}
		return nil, errors.Wrap(err, "updating fee structure")
	}
	return fee, nil
}

func (s *FeeService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.FeeStructure{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "deleting fee structure")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
