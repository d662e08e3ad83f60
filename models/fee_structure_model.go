package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeStructure is the annual fee for one (grade, board) pair.
type FeeStructure struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Grade     string    `gorm:"size:2;not null;uniqueIndex:idx_fee_grade_board" json:"grade"`
	Board     Board     `gorm:"size:10;not null;uniqueIndex:idx_fee_grade_board" json:"board"`
	FeeAmount Money     `gorm:"type:numeric(10,2);not null" json:"fee_amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuarterlyDue is the amount owed for one term of the given annual fee.
func QuarterlyDue(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(decimal.NewFromInt(TermsPerYear)).RoundBank(2)
}

// MarshalJSON adds the grade and board labels shown by the admin UI.
func (f FeeStructure) MarshalJSON() ([]byte, error) {
	type plain FeeStructure
	return json.Marshal(struct {
		plain
		GradeDisplay string `json:"grade_display"`
		BoardDisplay string `json:"board_display"`
	}{
		plain:        plain(f),
		GradeDisplay: GradeDisplay(f.Grade),
		BoardDisplay: f.Board.Display(),
	})
}
