package models

import (
	"time"

	"github.com/google/uuid"
)

type Board string

const (
	BoardCBSE Board = "CBSE"
	BoardSSC  Board = "SSC"
)

var Boards = []Board{BoardCBSE, BoardSSC}

// Display is the board's label. Board codes are already human readable.
func (b Board) Display() string {
	return string(b)
}

// Grades lists the ten grade codes a student or fee structure may carry.
var Grades = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

func ValidGrade(g string) bool {
	for _, v := range Grades {
		if v == g {
			return true
		}
	}
	return false
}

func ValidBoard(b Board) bool {
	for _, v := range Boards {
		if v == b {
			return true
		}
	}
	return false
}

func GradeDisplay(g string) string {
	return "Grade " + g
}

type Student struct {
	ID                     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FirstName              string    `gorm:"size:100;not null" json:"first_name"`
	LastName               string    `gorm:"size:100;not null" json:"last_name"`
	Grade                  string    `gorm:"size:2;not null;index:idx_student_grade_board" json:"grade"`
	Board                  Board     `gorm:"size:10;not null;index:idx_student_grade_board" json:"board"`
	ParentName             string    `gorm:"size:200;not null" json:"parent_name"`
	ParentContactPrimary   string    `gorm:"size:15;not null" json:"parent_contact_primary"`
	ParentContactSecondary *string   `gorm:"size:15" json:"parent_contact_secondary"`
	AdmissionDate          time.Time `gorm:"type:date;not null" json:"admission_date"`

	Payments []Payment `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
