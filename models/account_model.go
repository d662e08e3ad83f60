package models

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

type Account struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email       string    `gorm:"size:254;not null;unique" json:"email"`
	Username    string    `gorm:"size:150;not null;unique" json:"username"`
	Password    string    `gorm:"not null" json:"-"`
	FirstName   string    `gorm:"size:150" json:"first_name"`
	LastName    string    `gorm:"size:150" json:"last_name"`
	PhoneNumber *string   `gorm:"size:15" json:"phone_number"`
	Address     *string   `gorm:"type:text" json:"address"`

	ApprovalStatus  ApprovalStatus `gorm:"size:10;not null;default:'pending';index" json:"is_approved"`
	ApprovedByID    *uuid.UUID     `gorm:"type:uuid" json:"approved_by"`
	ApprovedBy      *Account       `gorm:"foreignKey:ApprovedByID;constraint:OnDelete:SET NULL" json:"-"`
	ApprovedAt      *time.Time     `json:"approved_at"`
	RejectionReason *string        `gorm:"type:text" json:"rejection_reason"`

	IsActive    bool       `gorm:"not null" json:"is_active"`
	IsStaff     bool       `gorm:"not null" json:"is_staff"`
	IsSuperuser bool       `gorm:"not null" json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanAuthenticate reports whether the account may log in or keep using a token.
func (a *Account) CanAuthenticate() bool {
	return a.ApprovalStatus == ApprovalApproved && a.IsActive
}

// ApplyDecision moves the account to approved or rejected on behalf of actor.
// Rejection leaves the previous approval stamps in place.
func (a *Account) ApplyDecision(decision ApprovalStatus, actor uuid.UUID, reason *string, now time.Time) {
	switch decision {
	case ApprovalApproved:
		a.ApprovalStatus = ApprovalApproved
		a.ApprovedByID = &actor
		a.ApprovedAt = &now
		a.RejectionReason = nil
	case ApprovalRejected:
		a.ApprovalStatus = ApprovalRejected
		r := ""
		if reason != nil {
			r = *reason
		}
		a.RejectionReason = &r
	}
}

func (a *Account) FullName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.FirstName != "":
		return a.FirstName
	}
	return a.LastName
}
