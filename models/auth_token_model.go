package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is the server side record of an issued bearer token. A token is
// live only while its row exists.
type AuthToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;index"`
	Account   Account   `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
