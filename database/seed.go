package database

import (
	"context"
	"strings"
	"time"

	config "github.com/anjiri1684/tuition_admin/configs"
	"github.com/anjiri1684/tuition_admin/models"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrSuperuserExists = errors.New("an account with this email or username already exists")

type Superuser struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// CreateSuperuser inserts an approved, active staff account. Superusers skip
// the approval queue.
func CreateSuperuser(ctx context.Context, db *gorm.DB, su Superuser) (*models.Account, error) {
	su.Email = strings.ToLower(strings.TrimSpace(su.Email))
	su.Username = strings.TrimSpace(su.Username)
	if su.Email == "" || su.Username == "" || su.Password == "" {
		return nil, errors.New("email, username and password are required")
	}

	var count int64
	err := db.WithContext(ctx).Model(&models.Account{}).
		Where("email = ? OR username = ?", su.Email, su.Username).
		Count(&count).Error
	if err != nil {
		return nil, errors.Wrap(err, "checking for existing superuser")
	}
	if count > 0 {
		return nil, ErrSuperuserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hashing superuser password")
	}

	now := time.Now()
	account := models.Account{
		Email:          su.Email,
		Username:       su.Username,
		Password:       string(hashed),
		FirstName:      su.FirstName,
		LastName:       su.LastName,
		ApprovalStatus: models.ApprovalApproved,
		ApprovedAt:     &now,
		IsActive:       true,
		IsStaff:        true,
		IsSuperuser:    true,
	}
	if err := db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, errors.Wrap(err, "creating superuser")
	}
	return &account, nil
}

// SeedAdmin creates the configured superuser once. It is a no-op when no
// admin email is configured or the account already exists.
func SeedAdmin(ctx context.Context, db *gorm.DB, cfg config.AdminConfig, log zerolog.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Info().Msg("admin seed skipped, ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	_, err := CreateSuperuser(ctx, db, Superuser{
		Email:     cfg.Email,
		Username:  cfg.Username,
		Password:  cfg.Password,
		FirstName: cfg.FirstName,
		LastName:  cfg.LastName,
	})
	if errors.Is(err, ErrSuperuserExists) {
		log.Info().Str("email", cfg.Email).Msg("admin user already exists")
		return nil
	}
	if err != nil {
		return err
	}

	log.Info().Str("email", cfg.Email).Msg("admin user seeded")
	return nil
}
