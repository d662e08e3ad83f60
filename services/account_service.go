package services

import (
	"context"
	"strings"
	"time"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/anjiri1684/tuition_admin/notifications"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const MinPasswordLength = 8

type AccountService struct {
	db       *gorm.DB
	tokens   *TokenService
	notifier notifications.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewAccountService(db *gorm.DB, tokens *TokenService, notifier notifications.Notifier, log zerolog.Logger) *AccountService {
	return &AccountService{db: db, tokens: tokens, notifier: notifier, log: log, now: time.Now}
}

// AccountView is an account as staff see it, with the approver's name.
type AccountView struct {
	models.Account
	ApprovedByName *string `json:"approved_by_name"`
}

// NewAccountView expects ApprovedBy to be preloaded when ApprovedByID is set.
func NewAccountView(a models.Account) AccountView {
	view := AccountView{Account: a}
	if a.ApprovedBy != nil {
		name := strings.TrimSpace(a.ApprovedBy.FirstName + " " + a.ApprovedBy.LastName)
		view.ApprovedByName = &name
	}
	return view
}

type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber *string
	Address     *string
}

// Register creates an active account waiting for admin approval.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if err := s.checkUniqueness(ctx, "Registration failed", uuid.Nil, in.Email, in.Username); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	account := models.Account{
		Email:          in.Email,
		Username:       in.Username,
		Password:       string(hashed),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PhoneNumber:    in.PhoneNumber,
		Address:        in.Address,
		ApprovalStatus: models.ApprovalPending,
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("Registration failed",
				FieldError{Field: "email", Error: "a user with this email or username already exists"})
		}
		return nil, errors.Wrap(err, "creating account")
	}

	s.log.Info().Str("account_id", account.ID.String()).Str("email", account.Email).Msg("account registered")
	return &account, nil
}

// Login checks credentials and the approval gate, then issues a token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.Account, string, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", errors.Wrap(err, "loading account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := authenticationError(&account); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(ctx, &account)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&account).Update("last_login", now).Error; err != nil {
		return nil, "", errors.Wrap(err, "recording last login")
	}
	account.LastLogin = &now

	return &account, token, nil
}

func (s *AccountService) Logout(ctx context.Context, claims *Claims) error {
	return s.tokens.Revoke(ctx, claims)
}

func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Preload("ApprovedBy").First(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading account")
	}
	return &account, nil
}

// ProfileUpdate holds the fields an account owner may change. Nil fields are
// left as they are.
type ProfileUpdate struct {
	Username    *string
	Email       *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Address     *string
}

func (s *AccountService) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*models.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email, username := account.Email, account.Username
	if in.Email != nil {
		email = normalizeEmail(*in.Email)
	}
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
	}
	if err := s.checkUniqueness(ctx, "Profile update failed", account.ID, email, username); err != nil {
		return nil, err
	}

	account.Email = email
	account.Username = username
	if in.FirstName != nil {
		account.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		account.LastName = *in.LastName
	}
	if in.PhoneNumber != nil {
		account.PhoneNumber = in.PhoneNumber
	}
	if in.Address != nil {
		account.Address = in.Address
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(account).Error; err != nil {
		return nil, errors.Wrap(err, "updating profile")
	}
	return account, nil
}

// AdminUpdate holds the fields staff may change on any account besides the
// approval decision.
type AdminUpdate struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Address     *string
	IsActive    *bool
}

func (s *AccountService) AdminUpdate(ctx context.Context, id uuid.UUID, in AdminUpdate) (*models.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		account.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		account.LastName = *in.LastName
	}
	if in.PhoneNumber != nil {
		account.PhoneNumber = in.PhoneNumber
	}
	if in.Address != nil {
		account.Address = in.Address
	}
	if in.IsActive != nil {
		account.IsActive = *in.IsActive
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(account).Error; err != nil {
		return nil, errors.Wrap(err, "updating account")
	}
	return account, nil
}

// List returns accounts newest first, optionally filtered by approval status.
func (s *AccountService) List(ctx context.Context, status *models.ApprovalStatus) ([]models.Account, error) {
	query := s.db.WithContext(ctx).Preload("ApprovedBy").Order("created_at desc")
	if status != nil {
		query = query.Where("approval_status = ?", *status)
	}

	accounts := []models.Account{}
	if err := query.Find(&accounts).Error; err != nil {
		return nil, errors.Wrap(err, "listing accounts")
	}
	return accounts, nil
}

func (s *AccountService) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("approval_status = ?", models.ApprovalPending).
		Count(&count).Error
	return count, errors.Wrap(err, "counting pending accounts")
}

// SubmitDecision approves or rejects an account on behalf of actor and emails
// the owner. A failed email does not undo the decision.
func (s *AccountService) SubmitDecision(ctx context.Context, id uuid.UUID, decision models.ApprovalStatus, actor uuid.UUID, reason *string) (*models.Account, error) {
	if decision != models.ApprovalApproved && decision != models.ApprovalRejected {
		return nil, NewValidationError("Invalid decision",
			FieldError{Field: "decision", Error: "decision must be one of approved, rejected"})
	}

	var account models.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		account.ApplyDecision(decision, actor, reason, s.now())
		return tx.Save(&account).Error
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "saving approval decision")
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("decision", string(decision)).
		Str("actor", actor.String()).
		Msg("approval decision recorded")

	s.notifyDecision(ctx, &account)

	if err := s.db.WithContext(ctx).Preload("ApprovedBy").First(&account, "id = ?", id).Error; err != nil {
		return nil, errors.Wrap(err, "reloading account")
	}
	return &account, nil
}

func (s *AccountService) notifyDecision(ctx context.Context, account *models.Account) {
	reason := ""
	if account.RejectionReason != nil {
		reason = *account.RejectionReason
	}
	msg, err := notifications.DecisionMessage(account.FullName(), account.Email,
		account.ApprovalStatus == models.ApprovalApproved, reason)
	if err == nil {
		err = s.notifier.Send(ctx, msg)
	}
	if err != nil {
		s.log.Error().Err(err).Str("email", account.Email).Msg("failed to send decision email")
	}
}

// checkUniqueness reports clashes with accounts other than self.
func (s *AccountService) checkUniqueness(ctx context.Context, message string, self uuid.UUID, email, username string) error {
	var fields []FieldError

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("email = ? AND id <> ?", email, self).Count(&count).Error; err != nil {
		return errors.Wrap(err, "checking email")
	}
	if count > 0 {
		fields = append(fields, FieldError{Field: "email", Error: "a user with this email already exists"})
	}

	if err := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("username = ? AND id <> ?", username, self).Count(&count).Error; err != nil {
		return errors.Wrap(err, "checking username")
	}
	if count > 0 {
		fields = append(fields, FieldError{Field: "username", Error: "a user with that username already exists"})
	}

	if len(fields) > 0 {
		return NewValidationError(message, fields...)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
