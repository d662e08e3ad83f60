package services

import (
	"context"
	"time"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Claims carried by every bearer token. ID is the jti of the auth_tokens row.
type Claims struct {
	jwt.RegisteredClaims
	Staff bool `json:"staff"`
}

type TokenService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
}

func NewTokenService(db *gorm.DB, secret string, ttl time.Duration) *TokenService {
	return &TokenService{db: db, secret: []byte(secret), ttl: ttl}
}

func (s *TokenService) SigningKey() []byte {
	return s.secret
}

// Issue stores a new token row for account and returns the signed token.
// Expired rows of the same account are purged on the way.
func (s *TokenService) Issue(ctx context.Context, account *models.Account) (string, error) {
	now := time.Now()
	record := models.AuthToken{
		ID:        uuid.New(),
		AccountID: account.ID,
		ExpiresAt: now.Add(s.ttl),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ? AND expires_at < ?", account.ID, now).Delete(&models.AuthToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return "", errors.Wrap(err, "storing auth token")
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        record.ID.String(),
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(record.ExpiresAt),
		},
		Staff: account.IsStaff,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return signed, nil
}

// Parse verifies the signature and expiry of a raw token.
func (s *TokenService) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parsing token")
	}
	return claims, nil
}

// Resolve returns the account behind verified claims. The token row must
// still exist and the account must still be allowed to authenticate.
func (s *TokenService) Resolve(ctx context.Context, claims *Claims) (*models.Account, error) {
	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, ErrTokenRevoked
	}

	var record models.AuthToken
	err = s.db.WithContext(ctx).Preload("Account").
		Where("id = ? AND expires_at > ?", jti, time.Now()).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenRevoked
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading auth token")
	}

	if err := authenticationError(&record.Account); err != nil {
		return nil, err
	}
	return &record.Account, nil
}

// Revoke deletes the token row so the token stops working immediately.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return ErrTokenRevoked
	}
	err = s.db.WithContext(ctx).Delete(&models.AuthToken{}, "id = ?", jti).Error
	return errors.Wrap(err, "deleting auth token")
}

func authenticationError(a *models.Account) error {
	if a.CanAuthenticate() {
		return nil
	}
	if a.ApprovalStatus != models.ApprovalApproved {
		return ErrAccountNotApproved
	}
	return ErrAccountDeactivated
}
