package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/anjiri1684/tuition_admin/database"
	"github.com/anjiri1684/tuition_admin/models"
	"github.com/anjiri1684/tuition_admin/notifications"
	"github.com/anjiri1684/tuition_admin/testing/testdb"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	notifier *notifications.ConsoleNotifier
	tokens   *TokenService
	accounts *AccountService
	students *StudentService
	fees     *FeeService
	payments *PaymentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pg := testdb.SetupSharedPostgres(t)
	log := zerolog.Nop()

	notifier := notifications.NewConsoleNotifier(log)
	tokens := NewTokenService(pg.DB, "test-secret", time.Hour)
	return &fixture{
		db:       pg.DB,
		notifier: notifier,
		tokens:   tokens,
		accounts: NewAccountService(pg.DB, tokens, notifier, log),
		students: NewStudentService(pg.DB),
		fees:     NewFeeService(pg.DB),
		payments: NewPaymentService(pg.DB, log),
	}
}

// reset truncates every table and forgets sent emails.
func (f *fixture) reset(t *testing.T) {
	t.Helper()
	testdb.CleanupTables(t, f.db)
	f.notifier.Sent = nil
}

func (f *fixture) admin(t *testing.T) *models.Account {
	t.Helper()
	admin, err := database.CreateSuperuser(context.Background(), f.db, database.Superuser{
		Email:     "admin@school.test",
		Username:  "admin",
		Password:  "adminpass123",
		FirstName: "Priya",
		LastName:  "Nair",
	})
	require.NoError(t, err)
	return admin
}

func (f *fixture) register(t *testing.T, email, username string) *models.Account {
	t.Helper()
	account, err := f.accounts.Register(context.Background(), RegisterInput{
		Email:     email,
		Username:  username,
		Password:  "password123",
		FirstName: "Meera",
		LastName:  "Joshi",
	})
	require.NoError(t, err)
	return account
}

func (f *fixture) fee(t *testing.T, grade string, board models.Board, amount string) *models.FeeStructure {
	t.Helper()
	fee, err := f.fees.Create(context.Background(), FeeInput{
		Grade:     grade,
		Board:     board,
		FeeAmount: decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return fee
}

func (f *fixture) student(t *testing.T, first, last, grade string, board models.Board) *StudentView {
	t.Helper()
	student, err := f.students.Create(context.Background(), StudentInput{
		FirstName:            first,
		LastName:             last,
		Grade:                grade,
		Board:                board,
		ParentName:           "Parent of " + first,
		ParentContactPrimary: "9876543210",
	})
	require.NoError(t, err)
	return student
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func money(s string) models.Money {
	return models.NewMoney(decimal.RequireFromString(s))
}

func assertDecimal(t *testing.T, want string, got models.Money) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got.Decimal), "want %s, got %s", want, got)
}

func mapKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldMap(), field)
}
