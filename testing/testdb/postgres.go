package testdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/tuition_admin/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	sharedContainer *PostgresContainer
	sharedOnce      sync.Once
	sharedErr       error
)

// PostgresContainer wraps the postgres testcontainer and a migrated gorm DB.
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
	DSN       string
}

// SetupSharedPostgres starts one PostgreSQL container per test binary and
// migrates the schema into it. Tests are skipped when Docker is unavailable.
//
// Tests sharing the container cannot run in parallel; call CleanupTables at
// the start of each subtest.
func SetupSharedPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	sharedOnce.Do(func() {
		ctx := context.Background()
		pgContainer, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			sharedErr = err
			return
		}

		connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedErr = err
			return
		}

		db, err := gorm.Open(gormpostgres.Open(connStr), &gorm.Config{TranslateError: true})
		if err != nil {
			sharedErr = err
			return
		}
		if err := database.Migrate(db); err != nil {
			sharedErr = err
			return
		}

		sharedContainer = &PostgresContainer{Container: pgContainer, DB: db, DSN: connStr}
	})
	require.NoError(t, sharedErr)

	return sharedContainer
}

// CleanupTables truncates every application table.
func CleanupTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Exec("TRUNCATE payments, students, fee_structures, auth_tokens, accounts RESTART IDENTITY CASCADE").Error
	require.NoError(t, err, "failed to truncate tables")
}
