// Package dbtest opens throwaway databases for repository and service tests.
package dbtest

import (
	"os"
	"strings"
	"testing"

	"restaurant_pos/internal/database"
	"restaurant_pos/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a migrated in-memory database private to the test.
// A single connection is kept open so every query sees the same data.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// PostgresEnv names the variable holding the DSN used by NewPostgres.
const PostgresEnv = "TEST_DATABASE_URL"

// NewPostgres returns a migrated database in a fresh schema on the server named
// by TEST_DATABASE_URL, dropped when the test ends. The test is skipped when the
// variable is unset.
//
// Use it for anything that depends on row locks or isolation levels: the
// SQLite database from New runs every statement on one connection.
func NewPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv(PostgresEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresEnv)
	}
	config := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	admin, err := gorm.Open(postgres.Open(dsn), config)
	require.NoError(t, err)
	adminDB, err := admin.DB()
	require.NoError(t, err)

	schema := "pos_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	require.NoError(t, admin.Exec("CREATE SCHEMA "+schema).Error)
	t.Cleanup(func() {
		admin.Exec("DROP SCHEMA " + schema + " CASCADE")
		adminDB.Close()
	})

	db, err := gorm.Open(postgres.Open(withSearchPath(dsn, schema)), config)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func withSearchPath(dsn, schema string) string {
	if !strings.Contains(dsn, "://") {
		return dsn + " search_path=" + schema
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&search_path=" + schema
	}
	return dsn + "?search_path=" + schema
}

// SeedProduct inserts an available product with the given price.
func SeedProduct(t *testing.T, db *gorm.DB, name, price string) models.Product {
	t.Helper()

	p := models.Product{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// SeedAccount inserts an active credit account with a zero balance.
func SeedAccount(t *testing.T, db *gorm.DB, name string) models.CreditAccount {
	t.Helper()

	a := models.CreditAccount{
		CustomerName: name,
		TotalCredit:  decimal.Zero,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&a).Error)
	return a
}
