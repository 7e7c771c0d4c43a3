// Package testutil provides throwaway databases for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"tripbuddy/internal/infra"
	dbm "tripbuddy/internal/models/db_models"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
// It is closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := infra.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedAttractions inserts the given attractions and returns them with IDs set.
func SeedAttractions(t *testing.T, db *gorm.DB, attractions ...dbm.Attraction) []dbm.Attraction {
	t.Helper()

	for i := range attractions {
		if err := db.Create(&attractions[i]).Error; err != nil {
			t.Fatalf("seed attraction %q: %v", attractions[i].Name, err)
		}
	}
	return attractions
}
