package repository

import (
	"strings"
	"testing"

	"go-pos-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=pos dbname=pos"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

// A sale must hold row locks while it re-checks and decrements stock,
// otherwise two concurrent sales can both pass the stock check.
func TestLockForUpdateEmitsRowLock(t *testing.T) {
	db := newDryRunDB(t)

	var product model.Product
	stmt := lockForUpdate(db).First(&product, "id = ?", uuid.New()).Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "FOR UPDATE") {
		t.Fatalf("product select is not locked: %q", sql)
	}
}

func TestUnlockedSelectHasNoRowLock(t *testing.T) {
	db := newDryRunDB(t)

	var product model.Product
	stmt := db.First(&product, "id = ?", uuid.New()).Statement

	if sql := stmt.SQL.String(); strings.Contains(sql, "FOR UPDATE") {
		t.Fatalf("plain select unexpectedly locked: %q", sql)
	}
}
