package migrate_test

import (
	"testing"

	"github.com/granizoapp/granizo-backend/pkg/migrate"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations should validate: %v", err)
	}
}

func TestValidateDirRejectsEmptyDir(t *testing.T) {
	if err := migrate.ValidateDir(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Receipt Templates")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if path == "" {
		t.Fatal("expected migration path")
	}
}
