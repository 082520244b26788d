package internal

import (
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"med-diagnosis-api/apiv1"
)

// setupTestDB creates a file-backed SQLite database in a temp dir with
// all resource tables migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	tmpDir, err := os.MkdirTemp("", "testdb")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	err = db.AutoMigrate(
		&apiv1.Disease{},
		&apiv1.Symptom{},
		&apiv1.Account{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	// Verify that the tables were created
	var tables []string
	err = db.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&tables).Error
	if err != nil {
		t.Fatalf("Failed to verify tables: %v", err)
	}

	requiredTables := []string{"diseases", "symptoms", "accounts"}
	for _, table := range requiredTables {
		if !contains(tables, table) {
			t.Fatalf("Required table %s was not created", table)
		}
	}

	return db
}

// cleanupTestDB closes the database connection
func cleanupTestDB(t *testing.T, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Failed to get underlying *sql.DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Failed to close database connection: %v", err)
	}
}

func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

func testDisease(name string, symptoms ...string) apiv1.Disease {
	if len(symptoms) == 0 {
		symptoms = []string{"температура"}
	}
	return apiv1.Disease{
		Name:        name,
		Description: "Описание " + name,
		Treatment:   "Лечение " + name,
		Symptoms:    symptoms,
		Severity:    apiv1.SeverityMedium,
		Specialist:  "Терапевт",
		Category:    "Инфекционные",
	}
}
