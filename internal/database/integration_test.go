package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	// Migrations must have created the full schema
	tables := []string{"membres", "membre_roles", "cotisations", "types_sinistres", "sinistres", "migrations"}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		err := db.QueryRow(query, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running migrations a second time must be a no-op
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Re-running migrations failed: %v", err)
	}
}

// TestSeedTypesSinistres tests that seeding fills the claim type table
// exactly once
func TestSeedTypesSinistres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	if err := db.SeedTypesSinistres(); err != nil {
		t.Fatalf("Failed to seed claim types: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM types_sinistres").Scan(&count); err != nil {
		t.Fatalf("Failed to count claim types: %v", err)
	}
	if count != len(defaultTypesSinistres) {
		t.Errorf("Expected %d claim types, got %d", len(defaultTypesSinistres), count)
	}

	// A second seed must not duplicate rows
	if err := db.SeedTypesSinistres(); err != nil {
		t.Fatalf("Failed to re-seed claim types: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM types_sinistres").Scan(&count); err != nil {
		t.Fatalf("Failed to count claim types: %v", err)
	}
	if count != len(defaultTypesSinistres) {
		t.Errorf("Expected %d claim types after re-seed, got %d", len(defaultTypesSinistres), count)
	}
}

// TestDatabaseTransactions tests the transaction wrapper
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	insertQuery := `INSERT INTO membres (nom_complet, telephone_1, cotisation_annuelle, date_adhesion, statut, password_hash)
		VALUES (?, ?, ?, ?, ?, ?)`

	// Committed insert must be visible afterwards
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	id, err := tx.ExecReturningID(insertQuery,
		"Marie Kamga", "+237699000001", 120000, "2024-01-15", "actif", "hash")
	if err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if id <= 0 {
		t.Errorf("Expected positive id, got %d", id)
	}

	if _, err := tx.Exec("INSERT INTO membre_roles (membre_id, role) VALUES (?, ?)", id, "membre"); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert role in transaction: %v", err)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM membres WHERE telephone_1 = ?", "+237699000001").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 member, got %d", count)
	}

	// Rolled back insert must leave no trace
	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}

	_, err = tx2.ExecReturningID(insertQuery,
		"Paul Etoundi", "+237699000002", 60000, "2024-02-01", "actif", "hash")
	if err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}

	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM membres WHERE telephone_1 = ?", "+237699000002").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 members after rollback, got %d", count)
	}
}

// TestConcurrentAccess tests concurrent reads under WAL mode
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO membres (nom_complet, telephone_1, cotisation_annuelle, date_adhesion, statut, password_hash)
		VALUES (?, ?, ?, ?, ?, ?)`,
		"Awa Ndiaye", "+237699000003", 120000, "2024-03-01", "actif", "hash")
	if err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			var nom string
			err := db.QueryRow("SELECT nom_complet FROM membres WHERE telephone_1 = ?", "+237699000003").Scan(&nom)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
			}
			if nom != "Awa Ndiaye" {
				t.Errorf("Expected member 'Awa Ndiaye', got '%s'", nom)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
