package database

import (
	"testing"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		name                 string
		dialect              Dialect
		driverName           string
		supportsLastInsertId bool
		migrationsSubdir     string
	}{
		{"SQLite", NewSQLiteDialect(), "sqlite3", true, "sqlite"},
		{"PostgreSQL", NewPostgresDialect(), "postgres", false, "postgres"},
		{"MySQL", NewMySQLDialect(), "mysql", true, "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driverName {
				t.Errorf("DriverName() = %v, want %v", got, tt.driverName)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.supportsLastInsertId {
				t.Errorf("SupportsLastInsertId() = %v, want %v", got, tt.supportsLastInsertId)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.migrationsSubdir {
				t.Errorf("MigrationsSubdir() = %v, want %v", got, tt.migrationsSubdir)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM membres WHERE id = ?",
			expected: "SELECT * FROM membres WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM membres WHERE id = ?",
			expected: "SELECT * FROM membres WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO cotisations (membre_id, mois, annee) VALUES (?, ?, ?)",
			expected: "INSERT INTO cotisations (membre_id, mois, annee) VALUES ($1, $2, $3)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE sinistres SET statut = ?, date_paiement = ? WHERE id = ?",
			expected: "UPDATE sinistres SET statut = ?, date_paiement = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}
