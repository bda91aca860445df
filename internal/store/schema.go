// Package store provides well storage implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the SQLite store.
const schemaV1 = `
-- Wells (the earth model travels as one JSON document per well)
CREATE TABLE IF NOT EXISTS wells (
    name TEXT PRIMARY KEY,
    top_md REAL NOT NULL,
    bottom_md REAL NOT NULL,
    earth TEXT NOT NULL,  -- JSON

    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

-- Log sets (one row per set, logs as a JSON array)
CREATE TABLE IF NOT EXISTS log_sets (
    well_name TEXT NOT NULL REFERENCES wells(name) ON DELETE CASCADE,
    set_name TEXT NOT NULL,
    logs TEXT NOT NULL,  -- JSON
    PRIMARY KEY (well_name, set_name)
);
CREATE INDEX IF NOT EXISTS idx_log_sets_well ON log_sets(well_name);

-- Dirty tracking for incremental export
CREATE TABLE IF NOT EXISTS dirty_wells (
    well_name TEXT PRIMARY KEY,
    operation TEXT NOT NULL,  -- 'insert', 'update', 'delete'
    dirty_at TEXT NOT NULL
);

-- Schema version
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);

-- Triggers for dirty tracking
CREATE TRIGGER IF NOT EXISTS well_insert_dirty
AFTER INSERT ON wells
BEGIN
    INSERT OR REPLACE INTO dirty_wells (well_name, operation, dirty_at)
    VALUES (NEW.name, 'insert', datetime('now'));
END;

CREATE TRIGGER IF NOT EXISTS well_update_dirty
AFTER UPDATE ON wells
BEGIN
    INSERT OR REPLACE INTO dirty_wells (well_name, operation, dirty_at)
    VALUES (NEW.name, 'update', datetime('now'));
END;

CREATE TRIGGER IF NOT EXISTS well_delete_dirty
AFTER DELETE ON wells
BEGIN
    INSERT OR REPLACE INTO dirty_wells (well_name, operation, dirty_at)
    VALUES (OLD.name, 'delete', datetime('now'));
END;
`

// InitSchema initializes the database schema.
// It creates all tables and applies migrations as needed.
// Runs integrity validation before migrations on existing databases.
func InitSchema(ctx context.Context, db *sql.DB) error {
	currentVersion, err := getSchemaVersion(ctx, db)
	if err != nil {
		// Schema version table doesn't exist yet, create fresh schema
		if err := createSchema(ctx, db); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	}

	// Validate database integrity before migrations
	if err := ValidateIntegrity(ctx, db); err != nil {
		return fmt.Errorf("database integrity check failed: %w", err)
	}

	// Apply migrations if needed
	if currentVersion < SchemaVersion {
		if err := migrateSchema(ctx, db, currentVersion); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version from the database.
// Returns 0 and an error if the schema_version table doesn't exist.
func getSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// createSchema creates the initial database schema.
func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return tx.Commit()
}

// migrateSchema applies migrations from currentVersion to SchemaVersion.
func migrateSchema(ctx context.Context, db *sql.DB, currentVersion int) error {
	// Currently only one version, no migrations needed
	_ = currentVersion
	return nil
}

// ValidateIntegrity runs SQLite integrity checks on the database.
// It runs PRAGMA integrity_check and PRAGMA foreign_key_check.
// Returns an error if any issues are found.
func ValidateIntegrity(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `PRAGMA integrity_check`)
	if err != nil {
		return fmt.Errorf("failed to run integrity_check: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var result string
		if err := rows.Scan(&result); err != nil {
			return fmt.Errorf("failed to scan integrity_check result: %w", err)
		}
		if result != "ok" {
			return fmt.Errorf("integrity_check failed: %s", result)
		}
	}

	fkRows, err := db.QueryContext(ctx, `PRAGMA foreign_key_check`)
	if err != nil {
		return fmt.Errorf("failed to run foreign_key_check: %w", err)
	}
	defer fkRows.Close()

	var fkErrors []string
	for fkRows.Next() {
		var table, rowid, parent, fkid string
		if err := fkRows.Scan(&table, &rowid, &parent, &fkid); err != nil {
			return fmt.Errorf("failed to scan foreign_key_check result: %w", err)
		}
		fkErrors = append(fkErrors, fmt.Sprintf("table=%s rowid=%s parent=%s fkid=%s", table, rowid, parent, fkid))
	}

	if len(fkErrors) > 0 {
		return fmt.Errorf("foreign_key_check failed: %v", fkErrors)
	}

	return nil
}

// ResetSchema drops all tables and recreates the schema.
// Only use for testing.
func ResetSchema(ctx context.Context, db *sql.DB) error {
	triggers := []string{
		"well_insert_dirty",
		"well_update_dirty",
		"well_delete_dirty",
	}
	for _, trigger := range triggers {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TRIGGER IF EXISTS %s", trigger)); err != nil {
			return fmt.Errorf("failed to drop trigger %s: %w", trigger, err)
		}
	}

	tables := []string{
		"dirty_wells",
		"log_sets",
		"wells",
		"schema_version",
	}
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return InitSchema(ctx, db)
}
