// Package store provides well storage implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/model"
)

// SQLiteCaseStore implements CaseStore using SQLite for persistence.
// It stores wells and log sets in a SQLite database and exports to JSONL
// on Sync().
type SQLiteCaseStore struct {
	mu        sync.RWMutex
	db        *sql.DB
	welsDir   string
	dbPath    string
	wellsFile string
}

// NewSQLiteCaseStore creates a new SQLiteCaseStore rooted at projectRoot.
// It creates the database at .wels/wels.db and auto-imports an existing
// wells.jsonl when it is newer than the database.
func NewSQLiteCaseStore(projectRoot string) (*SQLiteCaseStore, error) {
	welsDir := LocalWelsPath(projectRoot)

	if err := os.MkdirAll(welsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .wels directory: %w", err)
	}

	dbPath := filepath.Join(welsDir, "wels.db")
	wellsFile := filepath.Join(welsDir, "wells.jsonl")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single writer

	ctx := context.Background()

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &SQLiteCaseStore{
		db:        db,
		welsDir:   welsDir,
		dbPath:    dbPath,
		wellsFile: wellsFile,
	}

	if err := s.autoImport(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to auto-import JSONL: %w", err)
	}

	return s, nil
}

// autoImport imports an existing wells.jsonl if the database is empty or the
// JSONL file is newer.
func (s *SQLiteCaseStore) autoImport(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wells`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count wells: %w", err)
	}

	if count > 0 {
		dbInfo, err := os.Stat(s.dbPath)
		if err != nil {
			return fmt.Errorf("failed to stat database: %w", err)
		}

		wellsInfo, err := os.Stat(s.wellsFile)
		if err != nil {
			if os.IsNotExist(err) {
				return nil // No JSONL file, nothing to import
			}
			return fmt.Errorf("failed to stat wells.jsonl: %w", err)
		}

		// If JSONL is older than DB, no need to import
		if wellsInfo.ModTime().Before(dbInfo.ModTime()) {
			return nil
		}
	}

	if _, err := os.Stat(s.wellsFile); err == nil {
		if err := s.ImportWellsFromJSONL(ctx, s.wellsFile); err != nil {
			return fmt.Errorf("failed to import wells: %w", err)
		}
	}

	// Clear dirty flags since we just imported
	if _, err := s.db.ExecContext(ctx, `DELETE FROM dirty_wells`); err != nil {
		return fmt.Errorf("failed to clear dirty flags: %w", err)
	}

	return nil
}

// SaveWell persists a well, replacing any stored well of the same name.
func (s *SQLiteCaseStore) SaveWell(ctx context.Context, well *model.Well) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveWellUnlocked(ctx, well)
}

// saveWellUnlocked persists a well without locking (caller must hold lock).
func (s *SQLiteCaseStore) saveWellUnlocked(ctx context.Context, well *model.Well) error {
	if well.Name == "" {
		return fmt.Errorf("well name is required")
	}

	earthJSON, err := json.Marshal(well.Earth)
	if err != nil {
		return fmt.Errorf("failed to marshal earth model: %w", err)
	}

	now := time.Now().Format(time.RFC3339)

	// Preserve the original created_at on replacement
	createdAt := now
	var existing string
	err = s.db.QueryRowContext(ctx, `SELECT created_at FROM wells WHERE name = ?`, well.Name).Scan(&existing)
	if err == nil {
		createdAt = existing
	} else if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check well existence: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO wells (name, top_md, bottom_md, earth, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, well.Name, well.TopMD, well.BottomMD, string(earthJSON), createdAt, now)
	if err != nil {
		return fmt.Errorf("failed to insert well: %w", err)
	}

	// Replace the well's log sets wholesale
	if _, err := s.db.ExecContext(ctx, `DELETE FROM log_sets WHERE well_name = ?`, well.Name); err != nil {
		return fmt.Errorf("failed to delete log sets: %w", err)
	}
	for _, setName := range well.LogSetNames() {
		set, err := well.LogSet(setName)
		if err != nil {
			return err
		}
		setJSON, err := json.Marshal(set)
		if err != nil {
			return fmt.Errorf("failed to marshal log set %q: %w", setName, err)
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO log_sets (well_name, set_name, logs)
			VALUES (?, ?, ?)
		`, well.Name, setName, string(setJSON))
		if err != nil {
			return fmt.Errorf("failed to insert log set %q: %w", setName, err)
		}
	}

	return nil
}

// LoadWell retrieves a well by name.
func (s *SQLiteCaseStore) LoadWell(ctx context.Context, name string) (*model.Well, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadWellUnlocked(ctx, name)
}

// loadWellUnlocked retrieves a well without locking (caller must hold lock).
func (s *SQLiteCaseStore) loadWellUnlocked(ctx context.Context, name string) (*model.Well, error) {
	var topMD, bottomMD float64
	var earthJSON string

	err := s.db.QueryRowContext(ctx, `
		SELECT top_md, bottom_md, earth FROM wells WHERE name = ?
	`, name).Scan(&topMD, &bottomMD, &earthJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", ErrWellNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get well: %w", err)
	}

	var earth model.EarthModel
	if err := json.Unmarshal([]byte(earthJSON), &earth); err != nil {
		return nil, fmt.Errorf("failed to unmarshal earth model for %q: %w", name, err)
	}

	well, err := model.NewWell(name, topMD, bottomMD)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild well %q: %w", name, err)
	}
	well.Earth = &earth

	rows, err := s.db.QueryContext(ctx, `
		SELECT set_name, logs FROM log_sets WHERE well_name = ?
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query log sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var setName, setJSON string
		if err := rows.Scan(&setName, &setJSON); err != nil {
			return nil, fmt.Errorf("failed to scan log set: %w", err)
		}
		var set curves.LogSet
		if err := json.Unmarshal([]byte(setJSON), &set); err != nil {
			return nil, fmt.Errorf("failed to unmarshal log set %q for %q: %w", setName, name, err)
		}
		dst := well.EnsureLogSet(setName)
		for _, logName := range set.Names() {
			if err := set.CopyTo(dst, logName); err != nil {
				return nil, fmt.Errorf("failed to restore log %q: %w", logName, err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate log sets: %w", err)
	}

	return well, nil
}

// DeleteWell removes a well and its log sets.
func (s *SQLiteCaseStore) DeleteWell(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM wells WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete well: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrWellNotFound, name)
	}

	// Log sets cascade via the foreign key
	return nil
}

// ListWells returns the stored well names, sorted.
func (s *SQLiteCaseStore) ListWells(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM wells ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query wells: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan well name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// HasWell reports whether a named well exists.
func (s *SQLiteCaseStore) HasWell(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM wells WHERE name = ?`, name).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check well existence: %w", err)
	}
	return true, nil
}

// Sync exports all wells to the wells.jsonl file and clears dirty flags.
func (s *SQLiteCaseStore) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.exportWellsToJSONL(ctx); err != nil {
		return fmt.Errorf("failed to export wells: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM dirty_wells`); err != nil {
		return fmt.Errorf("failed to clear dirty flags: %w", err)
	}

	return nil
}

// exportWellsToJSONL exports every well to the wells.jsonl file.
func (s *SQLiteCaseStore) exportWellsToJSONL(ctx context.Context) error {
	// Collect names first (close rows before nested queries)
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM wells ORDER BY name`)
	if err != nil {
		return fmt.Errorf("failed to query wells: %w", err)
	}

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan well name: %w", err)
		}
		names = append(names, name)
	}
	rows.Close()

	f, err := os.Create(s.wellsFile)
	if err != nil {
		return fmt.Errorf("failed to create wells file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	for _, name := range names {
		well, err := s.loadWellUnlocked(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to load well %s: %w", name, err)
		}
		if err := encoder.Encode(well); err != nil {
			return fmt.Errorf("failed to encode well: %w", err)
		}
	}

	return nil
}

// Close syncs and closes the store.
func (s *SQLiteCaseStore) Close() error {
	if err := s.Sync(context.Background()); err != nil {
		// Log but don't fail on sync error during close
		fmt.Fprintf(os.Stderr, "warning: failed to sync during close: %v\n", err)
	}
	return s.db.Close()
}
