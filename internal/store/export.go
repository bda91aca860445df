// Package store provides well storage implementations.
package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ambia/UTAPWeLS/internal/model"
)

// ImportWellsFromJSONL imports wells from a JSONL file into the SQLite
// database. Each line holds one well with its earth model and log sets.
func (s *SQLiteCaseStore) ImportWellsFromJSONL(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No file is fine
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// Wells with dense log sets produce long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var well model.Well
		if err := json.Unmarshal([]byte(line), &well); err != nil {
			// Log but continue on parse errors
			fmt.Fprintf(os.Stderr, "warning: failed to parse line %d: %v\n", lineNum, err)
			continue
		}

		if err := s.saveWellUnlocked(ctx, &well); err != nil {
			return fmt.Errorf("failed to import well %s: %w", well.Name, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// GetDirtyWellNames returns the names of wells modified since the last export.
func (s *SQLiteCaseStore) GetDirtyWellNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT well_name FROM dirty_wells`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dirty wells: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, name)
	}

	return names, nil
}

// IsDirty returns true if there are any unsaved changes.
func (s *SQLiteCaseStore) IsDirty(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dirty_wells`).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count dirty wells: %w", err)
	}
	return count > 0, nil
}
