// Package sqlitemigrate applies embedded SQL migrations exactly once per
// file, tracking applied names in a schema_migrations table.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const trackingTable = "schema_migrations"

// ApplyMigrations runs every .sql file under dir that has not been
// applied yet, in lexical order. Each file runs in one transaction
// together with the row recording it, so a failed migration leaves no
// trace and is retried on the next start. An empty dir reads from the
// root of files.
func ApplyMigrations(sqlDB *sql.DB, files fs.FS, dir string) error {
	if sqlDB == nil {
		return fmt.Errorf("database handle is required")
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}

	names, err := listMigrations(files, dir)
	if err != nil {
		return err
	}

	if err := ensureTrackingTable(sqlDB); err != nil {
		return err
	}

	for _, name := range names {
		key := name
		if dir != "." {
			key = path.Join(dir, name)
		}

		applied, err := isApplied(sqlDB, key)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(files, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := applyOne(sqlDB, key, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

func listMigrations(files fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func ensureTrackingTable(sqlDB *sql.DB) error {
	ddl := "CREATE TABLE IF NOT EXISTS " + trackingTable + " (name TEXT PRIMARY KEY, applied_at INTEGER NOT NULL)"
	if _, err := sqlDB.Exec(ddl); err != nil {
		return fmt.Errorf("create tracking table: %w", err)
	}
	return nil
}

func applyOne(sqlDB *sql.DB, key, content string) error {
	upSQL := upSection(content)
	if strings.TrimSpace(upSQL) == "" {
		return nil
	}

	tx, err := sqlDB.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.Exec(upSQL); err != nil && !isBenignDDLError(err) {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.Exec(
		fmt.Sprintf("INSERT OR IGNORE INTO %s (name, applied_at) VALUES (?, ?)", trackingTable),
		key,
		time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration: %w", err)
	}

	return tx.Commit()
}

// upSection returns the SQL between the -- +migrate Up marker and the
// -- +migrate Down marker. Files without markers run whole.
func upSection(content string) string {
	start := strings.Index(content, "-- +migrate Up")
	if start == -1 {
		return content
	}
	rest := content[start+len("-- +migrate Up"):]
	if stop := strings.Index(rest, "-- +migrate Down"); stop != -1 {
		return rest[:stop]
	}
	return rest
}

// isBenignDDLError reports whether DDL failed only because a previous
// run already applied it outside the tracking table.
func isBenignDDLError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, benign := range []string{"already exists", "duplicate column name"} {
		if strings.Contains(msg, benign) {
			return true
		}
	}
	return false
}

func isApplied(sqlDB *sql.DB, key string) (bool, error) {
	var count int
	row := sqlDB.QueryRow("SELECT COUNT(*) FROM "+trackingTable+" WHERE name = ?", key)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
