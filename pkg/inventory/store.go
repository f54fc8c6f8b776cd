/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

package inventory

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/version"
)

const schema = `
CREATE TABLE IF NOT EXISTS known_plugins (
    name         TEXT PRIMARY KEY,
    version      TEXT    NOT NULL,
    active       INTEGER NOT NULL DEFAULT 0,
    installed_at INTEGER
);
`

// Store persists known plugins in SQLite.
type Store struct {
	db *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens or creates a SQLite inventory at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite db")
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "failed to ping sqlite db")
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "failed to apply schema")
	}

	return &Store{db: db}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// Upsert inserts a plugin or replaces the stored row with the same name.
func (s *Store) Upsert(ctx context.Context, p requirement.KnownPlugin) error {
	return upsert(ctx, s.db, p)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, p requirement.KnownPlugin) error {
	if err := validatePlugin(p); err != nil {
		return err
	}

	var installedAt sql.NullInt64
	if p.InstalledAt != nil {
		installedAt = sql.NullInt64{Int64: toMillis(*p.InstalledAt), Valid: true}
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO known_plugins (name, version, active, installed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   version = excluded.version,
		   active = excluded.active,
		   installed_at = excluded.installed_at`,
		p.Name, p.Version.String(), p.Active, installedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to upsert plugin %s", p.Name)
	}

	return nil
}

// Get returns one plugin by name, or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (requirement.KnownPlugin, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, version, active, installed_at FROM known_plugins WHERE name = ?`, name)

	p, err := scanPlugin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return requirement.KnownPlugin{}, errors.Wrapf(ErrNotFound, "plugin %s", name)
	}

	if err != nil {
		return requirement.KnownPlugin{}, errors.Wrapf(err, "failed to get plugin %s", name)
	}

	return p, nil
}

// Delete removes a plugin. Deleting an unknown plugin returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM known_plugins WHERE name = ?`, name)
	if err != nil {
		return errors.Wrapf(err, "failed to delete plugin %s", name)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}

	if n == 0 {
		return errors.Wrapf(ErrNotFound, "plugin %s", name)
	}

	return nil
}

// List returns all plugins ordered by name.
func (s *Store) List(ctx context.Context) ([]requirement.KnownPlugin, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, version, active, installed_at FROM known_plugins ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list plugins")
	}
	defer rows.Close()

	var plugins []requirement.KnownPlugin

	for rows.Next() {
		p, err := scanPlugin(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan plugin")
		}

		plugins = append(plugins, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate plugins")
	}

	return plugins, nil
}

// Snapshot implements Source.
func (s *Store) Snapshot(ctx context.Context) (requirement.MapFinder, error) {
	plugins, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	return requirement.NewMapFinder(plugins...), nil
}

// Import upserts all plugins in a single transaction.
func (s *Store) Import(ctx context.Context, plugins []requirement.KnownPlugin) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin import")
	}

	for _, p := range plugins {
		if err := upsert(ctx, tx, p); err != nil {
			_ = tx.Rollback()

			return err
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit import")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlugin(row scanner) (requirement.KnownPlugin, error) {
	var (
		name        string
		rawVersion  string
		active      bool
		installedAt sql.NullInt64
	)

	if err := row.Scan(&name, &rawVersion, &active, &installedAt); err != nil {
		return requirement.KnownPlugin{}, err
	}

	ver, err := version.Parse(rawVersion)
	if err != nil {
		return requirement.KnownPlugin{}, errors.Wrapf(err, "stored plugin %s", name)
	}

	p := requirement.KnownPlugin{
		Name:    name,
		Version: ver,
		Active:  active,
	}

	if installedAt.Valid {
		ts := fromMillis(installedAt.Int64)
		p.InstalledAt = &ts
	}

	return p, nil
}
