// This file implements the SQLite-backed consultation archive.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/consultflow/consultflow/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

// ErrDuplicateRecord indicates a record ID was saved twice.
var ErrDuplicateRecord = errors.New("store: duplicate record ID")

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore is the SQLite-backed consultation archive.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store. The DSN is a file path to the
// database file; its directory is created if missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(cfg.DSN)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("SQLiteStore: failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		slog.Error("SQLiteStore: failed to open connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLiteStore: ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("SQLiteStore: failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLiteStore: ready", "path", cfg.DSN)
	return &SQLiteStore{db: db}, nil
}

// SaveConsultation implements Store.
func (s *SQLiteStore) SaveConsultation(ctx context.Context, rec models.ConsultationRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO consultations (id, language, form_json, received_at) VALUES (?, ?, ?, ?)`,
		rec.ID, string(rec.Language), rec.FormJSON, rec.ReceivedAt)
	if err != nil {
		slog.Error("SQLiteStore.SaveConsultation failed", "error", err, "recordID", rec.ID)
		return fmt.Errorf("failed to insert consultation %s: %w", rec.ID, err)
	}
	slog.Debug("SQLiteStore.SaveConsultation succeeded", "recordID", rec.ID)
	return nil
}

// ListConsultations implements Store.
func (s *SQLiteStore) ListConsultations(ctx context.Context, limit int) ([]models.ConsultationRecord, error) {
	query := `SELECT id, language, form_json, received_at FROM consultations ORDER BY received_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("SQLiteStore.ListConsultations query failed", "error", err)
		return nil, fmt.Errorf("failed to query consultations: %w", err)
	}
	defer rows.Close()

	var records []models.ConsultationRecord
	for rows.Next() {
		var rec models.ConsultationRecord
		var lang string
		if err := rows.Scan(&rec.ID, &lang, &rec.FormJSON, &rec.ReceivedAt); err != nil {
			slog.Error("SQLiteStore.ListConsultations scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan consultation row: %w", err)
		}
		rec.Language = models.Lang(lang)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore.ListConsultations rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate consultation rows: %w", err)
	}
	return records, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
