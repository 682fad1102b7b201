// This file implements the PostgreSQL-backed consultation archive.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/consultflow/consultflow/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants.
const (
	// DefaultMaxOpenConns is the maximum number of open connections to the database.
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool.
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore is the PostgreSQL-backed consultation archive.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("PostgresStore: failed to open connection", "error", err)
		return nil, err
	}
	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("PostgresStore: ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("PostgresStore: failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("PostgresStore: ready")
	return &PostgresStore{db: db}, nil
}

// SaveConsultation implements Store.
func (s *PostgresStore) SaveConsultation(ctx context.Context, rec models.ConsultationRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO consultations (id, language, form_json, received_at) VALUES ($1, $2, $3, $4)`,
		rec.ID, string(rec.Language), rec.FormJSON, rec.ReceivedAt)
	if err != nil {
		slog.Error("PostgresStore.SaveConsultation failed", "error", err, "recordID", rec.ID)
		return fmt.Errorf("failed to insert consultation %s: %w", rec.ID, err)
	}
	slog.Debug("PostgresStore.SaveConsultation succeeded", "recordID", rec.ID)
	return nil
}

// ListConsultations implements Store.
func (s *PostgresStore) ListConsultations(ctx context.Context, limit int) ([]models.ConsultationRecord, error) {
	query := `SELECT id, language, form_json, received_at FROM consultations ORDER BY received_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("PostgresStore.ListConsultations query failed", "error", err)
		return nil, fmt.Errorf("failed to query consultations: %w", err)
	}
	defer rows.Close()

	var records []models.ConsultationRecord
	for rows.Next() {
		var rec models.ConsultationRecord
		var lang string
		if err := rows.Scan(&rec.ID, &lang, &rec.FormJSON, &rec.ReceivedAt); err != nil {
			slog.Error("PostgresStore.ListConsultations scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan consultation row: %w", err)
		}
		rec.Language = models.Lang(lang)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore.ListConsultations rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate consultation rows: %w", err)
	}
	return records, nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
