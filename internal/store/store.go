// Package store provides storage backends for the consultation archive.
//
// The chat core itself is stateless; the archive is a write-mostly sink for
// finalized intake records plus a small listing surface for the clinic team.
// SQLite and PostgreSQL backends are provided, selected by DSN shape, along
// with an in-memory store for tests.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/consultflow/consultflow/internal/models"
)

// Store is the persistence interface for finalized consultation records.
type Store interface {
	// SaveConsultation persists one record. IDs are unique; saving the same
	// ID twice is an error.
	SaveConsultation(ctx context.Context, rec models.ConsultationRecord) error
	// ListConsultations returns up to limit records, newest first. A
	// non-positive limit returns all records.
	ListConsultations(ctx context.Context, limit int) ([]models.ConsultationRecord, error)
	// Close releases the underlying resources.
	Close() error
}

// Opts holds configuration options for creating a store.
type Opts struct {
	DSN string
}

// Option defines a configuration option for store creation.
type Option func(*Opts)

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType reports "postgres" for PostgreSQL-style DSNs and "sqlite"
// for everything else (treated as a file path).
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// NewStore creates a backend matching the DSN type.
func NewStore(opts ...Option) (Store, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if DetectDSNType(cfg.DSN) == "postgres" {
		return NewPostgresStore(opts...)
	}
	return NewSQLiteStore(opts...)
}

// InMemoryStore is a map-backed Store for tests and ephemeral deployments.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]models.ConsultationRecord
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]models.ConsultationRecord)}
}

// SaveConsultation implements Store.
func (s *InMemoryStore) SaveConsultation(_ context.Context, rec models.ConsultationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.ID]; exists {
		return ErrDuplicateRecord
	}
	s.records[rec.ID] = rec
	return nil
}

// ListConsultations implements Store.
func (s *InMemoryStore) ListConsultations(_ context.Context, limit int) ([]models.ConsultationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ConsultationRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close implements Store.
func (s *InMemoryStore) Close() error {
	return nil
}
