// Package postgres stores documents in a PostgreSQL table and guards every
// conditional write with a revision compare-and-swap.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"resto-catalog/internal/docstore"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		record JSONB NOT NULL,
		revision BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// Store implements docstore.Store on top of a pgx pool.
type Store struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// New creates a postgres-backed document store.
func New(pool *pgxpool.Pool, logger zerolog.Logger) *Store {
	return &Store{
		pool:   pool,
		logger: logger.With().Str("component", "postgres-docstore").Logger(),
	}
}

// EnsureSchema creates the documents table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		s.logger.Error().Err(err).Msg("failed to create documents table")
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// Get returns the document, creating it with the empty seed when absent.
func (s *Store) Get(ctx context.Context, docID string) (*docstore.Document, error) {
	if docID == "" {
		return nil, docstore.ErrNotConfigured
	}

	query := `SELECT record, revision FROM documents WHERE id = $1`

	var raw []byte
	var revision int64
	err := s.pool.QueryRow(ctx, query, docID).Scan(&raw, &revision)
	if err == nil {
		return &docstore.Document{Record: docstore.DecodeRecord(raw), Revision: revision}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error().Err(err).Str("document", docstore.MaskID(docID)).Msg("failed to query document")
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return s.provision(ctx, docID)
}

func (s *Store) provision(ctx context.Context, docID string) (*docstore.Document, error) {
	seed := docstore.SeedRecord()
	body, err := docstore.EncodeRecord(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode seed document: %w", err)
	}

	// A concurrent reader may provision first; read back whatever won.
	query := `
		INSERT INTO documents (id, record, revision)
		VALUES ($1, $2, 1)
		ON CONFLICT (id) DO NOTHING
	`
	tag, err := s.pool.Exec(ctx, query, docID, body)
	if err != nil {
		s.logger.Error().Err(err).Str("document", docstore.MaskID(docID)).Msg("failed to provision document")
		return nil, fmt.Errorf("failed to provision document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.Get(ctx, docID)
	}

	s.logger.Warn().Str("document", docstore.MaskID(docID)).Msg("document not found, provisioned an empty one")
	return &docstore.Document{Record: seed, Revision: 1, Provisioned: true}, nil
}

// Put writes the document. A non-zero doc.Revision must match the stored
// revision, otherwise docstore.ErrRevisionConflict is returned.
func (s *Store) Put(ctx context.Context, docID string, doc *docstore.Document) error {
	if docID == "" {
		return docstore.ErrNotConfigured
	}

	body, err := docstore.EncodeRecord(doc.Record)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if doc.Revision == 0 {
		query := `
			INSERT INTO documents (id, record, revision)
			VALUES ($1, $2, 1)
			ON CONFLICT (id) DO UPDATE
			SET record = EXCLUDED.record, revision = documents.revision + 1, updated_at = NOW()
			RETURNING revision
		`
		if err := s.pool.QueryRow(ctx, query, docID, body).Scan(&doc.Revision); err != nil {
			s.logger.Error().Err(err).Str("document", docstore.MaskID(docID)).Msg("failed to upsert document")
			return fmt.Errorf("failed to upsert document: %w", err)
		}
		return nil
	}

	query := `
		UPDATE documents
		SET record = $2, revision = revision + 1, updated_at = NOW()
		WHERE id = $1 AND revision = $3
		RETURNING revision
	`
	err = s.pool.QueryRow(ctx, query, docID, body, doc.Revision).Scan(&doc.Revision)
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Warn().
			Str("document", docstore.MaskID(docID)).
			Int64("revision", doc.Revision).
			Msg("document revision conflict")
		return docstore.ErrRevisionConflict
	}
	if err != nil {
		s.logger.Error().Err(err).Str("document", docstore.MaskID(docID)).Msg("failed to update document")
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}
