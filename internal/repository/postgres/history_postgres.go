package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studyassist/internal/model"
	"studyassist/internal/repository"
)

// HistoryPostgres is a PostgreSQL implementation of repository.HistoryRepository.
// It uses database/sql with parameterized queries; approximate matching is
// delegated to the pg_trgm extension installed by the migration.
type HistoryPostgres struct {
	db *sql.DB
}

// NewHistoryPostgres creates a new HistoryPostgres repository.
func NewHistoryPostgres(db *sql.DB) *HistoryPostgres {
	return &HistoryPostgres{db: db}
}

var _ repository.HistoryRepository = (*HistoryPostgres)(nil)

// Record inserts a new history row and returns the stored record.
func (r *HistoryPostgres) Record(ctx context.Context, question, answer string) (*model.HistoryRecord, error) {
	const q = `
		INSERT INTO history (id, question, answer, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, question, answer, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		uuid.New().String(),
		question,
		answer,
		time.Now().UTC(),
	)
	var out model.HistoryRecord
	if err := row.Scan(
		&out.ID,
		&out.Question,
		&out.Answer,
		&out.CreatedAt,
	); err != nil {
		return nil, wrapUnavailable("insert history", err)
	}
	return &out, nil
}

// Search returns records whose question or answer is trigram-similar to the
// query, ranked most similar first. The % operator applies pg_trgm's
// similarity threshold so the GIN indexes are used.
func (r *HistoryPostgres) Search(ctx context.Context, query string, limit int) ([]model.HistoryRecord, error) {
	const q = `
		SELECT id, question, answer, created_at
		FROM history
		WHERE question % $1 OR answer % $1
		ORDER BY GREATEST(similarity(question, $1), similarity(answer, $1)) DESC, created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, query, limit)
	if err != nil {
		return nil, wrapUnavailable("search history", err)
	}
	defer rows.Close()

	items := make([]model.HistoryRecord, 0)
	for rows.Next() {
		var rec model.HistoryRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Question,
			&rec.Answer,
			&rec.CreatedAt,
		); err != nil {
			return nil, wrapUnavailable("scan history row", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapUnavailable("iterate history rows", err)
	}

	return items, nil
}

// wrapUnavailable tags driver errors with ErrStorageUnavailable so callers
// can degrade without inspecting driver internals. Context cancellation is
// passed through untouched.
func wrapUnavailable(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, repository.ErrStorageUnavailable, err)
}
