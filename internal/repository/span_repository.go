package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/persistence"
)

// SpanRepository encapsulates the temporal span store. Spans are append-only:
// rows are inserted open and the only update paths are closing the open span
// and rewriting the start of a not-yet-started one.
type SpanRepository interface {
	Open(ctx context.Context, span *domain.Span) error
	// CloseOpen sets ended_at on the open span of the given kind, if any.
	// Returns true when a span was closed.
	CloseOpen(ctx context.Context, entityType domain.EntityType, entityID string, kind domain.SpanKind, endedAt time.Time) (bool, error)
	// RescheduleOpen rewrites started_at of the open span. Only valid for a
	// span that has not taken effect yet (future-dated employment).
	RescheduleOpen(ctx context.Context, entityType domain.EntityType, entityID string, kind domain.SpanKind, startedAt time.Time) (bool, error)
	GetOpen(ctx context.Context, entityType domain.EntityType, entityID string, kind domain.SpanKind) (*domain.Span, error)
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.Span, error)
}

type spanRepository struct {
	db persistence.Queryer
}

// NewSpanRepository instantiates repository.
func NewSpanRepository(db persistence.Queryer) SpanRepository {
	return &spanRepository{db: db}
}

func (r *spanRepository) q(ctx context.Context) persistence.Queryer {
	return persistence.QueryerFromContext(ctx, r.db)
}

func (r *spanRepository) Open(ctx context.Context, span *domain.Span) error {
	const query = `
        INSERT INTO status_spans (entity_type, entity_id, kind, started_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.q(ctx).QueryRow(ctx, query,
		span.EntityType,
		span.EntityID,
		span.Kind,
		span.StartedAt,
	).Scan(&span.ID, &span.CreatedAt)
}

func (r *spanRepository) CloseOpen(ctx context.Context, entityType domain.EntityType, entityID string, kind domain.SpanKind, endedAt time.Time) (bool, error) {
	const query = `
        UPDATE status_spans SET ended_at=$1
        WHERE entity_type=$2 AND entity_id=$3 AND kind=$4 AND ended_at IS NULL`
	cmd, err := r.q(ctx).Exec(ctx, query, endedAt, entityType, entityID, kind)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *spanRepository) RescheduleOpen(ctx context.Context, entityType domain.EntityType, entityID string, kind domain.SpanKind, startedAt time.Time) (bool, error) {
	const query = `
        UPDATE status_spans SET started_at=$1
        WHERE entity_type=$2 AND entity_id=$3 AND kind=$4 AND ended_at IS NULL`
	cmd, err := r.q(ctx).Exec(ctx, query, startedAt, entityType, entityID, kind)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *spanRepository) GetOpen(ctx context.Context, entityType domain.EntityType, entityID string, kind domain.SpanKind) (*domain.Span, error) {
	const query = `
        SELECT id, entity_type, entity_id, kind, started_at, ended_at, created_at
        FROM status_spans
        WHERE entity_type=$1 AND entity_id=$2 AND kind=$3 AND ended_at IS NULL
        ORDER BY started_at DESC LIMIT 1`
	var span domain.Span
	if err := r.q(ctx).QueryRow(ctx, query, entityType, entityID, kind).Scan(
		&span.ID,
		&span.EntityType,
		&span.EntityID,
		&span.Kind,
		&span.StartedAt,
		&span.EndedAt,
		&span.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &span, nil
}

func (r *spanRepository) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.Span, error) {
	const query = `
        SELECT id, entity_type, entity_id, kind, started_at, ended_at, created_at
        FROM status_spans
        WHERE entity_type=$1 AND entity_id=$2
        ORDER BY started_at DESC`
	rows, err := r.q(ctx).Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Span
	for rows.Next() {
		var span domain.Span
		if err := rows.Scan(
			&span.ID,
			&span.EntityType,
			&span.EntityID,
			&span.Kind,
			&span.StartedAt,
			&span.EndedAt,
			&span.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, span)
	}
	return result, rows.Err()
}
