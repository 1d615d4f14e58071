package repository

import (
	"context"
	"time"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/persistence"
)

// AuditEntry records one committed lifecycle transition.
type AuditEntry struct {
	ID         string
	EntityType domain.EntityType
	EntityID   string
	Transition string
	OldStatus  string
	NewStatus  string
	ActorID    *string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// AuditRepository persists the transition audit trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *AuditEntry) error
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string, limit, offset int) ([]AuditEntry, error)
}

type auditRepository struct {
	db persistence.Queryer
}

// NewAuditRepository instantiates repository.
func NewAuditRepository(db persistence.Queryer) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) q(ctx context.Context) persistence.Queryer {
	return persistence.QueryerFromContext(ctx, r.db)
}

func (r *auditRepository) Create(ctx context.Context, entry *AuditEntry) error {
	const query = `
        INSERT INTO transition_audit (entity_type, entity_id, transition, old_status, new_status, actor_id, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.q(ctx).QueryRow(ctx, query,
		entry.EntityType,
		entry.EntityID,
		entry.Transition,
		entry.OldStatus,
		entry.NewStatus,
		entry.ActorID,
		entry.OccurredAt,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string, limit, offset int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, entity_type, entity_id, transition, old_status, new_status, actor_id, occurred_at, created_at
        FROM transition_audit
        WHERE entity_type=$1 AND entity_id=$2
        ORDER BY occurred_at DESC
        LIMIT $3 OFFSET $4`
	rows, err := r.q(ctx).Query(ctx, query, entityType, entityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Transition,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.ActorID,
			&entry.OccurredAt,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
