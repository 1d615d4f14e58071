package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/persistence"
)

// RosterFilter captures list query parameters for roster members.
type RosterFilter struct {
	Kind           *domain.RosterMemberKind
	Statuses       []domain.Status
	SearchTerm     *string
	EmployedFrom   *time.Time
	EmployedTo     *time.Time
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// RosterRepository encapsulates roster member persistence.
type RosterRepository interface {
	Create(ctx context.Context, member *domain.RosterMember) error
	Update(ctx context.Context, member *domain.RosterMember) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	GetByID(ctx context.Context, kind domain.RosterMemberKind, id string) (*domain.RosterMember, error)
	ListWithFilter(ctx context.Context, filter RosterFilter) ([]domain.RosterMember, error)
	SoftDelete(ctx context.Context, kind domain.RosterMemberKind, id string) error
	Restore(ctx context.Context, kind domain.RosterMemberKind, id string) error
}

type rosterRepository struct {
	db persistence.Queryer
}

// NewRosterRepository instantiates repository.
func NewRosterRepository(db persistence.Queryer) RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) q(ctx context.Context) persistence.Queryer {
	return persistence.QueryerFromContext(ctx, r.db)
}

const rosterColumns = `id, kind, name, hometown, height_cm, weight_lbs, signature_move, status, created_at, updated_at, deleted_at`

func (r *rosterRepository) Create(ctx context.Context, member *domain.RosterMember) error {
	const query = `
        INSERT INTO roster_members (kind, name, hometown, height_cm, weight_lbs, signature_move, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.q(ctx).QueryRow(ctx, query,
		member.Kind,
		member.Name,
		member.Hometown,
		member.HeightCm,
		member.WeightLbs,
		member.SignatureMove,
		member.Status,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

func (r *rosterRepository) Update(ctx context.Context, member *domain.RosterMember) error {
	const query = `
        UPDATE roster_members SET name=$1, hometown=$2, height_cm=$3, weight_lbs=$4,
            signature_move=$5, status=$6, updated_at=NOW()
        WHERE id=$7 AND kind=$8 AND deleted_at IS NULL`
	cmd, err := r.q(ctx).Exec(ctx, query,
		member.Name,
		member.Hometown,
		member.HeightCm,
		member.WeightLbs,
		member.SignatureMove,
		member.Status,
		member.ID,
		member.Kind,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *rosterRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	const query = `UPDATE roster_members SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.q(ctx).Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *rosterRepository) GetByID(ctx context.Context, kind domain.RosterMemberKind, id string) (*domain.RosterMember, error) {
	query := `SELECT ` + rosterColumns + ` FROM roster_members WHERE id=$1 AND kind=$2`
	var member domain.RosterMember
	if err := r.q(ctx).QueryRow(ctx, query, id, kind).Scan(
		&member.ID,
		&member.Kind,
		&member.Name,
		&member.Hometown,
		&member.HeightCm,
		&member.WeightLbs,
		&member.SignatureMove,
		&member.Status,
		&member.CreatedAt,
		&member.UpdatedAt,
		&member.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *rosterRepository) ListWithFilter(ctx context.Context, filter RosterFilter) ([]domain.RosterMember, error) {
	base := `SELECT ` + rosterColumns + ` FROM roster_members`
	clauses := []string{"1=1"}
	args := []any{}

	if !filter.IncludeDeleted {
		clauses = append(clauses, "deleted_at IS NULL")
	}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		clauses = append(clauses, fmt.Sprintf("kind=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(hometown) LIKE $%d)", len(args), len(args)))
	}
	if filter.EmployedFrom != nil || filter.EmployedTo != nil {
		sub := `EXISTS (SELECT 1 FROM status_spans s WHERE s.entity_id = roster_members.id
            AND s.entity_type = roster_members.kind AND s.kind = 'EMPLOYMENT'`
		if filter.EmployedFrom != nil {
			args = append(args, *filter.EmployedFrom)
			sub += fmt.Sprintf(" AND (s.ended_at IS NULL OR s.ended_at >= $%d)", len(args))
		}
		if filter.EmployedTo != nil {
			args = append(args, *filter.EmployedTo)
			sub += fmt.Sprintf(" AND s.started_at <= $%d", len(args))
		}
		clauses = append(clauses, sub+")")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRosterMembers(rows)
}

func (r *rosterRepository) SoftDelete(ctx context.Context, kind domain.RosterMemberKind, id string) error {
	const query = `UPDATE roster_members SET deleted_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND kind=$2 AND deleted_at IS NULL`
	cmd, err := r.q(ctx).Exec(ctx, query, id, kind)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *rosterRepository) Restore(ctx context.Context, kind domain.RosterMemberKind, id string) error {
	const query = `UPDATE roster_members SET deleted_at=NULL, updated_at=NOW()
        WHERE id=$1 AND kind=$2 AND deleted_at IS NOT NULL`
	cmd, err := r.q(ctx).Exec(ctx, query, id, kind)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanRosterMembers(rows pgx.Rows) ([]domain.RosterMember, error) {
	var result []domain.RosterMember
	for rows.Next() {
		var member domain.RosterMember
		if err := rows.Scan(
			&member.ID,
			&member.Kind,
			&member.Name,
			&member.Hometown,
			&member.HeightCm,
			&member.WeightLbs,
			&member.SignatureMove,
			&member.Status,
			&member.CreatedAt,
			&member.UpdatedAt,
			&member.DeletedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}
