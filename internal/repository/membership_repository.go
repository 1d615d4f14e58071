package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/persistence"
)

// MembershipRepository stores group membership spans: stable members, tag
// team partners and management assignments share one table keyed by
// (group, member) with joined/left timestamps.
type MembershipRepository interface {
	Add(ctx context.Context, m *domain.Membership) error
	// CloseOpenPair closes the open membership for one (group, member) pair.
	CloseOpenPair(ctx context.Context, groupType domain.EntityType, groupID string, memberType domain.EntityType, memberID string, leftAt time.Time) (bool, error)
	// CloseAllForGroup closes every open membership under a group.
	CloseAllForGroup(ctx context.Context, groupType domain.EntityType, groupID string, leftAt time.Time) (int64, error)
	// CloseAllForMember closes every open membership a member holds.
	CloseAllForMember(ctx context.Context, memberType domain.EntityType, memberID string, leftAt time.Time) ([]domain.Membership, error)
	ListOpenByGroup(ctx context.Context, groupType domain.EntityType, groupID string) ([]domain.Membership, error)
	ListOpenByMember(ctx context.Context, memberType domain.EntityType, memberID string) ([]domain.Membership, error)
	GetOpenPair(ctx context.Context, groupType domain.EntityType, groupID string, memberType domain.EntityType, memberID string) (*domain.Membership, error)
}

type membershipRepository struct {
	db persistence.Queryer
}

// NewMembershipRepository instantiates repository.
func NewMembershipRepository(db persistence.Queryer) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) q(ctx context.Context) persistence.Queryer {
	return persistence.QueryerFromContext(ctx, r.db)
}

const membershipColumns = `id, group_type, group_id, member_type, member_id, joined_at, left_at, created_at`

func (r *membershipRepository) Add(ctx context.Context, m *domain.Membership) error {
	const query = `
        INSERT INTO memberships (group_type, group_id, member_type, member_id, joined_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.q(ctx).QueryRow(ctx, query,
		m.GroupType,
		m.GroupID,
		m.MemberType,
		m.MemberID,
		m.JoinedAt,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *membershipRepository) CloseOpenPair(ctx context.Context, groupType domain.EntityType, groupID string, memberType domain.EntityType, memberID string, leftAt time.Time) (bool, error) {
	const query = `
        UPDATE memberships SET left_at=$1
        WHERE group_type=$2 AND group_id=$3 AND member_type=$4 AND member_id=$5 AND left_at IS NULL`
	cmd, err := r.q(ctx).Exec(ctx, query, leftAt, groupType, groupID, memberType, memberID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *membershipRepository) CloseAllForGroup(ctx context.Context, groupType domain.EntityType, groupID string, leftAt time.Time) (int64, error) {
	const query = `
        UPDATE memberships SET left_at=$1
        WHERE group_type=$2 AND group_id=$3 AND left_at IS NULL`
	cmd, err := r.q(ctx).Exec(ctx, query, leftAt, groupType, groupID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *membershipRepository) CloseAllForMember(ctx context.Context, memberType domain.EntityType, memberID string, leftAt time.Time) ([]domain.Membership, error) {
	const query = `
        UPDATE memberships SET left_at=$1
        WHERE member_type=$2 AND member_id=$3 AND left_at IS NULL
        RETURNING ` + membershipColumns
	rows, err := r.q(ctx).Query(ctx, query, leftAt, memberType, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemberships(rows)
}

func (r *membershipRepository) ListOpenByGroup(ctx context.Context, groupType domain.EntityType, groupID string) ([]domain.Membership, error) {
	const query = `
        SELECT ` + membershipColumns + `
        FROM memberships
        WHERE group_type=$1 AND group_id=$2 AND left_at IS NULL
        ORDER BY joined_at ASC`
	rows, err := r.q(ctx).Query(ctx, query, groupType, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemberships(rows)
}

func (r *membershipRepository) ListOpenByMember(ctx context.Context, memberType domain.EntityType, memberID string) ([]domain.Membership, error) {
	const query = `
        SELECT ` + membershipColumns + `
        FROM memberships
        WHERE member_type=$1 AND member_id=$2 AND left_at IS NULL
        ORDER BY joined_at ASC`
	rows, err := r.q(ctx).Query(ctx, query, memberType, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemberships(rows)
}

func (r *membershipRepository) GetOpenPair(ctx context.Context, groupType domain.EntityType, groupID string, memberType domain.EntityType, memberID string) (*domain.Membership, error) {
	const query = `
        SELECT ` + membershipColumns + `
        FROM memberships
        WHERE group_type=$1 AND group_id=$2 AND member_type=$3 AND member_id=$4 AND left_at IS NULL`
	var m domain.Membership
	if err := r.q(ctx).QueryRow(ctx, query, groupType, groupID, memberType, memberID).Scan(
		&m.ID,
		&m.GroupType,
		&m.GroupID,
		&m.MemberType,
		&m.MemberID,
		&m.JoinedAt,
		&m.LeftAt,
		&m.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func scanMemberships(rows pgx.Rows) ([]domain.Membership, error) {
	var result []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(
			&m.ID,
			&m.GroupType,
			&m.GroupID,
			&m.MemberType,
			&m.MemberID,
			&m.JoinedAt,
			&m.LeftAt,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
