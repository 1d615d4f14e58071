package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/persistence"
)

// VenueRepository encapsulates venue persistence.
type VenueRepository interface {
	Create(ctx context.Context, venue *domain.Venue) error
	Update(ctx context.Context, venue *domain.Venue) error
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
	List(ctx context.Context, search *string, limit, offset int) ([]domain.Venue, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type venueRepository struct {
	db persistence.Queryer
}

// NewVenueRepository instantiates repository.
func NewVenueRepository(db persistence.Queryer) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) q(ctx context.Context) persistence.Queryer {
	return persistence.QueryerFromContext(ctx, r.db)
}

const venueColumns = `id, name, street_address, city, state, zipcode, created_at, updated_at, deleted_at`

func (r *venueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	const query = `
        INSERT INTO venues (name, street_address, city, state, zipcode)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.q(ctx).QueryRow(ctx, query,
		venue.Name,
		venue.StreetAddress,
		venue.City,
		venue.State,
		venue.Zipcode,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)
}

func (r *venueRepository) Update(ctx context.Context, venue *domain.Venue) error {
	const query = `
        UPDATE venues SET name=$1, street_address=$2, city=$3, state=$4, zipcode=$5, updated_at=NOW()
        WHERE id=$6 AND deleted_at IS NULL`
	cmd, err := r.q(ctx).Exec(ctx, query,
		venue.Name,
		venue.StreetAddress,
		venue.City,
		venue.State,
		venue.Zipcode,
		venue.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *venueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id=$1`
	var venue domain.Venue
	if err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&venue.ID,
		&venue.Name,
		&venue.StreetAddress,
		&venue.City,
		&venue.State,
		&venue.Zipcode,
		&venue.CreatedAt,
		&venue.UpdatedAt,
		&venue.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) List(ctx context.Context, search *string, limit, offset int) ([]domain.Venue, error) {
	clauses := []string{"deleted_at IS NULL"}
	args := []any{}
	if search != nil && strings.TrimSpace(*search) != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(*search)) + "%"
		args = append(args, term)
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(city) LIKE $%d)", len(args), len(args)))
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM venues WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d`,
		venueColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Venue
	for rows.Next() {
		var venue domain.Venue
		if err := rows.Scan(
			&venue.ID,
			&venue.Name,
			&venue.StreetAddress,
			&venue.City,
			&venue.State,
			&venue.Zipcode,
			&venue.CreatedAt,
			&venue.UpdatedAt,
			&venue.DeletedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, venue)
	}
	return result, rows.Err()
}

func (r *venueRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE venues SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.q(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *venueRepository) Restore(ctx context.Context, id string) error {
	const query = `UPDATE venues SET deleted_at=NULL, updated_at=NOW() WHERE id=$1 AND deleted_at IS NOT NULL`
	cmd, err := r.q(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
