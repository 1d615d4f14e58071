package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/persistence"
)

// ActivatableFilter captures list query parameters for titles and stables.
type ActivatableFilter struct {
	Statuses       []domain.ActivationStatus
	SearchTerm     *string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// TitleRepository encapsulates title persistence.
type TitleRepository interface {
	Create(ctx context.Context, title *domain.Title) error
	Update(ctx context.Context, title *domain.Title) error
	UpdateStatus(ctx context.Context, id string, status domain.ActivationStatus) error
	GetByID(ctx context.Context, id string) (*domain.Title, error)
	ListWithFilter(ctx context.Context, filter ActivatableFilter) ([]domain.Title, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

// StableRepository encapsulates stable persistence.
type StableRepository interface {
	Create(ctx context.Context, stable *domain.Stable) error
	Update(ctx context.Context, stable *domain.Stable) error
	UpdateStatus(ctx context.Context, id string, status domain.ActivationStatus) error
	GetByID(ctx context.Context, id string) (*domain.Stable, error)
	ListWithFilter(ctx context.Context, filter ActivatableFilter) ([]domain.Stable, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

// Titles and stables share the same table shape (id, name, status,
// timestamps), so both repositories delegate to a common row store keyed by
// table name.

type titleRepository struct{ store activatableStore }

type stableRepository struct{ store activatableStore }

// NewTitleRepository instantiates repository.
func NewTitleRepository(db persistence.Queryer) TitleRepository {
	return &titleRepository{store: activatableStore{db: db, table: "titles"}}
}

// NewStableRepository instantiates repository.
func NewStableRepository(db persistence.Queryer) StableRepository {
	return &stableRepository{store: activatableStore{db: db, table: "stables"}}
}

func (r *titleRepository) Create(ctx context.Context, title *domain.Title) error {
	return r.store.create(ctx, title.Name, title.Status, &title.ID, &title.CreatedAt, &title.UpdatedAt)
}

func (r *titleRepository) Update(ctx context.Context, title *domain.Title) error {
	return r.store.update(ctx, title.ID, title.Name, title.Status)
}

func (r *titleRepository) UpdateStatus(ctx context.Context, id string, status domain.ActivationStatus) error {
	return r.store.updateStatus(ctx, id, status)
}

func (r *titleRepository) GetByID(ctx context.Context, id string) (*domain.Title, error) {
	var title domain.Title
	if err := r.store.get(ctx, id, &title.ID, &title.Name, &title.Status, &title.CreatedAt, &title.UpdatedAt, &title.DeletedAt); err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) ListWithFilter(ctx context.Context, filter ActivatableFilter) ([]domain.Title, error) {
	rows, err := r.store.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Title
	for rows.Next() {
		var title domain.Title
		if err := rows.Scan(&title.ID, &title.Name, &title.Status, &title.CreatedAt, &title.UpdatedAt, &title.DeletedAt); err != nil {
			return nil, err
		}
		result = append(result, title)
	}
	return result, rows.Err()
}

func (r *titleRepository) SoftDelete(ctx context.Context, id string) error {
	return r.store.softDelete(ctx, id)
}

func (r *titleRepository) Restore(ctx context.Context, id string) error {
	return r.store.restore(ctx, id)
}

func (r *stableRepository) Create(ctx context.Context, stable *domain.Stable) error {
	return r.store.create(ctx, stable.Name, stable.Status, &stable.ID, &stable.CreatedAt, &stable.UpdatedAt)
}

func (r *stableRepository) Update(ctx context.Context, stable *domain.Stable) error {
	return r.store.update(ctx, stable.ID, stable.Name, stable.Status)
}

func (r *stableRepository) UpdateStatus(ctx context.Context, id string, status domain.ActivationStatus) error {
	return r.store.updateStatus(ctx, id, status)
}

func (r *stableRepository) GetByID(ctx context.Context, id string) (*domain.Stable, error) {
	var stable domain.Stable
	if err := r.store.get(ctx, id, &stable.ID, &stable.Name, &stable.Status, &stable.CreatedAt, &stable.UpdatedAt, &stable.DeletedAt); err != nil {
		return nil, err
	}
	return &stable, nil
}

func (r *stableRepository) ListWithFilter(ctx context.Context, filter ActivatableFilter) ([]domain.Stable, error) {
	rows, err := r.store.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Stable
	for rows.Next() {
		var stable domain.Stable
		if err := rows.Scan(&stable.ID, &stable.Name, &stable.Status, &stable.CreatedAt, &stable.UpdatedAt, &stable.DeletedAt); err != nil {
			return nil, err
		}
		result = append(result, stable)
	}
	return result, rows.Err()
}

func (r *stableRepository) SoftDelete(ctx context.Context, id string) error {
	return r.store.softDelete(ctx, id)
}

func (r *stableRepository) Restore(ctx context.Context, id string) error {
	return r.store.restore(ctx, id)
}

type activatableStore struct {
	db    persistence.Queryer
	table string
}

func (s activatableStore) q(ctx context.Context) persistence.Queryer {
	return persistence.QueryerFromContext(ctx, s.db)
}

func (s activatableStore) create(ctx context.Context, name string, status domain.ActivationStatus, dest ...any) error {
	query := fmt.Sprintf(`INSERT INTO %s (name, status) VALUES ($1,$2) RETURNING id, created_at, updated_at`, s.table)
	return s.q(ctx).QueryRow(ctx, query, name, status).Scan(dest...)
}

func (s activatableStore) update(ctx context.Context, id, name string, status domain.ActivationStatus) error {
	query := fmt.Sprintf(`UPDATE %s SET name=$1, status=$2, updated_at=NOW() WHERE id=$3 AND deleted_at IS NULL`, s.table)
	cmd, err := s.q(ctx).Exec(ctx, query, name, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s activatableStore) updateStatus(ctx context.Context, id string, status domain.ActivationStatus) error {
	query := fmt.Sprintf(`UPDATE %s SET status=$1, updated_at=NOW() WHERE id=$2`, s.table)
	cmd, err := s.q(ctx).Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s activatableStore) get(ctx context.Context, id string, dest ...any) error {
	query := fmt.Sprintf(`SELECT id, name, status, created_at, updated_at, deleted_at FROM %s WHERE id=$1`, s.table)
	return s.q(ctx).QueryRow(ctx, query, id).Scan(dest...)
}

func (s activatableStore) list(ctx context.Context, filter ActivatableFilter) (pgx.Rows, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if !filter.IncludeDeleted {
		clauses = append(clauses, "deleted_at IS NULL")
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
		clauses = append(clauses, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT id, name, status, created_at, updated_at, deleted_at FROM %s WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d`,
		s.table, strings.Join(clauses, " AND "), limit, offset)
	return s.q(ctx).Query(ctx, query, args...)
}

func (s activatableStore) softDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL`, s.table)
	cmd, err := s.q(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s activatableStore) restore(ctx context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted_at=NULL, updated_at=NOW() WHERE id=$1 AND deleted_at IS NOT NULL`, s.table)
	cmd, err := s.q(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
