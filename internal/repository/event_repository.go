package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/persistence"
)

// EventRepository encapsulates events and their match cards.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, search *string, limit, offset int) ([]domain.Event, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error

	AddMatch(ctx context.Context, match *domain.Match) error
	UpdateMatchResult(ctx context.Context, matchID, result string) error
	ListMatches(ctx context.Context, eventID string) ([]domain.Match, error)
}

type eventRepository struct {
	db persistence.Queryer
}

// NewEventRepository instantiates repository.
func NewEventRepository(db persistence.Queryer) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) q(ctx context.Context) persistence.Queryer {
	return persistence.QueryerFromContext(ctx, r.db)
}

const eventColumns = `id, name, date, venue_id, preview, created_at, updated_at, deleted_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (name, date, venue_id, preview)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.q(ctx).QueryRow(ctx, query,
		event.Name,
		event.Date,
		event.VenueID,
		event.Preview,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET name=$1, date=$2, venue_id=$3, preview=$4, updated_at=NOW()
        WHERE id=$5 AND deleted_at IS NULL`
	cmd, err := r.q(ctx).Exec(ctx, query,
		event.Name,
		event.Date,
		event.VenueID,
		event.Preview,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id=$1`
	var event domain.Event
	if err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.Date,
		&event.VenueID,
		&event.Preview,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, search *string, limit, offset int) ([]domain.Event, error) {
	clauses := []string{"deleted_at IS NULL"}
	args := []any{}
	if search != nil && strings.TrimSpace(*search) != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(*search)) + "%"
		args = append(args, term)
		clauses = append(clauses, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY date DESC NULLS LAST LIMIT %d OFFSET %d`,
		eventColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Date,
			&event.VenueID,
			&event.Preview,
			&event.CreatedAt,
			&event.UpdatedAt,
			&event.DeletedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *eventRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE events SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.q(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) Restore(ctx context.Context, id string) error {
	const query = `UPDATE events SET deleted_at=NULL, updated_at=NOW() WHERE id=$1 AND deleted_at IS NOT NULL`
	cmd, err := r.q(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) AddMatch(ctx context.Context, match *domain.Match) error {
	const insertMatch = `
        INSERT INTO matches (event_id, match_number, match_type, result)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	if err := r.q(ctx).QueryRow(ctx, insertMatch,
		match.EventID,
		match.MatchNumber,
		match.MatchType,
		match.Result,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt); err != nil {
		return err
	}

	const insertCompetitor = `
        INSERT INTO match_competitors (match_id, side, competitor_type, competitor_id)
        VALUES ($1,$2,$3,$4)`
	for _, c := range match.Competitors {
		if _, err := r.q(ctx).Exec(ctx, insertCompetitor, match.ID, c.Side, c.CompetitorType, c.CompetitorID); err != nil {
			return err
		}
	}

	const insertReferee = `INSERT INTO match_referees (match_id, referee_id) VALUES ($1,$2)`
	for _, refID := range match.RefereeIDs {
		if _, err := r.q(ctx).Exec(ctx, insertReferee, match.ID, refID); err != nil {
			return err
		}
	}

	const insertTitle = `INSERT INTO match_titles (match_id, title_id) VALUES ($1,$2)`
	for _, titleID := range match.TitleIDs {
		if _, err := r.q(ctx).Exec(ctx, insertTitle, match.ID, titleID); err != nil {
			return err
		}
	}
	return nil
}

func (r *eventRepository) UpdateMatchResult(ctx context.Context, matchID, result string) error {
	const query = `UPDATE matches SET result=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.q(ctx).Exec(ctx, query, result, matchID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) ListMatches(ctx context.Context, eventID string) ([]domain.Match, error) {
	const query = `
        SELECT id, event_id, match_number, match_type, result, created_at, updated_at
        FROM matches WHERE event_id=$1 ORDER BY match_number ASC`
	rows, err := r.q(ctx).Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ID, &m.EventID, &m.MatchNumber, &m.MatchType, &m.Result, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range matches {
		if err := r.loadMatchRelations(ctx, &matches[i]); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func (r *eventRepository) loadMatchRelations(ctx context.Context, match *domain.Match) error {
	const competitorQuery = `
        SELECT side, competitor_type, competitor_id
        FROM match_competitors WHERE match_id=$1 ORDER BY side ASC`
	rows, err := r.q(ctx).Query(ctx, competitorQuery, match.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.MatchCompetitor
		if err := rows.Scan(&c.Side, &c.CompetitorType, &c.CompetitorID); err != nil {
			return err
		}
		match.Competitors = append(match.Competitors, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const refereeQuery = `SELECT referee_id FROM match_referees WHERE match_id=$1`
	refRows, err := r.q(ctx).Query(ctx, refereeQuery, match.ID)
	if err != nil {
		return err
	}
	defer refRows.Close()
	for refRows.Next() {
		var id string
		if err := refRows.Scan(&id); err != nil {
			return err
		}
		match.RefereeIDs = append(match.RefereeIDs, id)
	}
	if err := refRows.Err(); err != nil {
		return err
	}

	const titleQuery = `SELECT title_id FROM match_titles WHERE match_id=$1`
	titleRows, err := r.q(ctx).Query(ctx, titleQuery, match.ID)
	if err != nil {
		return err
	}
	defer titleRows.Close()
	for titleRows.Next() {
		var id string
		if err := titleRows.Scan(&id); err != nil {
			return err
		}
		match.TitleIDs = append(match.TitleIDs, id)
	}
	return titleRows.Err()
}
