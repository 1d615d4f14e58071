package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/ringside/roster-service/internal/domain"
)

func newSpanMock(t *testing.T) (pgxmock.PgxPoolIface, SpanRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewSpanRepository(mock)
}

func TestSpanRepository_Open(t *testing.T) {
	t.Parallel()

	mock, repo := newSpanMock(t)
	started := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	query := regexp.QuoteMeta(`
        INSERT INTO status_spans (entity_type, entity_id, kind, started_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`)

	mock.ExpectQuery(query).
		WithArgs(domain.EntityWrestler, "w-1", domain.SpanEmployment, started).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("span-1", started))

	span := &domain.Span{
		EntityType: domain.EntityWrestler,
		EntityID:   "w-1",
		Kind:       domain.SpanEmployment,
		StartedAt:  started,
	}
	if err := repo.Open(context.Background(), span); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if span.ID != "span-1" {
		t.Fatalf("expected generated id, got %q", span.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSpanRepository_CloseOpen(t *testing.T) {
	t.Parallel()

	mock, repo := newSpanMock(t)
	ended := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	query := regexp.QuoteMeta(`
        UPDATE status_spans SET ended_at=$1
        WHERE entity_type=$2 AND entity_id=$3 AND kind=$4 AND ended_at IS NULL`)

	mock.ExpectExec(query).
		WithArgs(ended, domain.EntityWrestler, "w-1", domain.SpanSuspension).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	closed, err := repo.CloseOpen(context.Background(), domain.EntityWrestler, "w-1", domain.SpanSuspension, ended)
	if err != nil {
		t.Fatalf("CloseOpen returned error: %v", err)
	}
	if !closed {
		t.Fatal("expected closed=true when a row was updated")
	}

	// No open span of that kind means nothing to close.
	mock.ExpectExec(query).
		WithArgs(ended, domain.EntityWrestler, "w-1", domain.SpanInjury).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	closed, err = repo.CloseOpen(context.Background(), domain.EntityWrestler, "w-1", domain.SpanInjury, ended)
	if err != nil {
		t.Fatalf("CloseOpen returned error: %v", err)
	}
	if closed {
		t.Fatal("expected closed=false when no row matched")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSpanRepository_RescheduleOpen(t *testing.T) {
	t.Parallel()

	mock, repo := newSpanMock(t)
	started := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	query := regexp.QuoteMeta(`
        UPDATE status_spans SET started_at=$1
        WHERE entity_type=$2 AND entity_id=$3 AND kind=$4 AND ended_at IS NULL`)

	mock.ExpectExec(query).
		WithArgs(started, domain.EntityWrestler, "w-1", domain.SpanEmployment).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	moved, err := repo.RescheduleOpen(context.Background(), domain.EntityWrestler, "w-1", domain.SpanEmployment, started)
	if err != nil {
		t.Fatalf("RescheduleOpen returned error: %v", err)
	}
	if !moved {
		t.Fatal("expected moved=true when a row was updated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSpanRepository_GetOpen_NoRows(t *testing.T) {
	t.Parallel()

	mock, repo := newSpanMock(t)

	query := regexp.QuoteMeta(`
        SELECT id, entity_type, entity_id, kind, started_at, ended_at, created_at
        FROM status_spans
        WHERE entity_type=$1 AND entity_id=$2 AND kind=$3 AND ended_at IS NULL
        ORDER BY started_at DESC LIMIT 1`)

	mock.ExpectQuery(query).
		WithArgs(domain.EntityTitle, "t-1", domain.SpanActivation).
		WillReturnError(pgx.ErrNoRows)

	span, err := repo.GetOpen(context.Background(), domain.EntityTitle, "t-1", domain.SpanActivation)
	if err != nil {
		t.Fatalf("GetOpen returned error: %v", err)
	}
	if span != nil {
		t.Fatalf("expected nil span when none is open, got %+v", span)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSpanRepository_ListByEntity(t *testing.T) {
	t.Parallel()

	mock, repo := newSpanMock(t)
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ended := started.Add(90 * 24 * time.Hour)

	query := regexp.QuoteMeta(`
        SELECT id, entity_type, entity_id, kind, started_at, ended_at, created_at
        FROM status_spans
        WHERE entity_type=$1 AND entity_id=$2
        ORDER BY started_at DESC`)

	rows := pgxmock.NewRows([]string{"id", "entity_type", "entity_id", "kind", "started_at", "ended_at", "created_at"}).
		AddRow("span-2", domain.EntityWrestler, "w-1", domain.SpanSuspension, ended, nil, ended).
		AddRow("span-1", domain.EntityWrestler, "w-1", domain.SpanEmployment, started, &ended, started)

	mock.ExpectQuery(query).
		WithArgs(domain.EntityWrestler, "w-1").
		WillReturnRows(rows)

	spans, err := repo.ListByEntity(context.Background(), domain.EntityWrestler, "w-1")
	if err != nil {
		t.Fatalf("ListByEntity returned error: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Kind != domain.SpanSuspension || spans[0].EndedAt != nil {
		t.Fatalf("unexpected first span: %+v", spans[0])
	}
	if spans[1].EndedAt == nil || !spans[1].EndedAt.Equal(ended) {
		t.Fatalf("expected closed employment span, got %+v", spans[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
