package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/lifecycle"
)

func TestMapErrorNilStaysNil(t *testing.T) {
	// A typed-nil *DomainError boxed into the interface would read as a
	// failure on every success path.
	if err := MapError(nil); err != nil {
		t.Fatalf("MapError(nil) = %#v, want nil", err)
	}
}

func TestMapErrorPassesThroughDomainErrors(t *testing.T) {
	original := NewConflict("already open", nil)
	mapped := MapError(original)

	var domainErr *DomainError
	if !errors.As(mapped, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("mapped = %v, want the original conflict", mapped)
	}
}

func TestToDomainErrorMapsTransitionFailures(t *testing.T) {
	guardErr := lifecycle.NewTransitionError(lifecycle.TransitionEmploy, domain.StatusBookable)
	domainErr := ToDomainError(guardErr)

	if domainErr.Code != "INVALID_TRANSITION" || domainErr.HTTPStatus != http.StatusConflict {
		t.Fatalf("domainErr = %+v", domainErr)
	}
	if !errors.Is(domainErr, lifecycle.ErrCannotBeEmployed) {
		t.Fatal("wrapped transition error lost its identity")
	}
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	domainErr := ToDomainError(pgx.ErrNoRows)
	if domainErr.Code != "NOT_FOUND" || domainErr.HTTPStatus != http.StatusNotFound {
		t.Fatalf("domainErr = %+v", domainErr)
	}
}
