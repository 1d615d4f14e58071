package service

import "context"

// TransactionManager abstracts transaction control so services can be tested
// with fakes. The pgx-backed implementation lives in internal/persistence.
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

// NoopTransactionManager runs functions without transaction control. Used in
// tests and when no database is configured.
type NoopTransactionManager struct{}

func (NoopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (NoopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}
