// Package tx carries an open *sql.Tx through context so the audit outbox
// write can join a transaction the caller already started.
package tx

import (
	"context"
	"database/sql"
)

// Execer is the subset of *sql.DB and *sql.Tx the outbox needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type txKey struct{}

// WithTx returns a context carrying the transaction. A nil tx leaves the
// context unchanged.
func WithTx(ctx context.Context, t *sql.Tx) context.Context {
	if t == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, t)
}

// From reports the transaction carried by ctx, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	t, ok := ctx.Value(txKey{}).(*sql.Tx)
	return t, ok
}

// Or returns the context's transaction when present, otherwise fallback.
func Or(ctx context.Context, fallback Execer) Execer {
	if t, ok := From(ctx); ok {
		return t
	}
	return fallback
}
