package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEmptyContext(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)
}

func TestWithNilTxIsNoop(t *testing.T) {
	ctx := WithTx(context.Background(), nil)
	_, ok := From(ctx)
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	stored := &sql.Tx{}
	ctx := WithTx(context.Background(), stored)

	got, ok := From(ctx)
	assert.True(t, ok)
	assert.Same(t, stored, got)
}

func TestOrPrefersContextTx(t *testing.T) {
	db := &sql.DB{}
	stored := &sql.Tx{}

	assert.Equal(t, Execer(db), Or(context.Background(), db))
	assert.Equal(t, Execer(stored), Or(WithTx(context.Background(), stored), db))
}
