package justification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatKr(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "kr 0"},
		{950, "kr 950"},
		{1000, "kr 1 000"},
		{1250000, "kr 1 250 000"},
		{1234567.5, "kr 1 234 567,50"},
		{99.99, "kr 99,99"},
		{-500, "minus kr 500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatKr(tt.amount), "amount=%v", tt.amount)
	}
}

func TestDager(t *testing.T) {
	assert.Equal(t, "1 dag", dager(1))
	assert.Equal(t, "0 dager", dager(0))
	assert.Equal(t, "14 dager", dager(14))
}

func TestBuilder_SkipsEmptyParagraphs(t *testing.T) {
	var b builder
	b.add("første")
	b.add("")
	b.add("andre")
	assert.Equal(t, "første\n\nandre", b.String())
}

func TestWithComment(t *testing.T) {
	t.Run("empty comment leaves text untouched", func(t *testing.T) {
		assert.Equal(t, "tekst", withComment("tekst", ""))
		assert.Equal(t, "tekst", withComment("tekst", "   "))
	})

	t.Run("comment goes below the separator with a label", func(t *testing.T) {
		got := withComment("tekst", "fritekst fra saksbehandler")
		assert.Equal(t, "tekst\n\n---\nTilleggskommentar:\nfritekst fra saksbehandler", got)
	})
}
