package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/poster-outreach/internal/store"
)

func TestOpenOrCreateReportsEmptySheet(t *testing.T) {
	ctx := context.Background()
	b := New()

	h, created, err := b.OpenOrCreate(ctx, "Event Poster Data")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "memory", h.Backend)

	require.NoError(t, b.AppendRow(ctx, h, []string{"header"}))

	_, created, err = b.OpenOrCreate(ctx, "Event Poster Data")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRowsAreCopies(t *testing.T) {
	ctx := context.Background()
	b := New()
	h, _, err := b.OpenOrCreate(ctx, "s")
	require.NoError(t, err)

	row := []string{"a", "b"}
	require.NoError(t, b.AppendRow(ctx, h, row))
	row[0] = "changed"

	rows, err := b.Rows(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}}, rows)

	rows[0][1] = "changed"
	again, err := b.Rows(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, "b", again[0][1])
}

func TestUnknownSheet(t *testing.T) {
	ctx := context.Background()
	b := New()
	h := store.Handle{Name: "missing", Backend: "memory"}

	assert.ErrorIs(t, b.AppendRow(ctx, h, []string{"x"}), store.ErrUnknownSheet)
	_, err := b.Rows(ctx, h)
	assert.ErrorIs(t, err, store.ErrUnknownSheet)
}

func TestFailAppend(t *testing.T) {
	ctx := context.Background()
	b := New()
	h, _, err := b.OpenOrCreate(ctx, "s")
	require.NoError(t, err)

	boom := errors.New("boom")
	b.FailAppend = boom
	assert.ErrorIs(t, b.AppendRow(ctx, h, []string{"x"}), boom)
}
