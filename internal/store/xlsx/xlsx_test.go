package xlsx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/poster-outreach/constants"
	"github.com/joseph-ayodele/poster-outreach/internal/store"
)

func TestWorkbookRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "posters.xlsx")

	b, err := Open(path, nil)
	require.NoError(t, err)

	h, created, err := b.OpenOrCreate(ctx, "Event Poster Data")
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, b.AppendRow(ctx, h, constants.StoreHeader))
	require.NoError(t, b.AppendRow(ctx, h, []string{"2024-03-05 19:30:00", "Jazz Night"}))
	require.NoError(t, b.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Event Poster Data"}, f.GetSheetList())
	rows, err := f.GetRows("Event Poster Data")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, constants.StoreHeader, rows[0])

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	h2, created, err := reopened.OpenOrCreate(ctx, "Event Poster Data")
	require.NoError(t, err)
	assert.False(t, created, "existing sheet keeps its header")
	require.NoError(t, reopened.AppendRow(ctx, h2, []string{"2024-03-06 10:00:00", "Folk Fest"}))

	got, err := reopened.Rows(ctx, h2)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Folk Fest", got[2][1])
	assert.Len(t, got[2], len(constants.StoreHeader), "short rows padded")
}

func TestRowsUnknownSheet(t *testing.T) {
	b, err := Open(filepath.Join(t.TempDir(), "x.xlsx"), nil)
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Rows(context.Background(), store.Handle{Name: "missing"})
	assert.ErrorIs(t, err, store.ErrUnknownSheet)
	assert.ErrorIs(t, b.AppendRow(context.Background(), store.Handle{Name: "missing"}, nil), store.ErrUnknownSheet)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Event Poster Data", SheetName("Event Poster Data"))
	assert.Equal(t, "a_b_c", SheetName("a/b:c"))
	assert.Equal(t, "Sheet1", SheetName("  "))
	assert.Len(t, []rune(SheetName("a very long sheet name that exceeds excel limits")), 31)
}
