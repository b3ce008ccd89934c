package export

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type staticRows struct {
	rows [][]string
	err  error
}

func (s staticRows) Rows(context.Context) ([][]string, error) { return s.rows, s.err }
func (staticRows) SheetName() string                        { return "Event Poster Data" }

func TestExportXLSX(t *testing.T) {
	src := staticRows{rows: [][]string{
		{"Timestamp", "Event Name"},
		{"2024-03-05 19:30:00", "Jazz Night"},
	}}

	out, err := NewService(src, nil).ExportXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Event Poster Data"}, f.GetSheetList())
	rows, err := f.GetRows("Event Poster Data")
	require.NoError(t, err)
	assert.Equal(t, src.rows, rows)
}

func TestExportSourceError(t *testing.T) {
	_, err := NewService(staticRows{err: errors.New("store down")}, nil).ExportXLSX(context.Background())
	assert.ErrorContains(t, err, "store down")
}

func TestWorkbookEmpty(t *testing.T) {
	out, err := Workbook("", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
