// Package export renders stored poster rows as a downloadable workbook.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

// RowSource yields the store contents, header first.
type RowSource interface {
	Rows(ctx context.Context) ([][]string, error)
	SheetName() string
}

// Service produces XLSX bytes from whatever backend holds the records.
type Service struct {
	src    RowSource
	logger *slog.Logger
}

func NewService(src RowSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{src: src, logger: logger}
}

// ExportXLSX returns every stored row as a single-sheet workbook.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()
	rows, err := s.src.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	out, err := Workbook(s.src.SheetName(), rows)
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.xlsx.ok",
		"sheet", s.src.SheetName(),
		"rows", len(rows),
		"bytes", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Workbook writes rows into a new workbook with one sheet. The first row is treated as the header.
func Workbook(sheet string, rows [][]string) ([]byte, error) {
	if sheet == "" {
		sheet = "Sheet1"
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
	}

	width := 0
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		vals := r
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
		width = max(width, len(r))
	}

	if width > 0 {
		last, _ := excelize.ColumnNumberToName(width)
		_ = f.SetColWidth(sheet, "A", "A", 20) // timestamp
		_ = f.SetColWidth(sheet, "B", last, 24)
		if len(rows) > 1 {
			lastCell, _ := excelize.CoordinatesToCellName(width, len(rows))
			_ = f.AutoFilter(sheet, "A1:"+lastCell, nil)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
