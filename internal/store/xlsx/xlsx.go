// Package xlsx is a store.Backend keeping sheets in a local Excel workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/poster-outreach/internal/store"
)

const defaultSheet = "Sheet1"

// Backend writes through to the workbook at Path after every append.
type Backend struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	file *excelize.File
	next map[string]int // next 1-based row per sheet
}

var _ store.Backend = (*Backend)(nil)

// Open loads the workbook at path, or starts a new one if the file does not exist yet.
func Open(path string, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := excelize.OpenFile(path)
	switch {
	case err == nil:
		logger.Info("store.xlsx.opened", "path", path, "sheets", len(f.GetSheetList()))
	case errors.Is(err, os.ErrNotExist):
		f = excelize.NewFile()
		logger.Info("store.xlsx.new", "path", path)
	default:
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Backend{path: path, logger: logger, file: f, next: make(map[string]int)}, nil
}

func (b *Backend) Name() string { return "xlsx" }

func (b *Backend) OpenOrCreate(_ context.Context, name string) (store.Handle, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sheet := SheetName(name)
	idx, err := b.file.GetSheetIndex(sheet)
	if err != nil {
		return store.Handle{}, false, err
	}
	if idx == -1 {
		idx, err = b.file.NewSheet(sheet)
		if err != nil {
			return store.Handle{}, false, fmt.Errorf("new sheet: %w", err)
		}
		// A fresh workbook carries an empty default sheet we don't want.
		if sheet != defaultSheet && b.isBlankDefault() {
			if err := b.file.DeleteSheet(defaultSheet); err != nil {
				return store.Handle{}, false, fmt.Errorf("drop default sheet: %w", err)
			}
			idx, _ = b.file.GetSheetIndex(sheet)
		}
		b.file.SetActiveSheet(idx)
		if err := b.file.SaveAs(b.path); err != nil {
			return store.Handle{}, false, fmt.Errorf("save workbook: %w", err)
		}
	}

	rows, err := b.file.GetRows(sheet)
	if err != nil {
		return store.Handle{}, false, fmt.Errorf("read rows: %w", err)
	}
	b.next[sheet] = len(rows) + 1
	return store.Handle{Name: sheet, Backend: b.Name()}, len(rows) == 0, nil
}

func (b *Backend) isBlankDefault() bool {
	if idx, _ := b.file.GetSheetIndex(defaultSheet); idx == -1 {
		return false
	}
	rows, err := b.file.GetRows(defaultSheet)
	return err == nil && len(rows) == 0
}

func (b *Backend) AppendRow(_ context.Context, h store.Handle, values []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	row, ok := b.next[h.Name]
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrUnknownSheet, h.Name)
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := append([]string(nil), values...)
	if err := b.file.SetSheetRow(h.Name, cell, &vals); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	if row == 1 {
		b.styleHeader(h.Name, len(vals))
	}
	if err := b.file.SaveAs(b.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	b.next[h.Name] = row + 1
	return nil
}

// styleHeader widens the columns once the header is in place. Failures are cosmetic.
func (b *Backend) styleHeader(sheet string, cols int) {
	if cols == 0 {
		return
	}
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return
	}
	_ = b.file.SetColWidth(sheet, "A", "A", 20)  // timestamp
	_ = b.file.SetColWidth(sheet, "B", last, 24) // event fields
	if err := b.file.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		b.logger.Debug("store.xlsx.freeze_failed", "sheet", sheet, "error", err)
	}
}

func (b *Backend) Rows(_ context.Context, h store.Handle) ([][]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.next[h.Name]; !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownSheet, h.Name)
	}
	rows, err := b.file.GetRows(h.Name)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i] = store.PadRow(rows[i])
	}
	return rows, nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}

// SheetName maps name onto Excel's sheet-name rules: at most 31 characters,
// none of : \ / ? * [ ].
func SheetName(name string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" {
		s = defaultSheet
	}
	if r := []rune(s); len(r) > 31 {
		s = string(r[:31])
	}
	return s
}
