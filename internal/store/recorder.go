package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/poster-outreach/constants"
	"github.com/joseph-ayodele/poster-outreach/internal/entity"
)

// TimestampLayout formats the first column of every data row.
const TimestampLayout = "2006-01-02 15:04:05"

// Recorder appends event records to one named sheet of a Backend.
// The sheet is opened once and the handle reused.
type Recorder struct {
	backend Backend
	name    string
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	handle *Handle
}

func NewRecorder(backend Backend, name string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if name == "" {
		name = "Event Poster Data"
	}
	return &Recorder{backend: backend, name: name, logger: logger, now: time.Now}
}

// WithClock overrides the timestamp source.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// EnsureStore opens or creates the sheet, writing the header row when the
// sheet is fresh. Repeated and concurrent calls write the header once.
func (r *Recorder) EnsureStore(ctx context.Context) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle != nil {
		return *r.handle, nil
	}

	h, created, err := r.backend.OpenOrCreate(ctx, r.name)
	if err != nil {
		r.logger.Error("store.open.failed", "backend", r.backend.Name(), "sheet", r.name, "error", err)
		return Handle{}, fmt.Errorf("open sheet %q: %w", r.name, err)
	}
	if created {
		if err := r.backend.AppendRow(ctx, h, append([]string(nil), constants.StoreHeader...)); err != nil {
			r.logger.Error("store.header.failed", "backend", r.backend.Name(), "sheet", r.name, "error", err)
			return Handle{}, fmt.Errorf("write header: %w", err)
		}
		r.logger.Info("store.created", "backend", r.backend.Name(), "sheet", r.name)
	}
	r.handle = &h
	return h, nil
}

// Append writes one row for rec. It reports false on any backend failure
// and never returns an error; callers decide whether that matters.
func (r *Recorder) Append(ctx context.Context, h Handle, rec entity.EventRecord) bool {
	row := Row(r.now(), rec)
	if err := r.backend.AppendRow(ctx, h, row); err != nil {
		r.logger.Error("store.append.failed", "backend", r.backend.Name(), "sheet", h.Name, "error", err)
		return false
	}
	r.logger.Info("store.append.ok", "backend", r.backend.Name(), "sheet", h.Name, "event", rec.EventName)
	return true
}

// Rows returns the sheet contents, header first.
func (r *Recorder) Rows(ctx context.Context) ([][]string, error) {
	h, err := r.EnsureStore(ctx)
	if err != nil {
		return nil, err
	}
	return r.backend.Rows(ctx, h)
}

// SheetName is the configured sheet name.
func (r *Recorder) SheetName() string { return r.name }

// Row lays out rec in header order behind a wall-clock timestamp.
func Row(at time.Time, rec entity.EventRecord) []string {
	return []string{
		at.Format(TimestampLayout),
		rec.EventName,
		rec.ArtistName,
		rec.VenueName,
		rec.VenueOwner,
		rec.Date,
		rec.Time,
		rec.Location,
		rec.ArtistEmail,
		rec.VenueEmail,
	}
}

// PadRow extends row with empty cells up to the header width.
func PadRow(row []string) []string {
	if len(row) >= len(constants.StoreHeader) {
		return row
	}
	out := make([]string, len(constants.StoreHeader))
	copy(out, row)
	return out
}
