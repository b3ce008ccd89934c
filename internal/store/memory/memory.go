// Package memory is an in-process store.Backend for tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/joseph-ayodele/poster-outreach/internal/store"
)

type Backend struct {
	mu     sync.Mutex
	sheets map[string][][]string
	// FailAppend makes AppendRow fail, for exercising error paths.
	FailAppend error
}

var _ store.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{sheets: make(map[string][][]string)}
}

func (b *Backend) Name() string { return "memory" }

func (b *Backend) OpenOrCreate(_ context.Context, name string) (store.Handle, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows, ok := b.sheets[name]
	if !ok {
		b.sheets[name] = nil
	}
	return store.Handle{Name: name, Backend: b.Name()}, len(rows) == 0, nil
}

func (b *Backend) AppendRow(_ context.Context, h store.Handle, values []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailAppend != nil {
		return b.FailAppend
	}
	rows, ok := b.sheets[h.Name]
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrUnknownSheet, h.Name)
	}
	b.sheets[h.Name] = append(rows, append([]string(nil), values...))
	return nil
}

func (b *Backend) Rows(_ context.Context, h store.Handle) ([][]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows, ok := b.sheets[h.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownSheet, h.Name)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (b *Backend) Close() error { return nil }
