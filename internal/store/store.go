// Package store persists event records as rows of an append-only table.
package store

import (
	"context"
	"errors"
)

// Handle names an opened sheet on a backend.
type Handle struct {
	Name    string
	Backend string
}

// Backend is the tabular store service: a set of named sheets, each an
// ordered list of string rows. Rows are never updated or deleted.
type Backend interface {
	Name() string
	// OpenOrCreate returns the sheet called name, creating it if needed.
	// created reports that the sheet holds no rows yet, so the caller
	// should write its header.
	OpenOrCreate(ctx context.Context, name string) (h Handle, created bool, err error)
	AppendRow(ctx context.Context, h Handle, values []string) error
	// Rows returns every row in insertion order, header included.
	Rows(ctx context.Context, h Handle) ([][]string, error)
	Close() error
}

// ErrUnknownSheet is returned for a handle the backend never opened.
var ErrUnknownSheet = errors.New("unknown sheet")
