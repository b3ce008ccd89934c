package events

import (
	"context"
	"time"

	"github.com/joseph-ayodele/poster-outreach/internal/entity"
)

// Event subjects, relative to the configured prefix.
const (
	SubjectRecordExtracted = "record.extracted"
	SubjectEmailSent       = "email.sent"
)

// DefaultPrefix is prepended to every subject unless overridden.
const DefaultPrefix = "poster"

// RecordExtracted is emitted once per processed poster.
type RecordExtracted struct {
	Record       entity.EventRecord `json:"record"`
	UsedFallback bool               `json:"used_fallback"`
	Persisted    bool               `json:"persisted"`
	Provider     string             `json:"provider,omitempty"`
	At           time.Time          `json:"at"`
}

// EmailSent is emitted for every delivery attempt, successful or not.
type EmailSent struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	OK      bool      `json:"ok"`
	Stage   string    `json:"stage,omitempty"` // failing delivery stage when !OK
	At      time.Time `json:"at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close() error
}

// Subject joins prefix and name with a dot; an empty prefix yields name.
func Subject(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
