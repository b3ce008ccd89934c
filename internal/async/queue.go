package async

import (
	"context"
	"errors"
	"time"

	"github.com/joseph-ayodele/poster-outreach/internal/pipeline"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one poster image waiting to be processed.
type Job struct {
	Name        string // file name or caller label, for logs and results
	Image       []byte
	SubmittedAt time.Time
	TraceID     string
}

// Result is reported once per Job.
type Result struct {
	Job     Job
	Outcome pipeline.Outcome
	Err     error
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// Processor is the work a queue worker performs.
type Processor interface {
	Process(ctx context.Context, image []byte) (pipeline.Outcome, error)
}
