// Package pipeline runs one poster through extraction, contact lookup and
// persistence, and announces the result.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/poster-outreach/constants"
	"github.com/joseph-ayodele/poster-outreach/internal/contacts"
	"github.com/joseph-ayodele/poster-outreach/internal/entity"
	"github.com/joseph-ayodele/poster-outreach/internal/events"
	"github.com/joseph-ayodele/poster-outreach/internal/extract"
	"github.com/joseph-ayodele/poster-outreach/internal/metrics"
	"github.com/joseph-ayodele/poster-outreach/internal/store"
)

// Extractor turns image bytes into a categorized record.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (extract.Result, error)
}

// RecordSink is the append side of the record store.
type RecordSink interface {
	EnsureStore(ctx context.Context) (store.Handle, error)
	Append(ctx context.Context, h store.Handle, rec entity.EventRecord) bool
}

// Outcome is an extraction result plus what happened to it downstream.
// Persisted is false when the store could not be opened or the append failed.
type Outcome struct {
	extract.Result
	Persisted bool
}

// Processor coordinates extract -> contact lookup -> store -> publish.
type Processor struct {
	extractor Extractor
	resolver  contacts.Resolver
	sink      RecordSink
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewProcessor(extractor Extractor, resolver contacts.Resolver, sink RecordSink, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if resolver == nil {
		resolver = contacts.PlaceholderResolver{}
	}
	return &Processor{
		extractor: extractor,
		resolver:  resolver,
		sink:      sink,
		publisher: events.NewLogPublisher(events.DefaultPrefix, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// WithPublisher emits a RecordExtracted event after every successful extraction.
func (p *Processor) WithPublisher(pub events.Publisher) *Processor {
	p.publisher = pub
	return p
}

// WithClock overrides the event timestamp source.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// Process extracts a record from image, fills in contact addresses and
// appends it to the store. Store failures never fail the call. A fallback
// record is persisted like any other; Outcome.UsedFallback flags it.
func (p *Processor) Process(ctx context.Context, image []byte) (Outcome, error) {
	start := time.Now()

	res, err := p.extractor.Extract(ctx, image)
	if res.OCRDuration > 0 {
		metrics.OCRDuration.Observe(res.OCRDuration.Seconds())
	}
	if res.LLMDuration > 0 {
		metrics.LLMDuration.WithLabelValues(res.Provider).Observe(res.LLMDuration.Seconds())
	}
	if err != nil {
		status := Status(err)
		metrics.ExtractionsTotal.WithLabelValues(string(status)).Inc()
		p.logger.Error("pipeline.extract.failed", "status", status, "error", err)
		return Outcome{Result: res}, err
	}

	res.Record = p.withContacts(ctx, res.Record)
	out := Outcome{Result: res, Persisted: p.persist(ctx, res.Record)}

	status := constants.ExtractStatusOK
	if res.UsedFallback {
		status = constants.ExtractStatusFallback
		metrics.FallbacksTotal.Inc()
	}
	metrics.ExtractionsTotal.WithLabelValues(string(status)).Inc()

	evt := events.RecordExtracted{
		Record:       res.Record,
		UsedFallback: res.UsedFallback,
		Persisted:    out.Persisted,
		Provider:     res.Provider,
		At:           p.now().UTC(),
	}
	if perr := p.publisher.Publish(ctx, events.SubjectRecordExtracted, evt); perr != nil {
		p.logger.Warn("pipeline.publish.failed", "error", perr)
	}

	p.logger.Info("pipeline.process.ok",
		"status", status,
		"event", res.Record.EventName,
		"persisted", out.Persisted,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (p *Processor) withContacts(ctx context.Context, rec entity.EventRecord) entity.EventRecord {
	rec.ArtistEmail = p.resolver.Resolve(ctx, rec.ArtistName, constants.ChannelInstagram)
	rec.VenueEmail = p.resolver.Resolve(ctx, rec.VenueName, constants.ChannelFacebook)
	return rec
}

func (p *Processor) persist(ctx context.Context, rec entity.EventRecord) bool {
	if p.sink == nil {
		return false
	}
	h, err := p.sink.EnsureStore(ctx)
	if err != nil {
		metrics.StoreAppendsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		p.logger.Error("pipeline.store.unavailable", "error", err)
		return false
	}
	ok := p.sink.Append(ctx, h, rec)
	metrics.StoreAppendsTotal.WithLabelValues(metrics.Result(ok)).Inc()
	return ok
}

// Status classifies an extraction error for metrics and logs.
func Status(err error) constants.ExtractStatus {
	var (
		decodeErr *extract.DecodeError
		ocrErr    *extract.OcrError
		catErr    *extract.CategorizationError
	)
	switch {
	case err == nil:
		return constants.ExtractStatusOK
	case errors.As(err, &decodeErr):
		return constants.ExtractStatusDecodeError
	case errors.As(err, &ocrErr):
		return constants.ExtractStatusOCRError
	case errors.As(err, &catErr):
		return constants.ExtractStatusLLMError
	default:
		return constants.ExtractStatusInternal
	}
}
