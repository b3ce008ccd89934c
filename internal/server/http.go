// Package server exposes the extraction and outreach operations over HTTP
// and a gRPC health endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joseph-ayodele/poster-outreach/constants"
	"github.com/joseph-ayodele/poster-outreach/internal/common"
	"github.com/joseph-ayodele/poster-outreach/internal/entity"
	"github.com/joseph-ayodele/poster-outreach/internal/export"
	"github.com/joseph-ayodele/poster-outreach/internal/mailer"
	"github.com/joseph-ayodele/poster-outreach/internal/metrics"
	"github.com/joseph-ayodele/poster-outreach/internal/pipeline"
	"github.com/joseph-ayodele/poster-outreach/internal/templates"
)

// Processor runs one poster image through the pipeline.
type Processor interface {
	Process(ctx context.Context, image []byte) (pipeline.Outcome, error)
}

// Sender delivers rendered emails.
type Sender interface {
	Send(ctx context.Context, msg entity.RenderedEmail) bool
	SendBatch(ctx context.Context, msgs []entity.RenderedEmail) mailer.BatchResult
}

// Options wires the router's collaborators. Records may be nil, which
// disables the /records routes.
type Options struct {
	Processor      Processor
	Templates      *templates.Registry
	Sender         Sender
	Records        export.RowSource
	Provider       string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

type handlers struct {
	proc      Processor
	templates *templates.Registry
	sender    Sender
	records   export.RowSource
	exporter  *export.Service
	provider  string
	maxUpload int64
	logger    *slog.Logger
}

// NewRouter returns the HTTP surface. Every route is also served under /api/.
func NewRouter(opts Options) http.Handler {
	h := &handlers{
		proc:      opts.Processor,
		templates: opts.Templates,
		sender:    opts.Sender,
		records:   opts.Records,
		provider:  opts.Provider,
		maxUpload: opts.MaxUploadBytes,
		logger:    opts.Logger,
	}
	if h.templates == nil {
		h.templates = templates.Default()
	}
	if h.maxUpload <= 0 {
		h.maxUpload = constants.MaxUploadBytes
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.records != nil {
		h.exporter = export.NewService(h.records, h.logger)
	}

	mux := http.NewServeMux()
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, instrument(pattern, fn))
	}
	handle("GET /health", h.handleHealth)
	handle("POST /extract", h.handleExtract)
	handle("GET /templates", h.handleTemplates)
	handle("POST /generate-email", h.handleGenerateEmail)
	handle("POST /send-email", h.handleSendEmail)
	handle("POST /send-batch", h.handleSendBatch)
	handle("GET /records", h.handleRecords)
	handle("GET /records/export.xlsx", h.handleExportRecords)
	mux.Handle("GET /metrics", metrics.Handler())

	routes := jsonFallback(mux)
	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", routes))
	root.Handle("/", routes)

	return RequestID(h.logger, Recover(h.logger, CORS(root)))
}

// handleHealth handles GET /health.
func (h *handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	provider := h.provider
	if provider == "" {
		provider = "an unconfigured model"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Backend is running with " + provider,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes the failure envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

// writeAppError writes err with the status its sentinel implies.
func writeAppError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), messageFor(err))
}

func statusFor(err error) int {
	switch {
	case common.IsInvalidInput(err):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// messageFor shows AppError messages as is and hides unclassified internal causes.
func messageFor(err error) string {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if statusFor(err) == http.StatusInternalServerError {
		return common.ErrInternal.Error()
	}
	return err.Error()
}

// jsonFallback answers requests matching no route, or no method of a route,
// with the failure envelope instead of the mux's plain-text replies.
func jsonFallback(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(&envelopeWriter{ResponseWriter: w}, r)
	})
}

// envelopeWriter replaces whatever body the wrapped handler writes with
// the failure envelope for its status. Headers such as Allow are kept.
type envelopeWriter struct {
	http.ResponseWriter
	wrote bool
}

func (e *envelopeWriter) WriteHeader(code int) {
	if e.wrote {
		return
	}
	e.wrote = true
	writeError(e.ResponseWriter, code, http.StatusText(code))
}

func (e *envelopeWriter) Write(b []byte) (int, error) {
	if !e.wrote {
		e.WriteHeader(http.StatusNotFound)
	}
	return len(b), nil
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
