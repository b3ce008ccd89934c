package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Extraction metrics
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_extractions_total",
			Help: "Total number of poster extractions by outcome",
		},
		[]string{"status"},
	)

	FallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poster_extraction_fallbacks_total",
			Help: "Total number of extractions that fell back to the sentinel record",
		},
	)

	OCRDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poster_ocr_duration_seconds",
			Help:    "Duration of text recognition in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poster_llm_duration_seconds",
			Help:    "Duration of categorization calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45},
		},
		[]string{"provider"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_llm_cache_lookups_total",
			Help: "Categorization cache lookups by result",
		},
		[]string{"result"},
	)

	// Storage metrics
	StoreAppendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_store_appends_total",
			Help: "Total number of record store appends by result",
		},
		[]string{"result"},
	)

	// Mail metrics
	EmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_emails_total",
			Help: "Total number of email delivery attempts by result",
		},
		[]string{"result"},
	)

	// HTTP metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)
)

// Outcome label values shared by the counters above.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
	ResultHit    = "hit"
	ResultMiss   = "miss"
)

// Result maps a boolean outcome to ResultOK or ResultFailed.
func Result(ok bool) string {
	if ok {
		return ResultOK
	}
	return ResultFailed
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
