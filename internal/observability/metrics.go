package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the citation search service.
// Metrics are organized by subsystem: searches (per entry point), Solr requests
// (per collection), citation resolution, sentiment predictions and HTTP traffic.
// All metrics are registered via promauto with the default Prometheus registry.
type Metrics struct {
	// SearchesStarted counts searches initiated, labeled by search kind.
	SearchesStarted *prometheus.CounterVec

	// SearchesCompleted counts successful searches, labeled by search kind.
	SearchesCompleted *prometheus.CounterVec

	// SearchesFailed counts failed searches, labeled by search kind.
	SearchesFailed *prometheus.CounterVec

	// SearchDuration observes end-to-end search duration in seconds, labeled by search kind.
	SearchDuration *prometheus.HistogramVec

	// ResultsPerSearch observes the total result count per search, labeled by search kind.
	ResultsPerSearch *prometheus.HistogramVec

	// SolrRequestsTotal counts select calls, labeled by collection.
	SolrRequestsTotal *prometheus.CounterVec

	// SolrRequestsFailed counts failed select calls, labeled by collection and error type.
	SolrRequestsFailed *prometheus.CounterVec

	// SolrRequestDuration observes select call duration in seconds, labeled by collection.
	SolrRequestDuration *prometheus.HistogramVec

	// AnnotationsResolved counts citation annotations that matched at least one sentence.
	AnnotationsResolved prometheus.Counter

	// AnnotationsDropped counts citation annotations with no locatable sentence.
	AnnotationsDropped prometheus.Counter

	// SentimentPredictions counts classified sentences, labeled by polarity.
	SentimentPredictions *prometheus.CounterVec

	// HTTPRequestsTotal counts served HTTP requests, labeled by route and status code.
	HTTPRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Searches
		SearchesStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of searches started by kind",
		}, []string{"kind"}),
		SearchesCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of searches completed by kind",
		}, []string{"kind"}),
		SearchesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of searches that failed by kind",
		}, []string{"kind"}),
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of searches in seconds by kind",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"kind"}),
		ResultsPerSearch: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "results_per_search",
			Help:      "Total number of results matched per search by kind",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 10000},
		}, []string{"kind"}),

		// Solr
		SolrRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solr_requests_total",
			Help:      "Total number of Solr select requests by collection",
		}, []string{"collection"}),
		SolrRequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solr_request_failures_total",
			Help:      "Total number of failed Solr select requests by collection",
		}, []string{"collection", "error_type"}),
		SolrRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solr_request_duration_seconds",
			Help:      "Duration of Solr select requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"collection"}),

		// Citations
		AnnotationsResolved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotations_resolved_total",
			Help:      "Total number of citation annotations resolved to sentences",
		}),
		AnnotationsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotations_dropped_total",
			Help:      "Total number of citation annotations with no matching sentence",
		}),

		// Sentiment
		SentimentPredictions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_predictions_total",
			Help:      "Total number of citation sentences classified by polarity",
		}, []string{"polarity"}),

		// HTTP
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served by route and status",
		}, []string{"route", "status"}),
	}
}

// RecordSearchStarted records that a search has started.
func (m *Metrics) RecordSearchStarted(kind string) {
	m.SearchesStarted.WithLabelValues(kind).Inc()
}

// RecordSearchCompleted records that a search has completed.
func (m *Metrics) RecordSearchCompleted(kind string, totalCount int, durationSeconds float64) {
	m.SearchesCompleted.WithLabelValues(kind).Inc()
	m.SearchDuration.WithLabelValues(kind).Observe(durationSeconds)
	m.ResultsPerSearch.WithLabelValues(kind).Observe(float64(totalCount))
}

// RecordSearchFailed records that a search has failed.
func (m *Metrics) RecordSearchFailed(kind string, durationSeconds float64) {
	m.SearchesFailed.WithLabelValues(kind).Inc()
	m.SearchDuration.WithLabelValues(kind).Observe(durationSeconds)
}

// RecordSolrRequest records a select call to a collection.
func (m *Metrics) RecordSolrRequest(collection string, durationSeconds float64) {
	m.SolrRequestsTotal.WithLabelValues(collection).Inc()
	m.SolrRequestDuration.WithLabelValues(collection).Observe(durationSeconds)
}

// RecordSolrRequestFailed records a failed select call to a collection.
func (m *Metrics) RecordSolrRequestFailed(collection, errorType string) {
	m.SolrRequestsFailed.WithLabelValues(collection, errorType).Inc()
}

// RecordAnnotations records the outcome of resolving citation annotations.
func (m *Metrics) RecordAnnotations(resolved, dropped int) {
	m.AnnotationsResolved.Add(float64(resolved))
	m.AnnotationsDropped.Add(float64(dropped))
}

// RecordSentiment records one classified sentence.
func (m *Metrics) RecordSentiment(polarity string) {
	m.SentimentPredictions.WithLabelValues(polarity).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(route, status string) {
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
}
