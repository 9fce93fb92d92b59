package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: prometheus/promauto registers metrics globally, so we need to use
// unique namespaces per test to avoid registration conflicts.

func TestNewMetrics(t *testing.T) {
	m := NewMetrics("test_citation_search_new")

	assert.NotNil(t, m.SearchesStarted)
	assert.NotNil(t, m.SearchesCompleted)
	assert.NotNil(t, m.SearchesFailed)
	assert.NotNil(t, m.SearchDuration)
	assert.NotNil(t, m.ResultsPerSearch)
	assert.NotNil(t, m.SolrRequestsTotal)
	assert.NotNil(t, m.SolrRequestsFailed)
	assert.NotNil(t, m.SolrRequestDuration)
	assert.NotNil(t, m.AnnotationsResolved)
	assert.NotNil(t, m.AnnotationsDropped)
	assert.NotNil(t, m.SentimentPredictions)
	assert.NotNil(t, m.HTTPRequestsTotal)
}

func TestRecordSearchLifecycle(t *testing.T) {
	m := NewMetrics("test_search_lifecycle")

	m.RecordSearchStarted("phrase")
	m.RecordSearchCompleted("phrase", 42, 0.25)
	m.RecordSearchStarted("cited_paper")
	m.RecordSearchFailed("cited_paper", 1.5)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesStarted.WithLabelValues("phrase")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesCompleted.WithLabelValues("phrase")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesFailed.WithLabelValues("cited_paper")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.SearchesFailed.WithLabelValues("phrase")))

	count, err := getHistogramSampleCount(m.ResultsPerSearch.WithLabelValues("phrase").(prometheus.Histogram))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestRecordSolrRequest(t *testing.T) {
	m := NewMetrics("test_solr_request")

	m.RecordSolrRequest("papers_plus", 0.01)
	m.RecordSolrRequest("papers_plus", 0.02)
	m.RecordSolrRequestFailed("references_plus", "status_500")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.SolrRequestsTotal.WithLabelValues("papers_plus")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SolrRequestsFailed.WithLabelValues("references_plus", "status_500")))

	count, err := getHistogramSampleCount(m.SolrRequestDuration.WithLabelValues("papers_plus").(prometheus.Histogram))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestRecordAnnotations(t *testing.T) {
	m := NewMetrics("test_annotations")

	m.RecordAnnotations(7, 3)
	assert.Equal(t, float64(7), testutil.ToFloat64(m.AnnotationsResolved))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.AnnotationsDropped))
}

func TestRecordSentimentAndHTTP(t *testing.T) {
	m := NewMetrics("test_sentiment_http")

	m.RecordSentiment("positive")
	m.RecordSentiment("positive")
	m.RecordHTTPRequest("/phrasesearch", "200")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.SentimentPredictions.WithLabelValues("positive")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/phrasesearch", "200")))
}

func getHistogramSampleCount(h prometheus.Histogram) (uint64, error) {
	ch := make(chan prometheus.Metric, 1)
	h.Collect(ch)
	close(ch)

	var m prometheus.Metric
	for m = range ch {
		break
	}

	var dto = &dto.Metric{}
	if err := m.Write(dto); err != nil {
		return 0, err
	}

	return dto.Histogram.GetSampleCount(), nil
}
