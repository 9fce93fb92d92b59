package solr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Config{BaseURL: server.URL + "/solr"}, opts...)
}

func TestNew(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		c := New(Config{})

		assert.Equal(t, DefaultBaseURL, c.config.BaseURL)
		assert.Equal(t, int64(DefaultMaxResponseBytes), c.config.MaxResponseBytes)
		assert.Equal(t, "papers_plus", c.CollectionName(domain.CollectionSentences))
		assert.Equal(t, "metadata_plus", c.CollectionName(domain.CollectionMetadata))
		assert.Equal(t, "metadata", c.CollectionName(domain.CollectionSecondaryMetadata))
		assert.Equal(t, "references_plus", c.CollectionName(domain.CollectionReferences))
		assert.Equal(t, time.Duration(0), c.httpClient.client.Timeout)
		assert.Equal(t, rate.Inf, c.httpClient.rateLimiter.limiter.Limit())
	})

	t.Run("overrides collection names", func(t *testing.T) {
		c := New(Config{Collections: map[domain.CollectionKind]string{
			domain.CollectionReferences: "refs_v2",
			domain.CollectionMetadata:   "",
		}})

		assert.Equal(t, "refs_v2", c.CollectionName(domain.CollectionReferences))
		assert.Equal(t, "metadata_plus", c.CollectionName(domain.CollectionMetadata))
	})
}

func TestClient_Search(t *testing.T) {
	t.Run("builds select request and parses response", func(t *testing.T) {
		var gotPath string
		var gotQuery map[string][]string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"responseHeader":{"params":{"q":"\"graph\""}},"response":{"numFound":1,"docs":[{"sentence":"A graph."}]}}`))
		})

		result, err := c.Search(context.Background(), domain.SearchRequest{
			Query:      "graph",
			Mode:       domain.ModeExact,
			Rows:       50,
			Collection: domain.CollectionSentences,
			Field:      FieldSentence,
			Sort:       &domain.SortSpec{Field: FieldPublishedDate, Direction: domain.SortDesc},
		})
		require.NoError(t, err)

		assert.Equal(t, "/solr/papers_plus/select", gotPath)
		assert.Equal(t, []string{`"graph"`}, gotQuery["q"])
		assert.Equal(t, []string{"50"}, gotQuery["rows"])
		assert.Equal(t, []string{"sentence"}, gotQuery["df"])
		assert.Equal(t, []string{"published_date desc"}, gotQuery["sort"])
		assert.Equal(t, []string{"json"}, gotQuery["wt"])

		assert.Equal(t, 1, result.NumFound)
		assert.Equal(t, `"graph"`, result.EchoedQuery)
		require.Len(t, result.Sentences(), 1)
	})

	t.Run("omits sort when not requested", func(t *testing.T) {
		var hasSort bool
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, hasSort = r.URL.Query()["sort"]
			w.Write([]byte(`{"response":{"numFound":0,"docs":[]}}`))
		})

		result, err := c.Search(context.Background(), domain.SearchRequest{
			Query:      "x",
			Mode:       domain.ModeProximityTitle,
			Rows:       1,
			Collection: domain.CollectionReferences,
			Field:      FieldCitedPaperDetails,
		})
		require.NoError(t, err)
		assert.False(t, hasSort)
		assert.True(t, result.Empty())
		assert.Equal(t, `"x"~1`, result.EchoedQuery, "falls back to the sent query")
	})

	t.Run("non-2xx status is an external API error", func(t *testing.T) {
		var calls int
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"msg":"undefined field foo","code":500}}`))
		})

		_, err := c.Search(context.Background(), domain.SearchRequest{
			Query: "x", Mode: domain.ModeExact, Rows: 1, Collection: domain.CollectionMetadata, Field: FieldTitle,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSearchEngineUnavailable)

		var apiErr *domain.ExternalAPIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "metadata_plus", apiErr.Collection)
		assert.Equal(t, "undefined field foo", apiErr.Message)
		assert.Equal(t, 1, calls, "failed requests are not retried")
	})

	t.Run("transport failure is an external API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		baseURL := server.URL
		server.Close()

		c := New(Config{BaseURL: baseURL})
		_, err := c.Search(context.Background(), domain.SearchRequest{
			Query: "x", Mode: domain.ModeExact, Rows: 1, Collection: domain.CollectionSentences,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSearchEngineUnavailable)
	})

	t.Run("malformed body is an external API error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		})

		_, err := c.Search(context.Background(), domain.SearchRequest{
			Query: "x", Mode: domain.ModeExact, Rows: 1, Collection: domain.CollectionSentences,
		})
		assert.ErrorIs(t, err, domain.ErrSearchEngineUnavailable)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response":{"numFound":0,"docs":[]}}`))
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Search(ctx, domain.SearchRequest{
			Query: "x", Mode: domain.ModeExact, Rows: 1, Collection: domain.CollectionSentences,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("sends basic auth and user agent", func(t *testing.T) {
		var user, pass, ua string
		var ok bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok = r.BasicAuth()
			ua = r.UserAgent()
			w.Write([]byte(`{"response":{"numFound":0,"docs":[]}}`))
		}))
		defer server.Close()

		c := New(Config{BaseURL: server.URL, Username: "solr", Password: "secret", UserAgent: "Test/1.0"})
		_, err := c.Search(context.Background(), domain.SearchRequest{
			Query: "x", Mode: domain.ModeExact, Rows: 1, Collection: domain.CollectionSentences,
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "solr", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "Test/1.0", ua)
	})

	t.Run("records metrics", func(t *testing.T) {
		metrics := observability.NewMetrics("test_solr_client_search")
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("df") == "fail" {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"response":{"numFound":0,"docs":[]}}`))
		}, WithMetrics(metrics))

		_, err := c.Search(context.Background(), domain.SearchRequest{
			Query: "x", Mode: domain.ModeExact, Rows: 1, Collection: domain.CollectionSentences, Field: "sentence",
		})
		require.NoError(t, err)
		_, err = c.Search(context.Background(), domain.SearchRequest{
			Query: "x", Mode: domain.ModeExact, Rows: 1, Collection: domain.CollectionSentences, Field: "fail",
		})
		require.Error(t, err)

		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.SolrRequestsTotal.WithLabelValues("papers_plus")))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.SolrRequestsFailed.WithLabelValues("papers_plus", "status_503")))
	})
}

func TestClient_Ping(t *testing.T) {
	t.Run("all collections healthy", func(t *testing.T) {
		var paths []string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			w.Write([]byte(`{"status":"OK"}`))
		})

		require.NoError(t, c.Ping(context.Background()))
		assert.ElementsMatch(t, []string{
			"/solr/papers_plus/admin/ping",
			"/solr/metadata_plus/admin/ping",
			"/solr/metadata/admin/ping",
			"/solr/references_plus/admin/ping",
		}, paths)
	})

	t.Run("unhealthy collection", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/solr/metadata/admin/ping" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"status":"OK"}`))
		})

		err := c.Ping(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSearchEngineUnavailable)
		assert.Contains(t, err.Error(), "collection metadata")
	})

	t.Run("non-OK status in body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"FAIL"}`))
		})
		assert.Error(t, c.Ping(context.Background()))
	})
}
