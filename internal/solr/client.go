package solr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/observability"
)

const (
	// DefaultBaseURL is the default Solr base URL.
	DefaultBaseURL = "http://localhost:8983/solr"

	// DefaultMaxResponseBytes caps the size of a decoded select response.
	DefaultMaxResponseBytes = 256 << 20

	// sourceName is the human-readable name used in errors.
	sourceName = "solr"
)

// DefaultCollections maps each collection kind to its default Solr name.
var DefaultCollections = map[domain.CollectionKind]string{
	domain.CollectionSentences:         "papers_plus",
	domain.CollectionMetadata:          "metadata_plus",
	domain.CollectionSecondaryMetadata: "metadata",
	domain.CollectionReferences:        "references_plus",
}

// Config holds configuration for the Solr client.
type Config struct {
	// BaseURL is the Solr base URL, e.g. http://localhost:8983/solr.
	BaseURL string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second. Zero means unlimited.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	BurstSize int

	UserAgent string

	// MaxResponseBytes caps how much of a response body is decoded.
	MaxResponseBytes int64

	Username string
	Password string

	// Collections maps collection kinds to Solr collection names. Kinds left
	// out use DefaultCollections.
	Collections map[domain.CollectionKind]string
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = DefaultMaxResponseBytes
	}
	collections := make(map[domain.CollectionKind]string, len(DefaultCollections))
	for kind, name := range DefaultCollections {
		collections[kind] = name
	}
	for kind, name := range c.Collections {
		if name != "" {
			collections[kind] = name
		}
	}
	c.Collections = collections
}

// Client issues select calls against the configured Solr collections.
// It is safe for concurrent use.
type Client struct {
	config     Config
	httpClient *HTTPClient
	logger     zerolog.Logger
	metrics    *observability.Metrics
}

// Ensure Client implements Searcher.
var _ Searcher = (*Client)(nil)

// Option configures optional Client dependencies.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics attaches Prometheus metrics. Without it, nothing is recorded.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(c *Client) { c.metrics = metrics }
}

// New creates a new Solr client with the given configuration.
func New(cfg Config, opts ...Option) *Client {
	cfg.applyDefaults()

	httpClient := NewHTTPClient(HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
		UserAgent: cfg.UserAgent,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})

	return NewWithHTTPClient(cfg, httpClient, opts...)
}

// NewWithHTTPClient creates a new Solr client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *HTTPClient, opts ...Option) *Client {
	cfg.applyDefaults()

	c := &Client{
		config:     cfg,
		httpClient: httpClient,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectionName returns the Solr collection configured for kind.
func (c *Client) CollectionName(kind domain.CollectionKind) string {
	return c.config.Collections[kind]
}

// Search issues one select call for req and parses the response.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	collection := c.CollectionName(req.Collection)
	if collection == "" {
		return nil, fmt.Errorf("no collection configured for kind %q", req.Collection)
	}

	q := BuildRequestQuery(req)
	selectURL, err := c.buildSelectURL(collection, q, req)
	if err != nil {
		return nil, fmt.Errorf("building select URL: %w", err)
	}

	logger := observability.WithCollectionContext(observability.LoggerFromContext(ctx, c.logger), collection, req.Field)
	logger.Debug().Str("q", q).Int("rows", req.Rows).Msg("solr select")

	startTime := time.Now()
	resp, err := c.get(ctx, selectURL)
	if err != nil {
		c.recordFailure(collection, "transport")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, domain.NewExternalAPIError(sourceName, collection, 0, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.recordFailure(collection, "status_"+strconv.Itoa(resp.StatusCode))
		return nil, domain.NewExternalAPIError(sourceName, collection, resp.StatusCode, errorMessage(resp.Body), nil)
	}

	result, err := ParseResponse(req.Collection, io.LimitReader(resp.Body, c.config.MaxResponseBytes))
	if err != nil {
		c.recordFailure(collection, "decode")
		return nil, domain.NewExternalAPIError(sourceName, collection, resp.StatusCode, "malformed response", err)
	}
	if result.EchoedQuery == "" {
		result.EchoedQuery = q
	}

	if c.metrics != nil {
		c.metrics.RecordSolrRequest(collection, time.Since(startTime).Seconds())
	}
	logger.Debug().
		Int("num_found", result.NumFound).
		Int("docs", len(result.Records)).
		Dur("duration", time.Since(startTime)).
		Msg("solr select completed")

	return result, nil
}

// Ping checks that every configured collection answers its admin ping handler.
func (c *Client) Ping(ctx context.Context) error {
	for _, kind := range []domain.CollectionKind{
		domain.CollectionSentences,
		domain.CollectionMetadata,
		domain.CollectionSecondaryMetadata,
		domain.CollectionReferences,
	} {
		if err := c.pingCollection(ctx, c.CollectionName(kind)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) pingCollection(ctx context.Context, collection string) error {
	pingURL, err := c.collectionURL(collection, "admin", "ping")
	if err != nil {
		return fmt.Errorf("building ping URL: %w", err)
	}
	pingURL.RawQuery = url.Values{"wt": {"json"}}.Encode()

	resp, err := c.get(ctx, pingURL.String())
	if err != nil {
		return domain.NewExternalAPIError(sourceName, collection, 0, "ping failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.NewExternalAPIError(sourceName, collection, resp.StatusCode, errorMessage(resp.Body), nil)
	}

	var body pingResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return domain.NewExternalAPIError(sourceName, collection, resp.StatusCode, "malformed ping response", err)
	}
	if !strings.EqualFold(body.Status, "OK") {
		return domain.NewExternalAPIError(sourceName, collection, resp.StatusCode, "ping status "+body.Status, nil)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	return c.httpClient.Do(httpReq)
}

// buildSelectURL renders GET <base>/<collection>/select?q=&rows=&df=[&sort=].
func (c *Client) buildSelectURL(collection, q string, req domain.SearchRequest) (string, error) {
	selectURL, err := c.collectionURL(collection, "select")
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("rows", strconv.Itoa(req.Rows))
	if req.Field != "" {
		params.Set("df", req.Field)
	}
	if req.Sort != nil {
		params.Set("sort", req.Sort.String())
	}
	params.Set("wt", "json")
	selectURL.RawQuery = params.Encode()

	return selectURL.String(), nil
}

func (c *Client) collectionURL(collection string, path ...string) (*url.URL, error) {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/" + collection + "/" + strings.Join(path, "/")
	return base, nil
}

func (c *Client) recordFailure(collection, errorType string) {
	if c.metrics != nil {
		c.metrics.RecordSolrRequestFailed(collection, errorType)
	}
}

// errorMessage extracts Solr's error.msg from a failed response, falling back
// to the raw body.
func errorMessage(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 1<<20))
	var envelope selectResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil && envelope.Error.Msg != "" {
		return envelope.Error.Msg
	}
	return strings.TrimSpace(string(raw))
}
