// Package search implements the five search entry points served by the web
// front end and the terminal client.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/citation-search-service/internal/citations"
	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/normalize"
	"github.com/helixir/citation-search-service/internal/observability"
	"github.com/helixir/citation-search-service/internal/sentiment"
	"github.com/helixir/citation-search-service/internal/solr"
)

// Search kinds, used as log fields and metric labels.
const (
	KindPhrase      = "phrase"
	KindTitle       = "title"
	KindAuthors     = "authors"
	KindCitedPaper  = "cited_paper"
	KindCitedAuthor = "cited_author"
)

// Config holds the row limits of the search entry points.
type Config struct {
	DefaultRows          int
	MaxRows              int
	RowMultiplier        int
	ReferenceRowCap      int
	AnnotationMultiplier int
	EnrichMetadata       bool
}

func (c *Config) applyDefaults() {
	if c.DefaultRows <= 0 {
		c.DefaultRows = 100
	}
	if c.MaxRows <= 0 {
		c.MaxRows = 1000
	}
	if c.RowMultiplier <= 0 {
		c.RowMultiplier = 10
	}
}

// Result is the presentation contract of every entry point. An empty result
// has no items, a zero TotalCount and the requested Rows.
type Result[T any] struct {
	Items      []T    `json:"items"`
	TotalCount int    `json:"total_count"`
	Rows       int    `json:"rows"`
	Query      string `json:"query"`

	// ReferenceMatches and UnresolvedAnnotations are set by citation searches.
	ReferenceMatches      int `json:"reference_matches,omitempty"`
	UnresolvedAnnotations int `json:"unresolved_annotations,omitempty"`
}

// Service runs searches against Solr and shapes the results for display.
// It is safe for concurrent use; per-request state lives in each call.
type Service struct {
	searcher  solr.Searcher
	annotator *sentiment.Annotator
	config    Config
	logger    zerolog.Logger
	metrics   *observability.Metrics
}

// Option configures optional Service dependencies.
type Option func(*Service)

// WithAnnotator enables sentiment markers on citation sentences.
func WithAnnotator(a *sentiment.Annotator) Option {
	return func(s *Service) { s.annotator = a }
}

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Service) { s.metrics = metrics }
}

// NewService creates a Service over searcher.
func NewService(searcher solr.Searcher, cfg Config, opts ...Option) *Service {
	cfg.applyDefaults()
	s := &Service{
		searcher: searcher,
		config:   cfg,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PhraseSearch finds citation-context sentences containing phrase.
func (s *Service) PhraseSearch(ctx context.Context, phrase string, rows int) (*Result[domain.PaperHit], error) {
	rows = s.clampRows(rows)
	return observe(ctx, s, KindPhrase, phrase, rows, func(ctx context.Context) (*Result[domain.PaperHit], error) {
		res, err := s.searcher.Search(ctx, domain.SearchRequest{
			Query:      phrase,
			Mode:       domain.ModeExact,
			Rows:       rows * s.config.RowMultiplier,
			Collection: domain.CollectionSentences,
			Field:      solr.FieldSentence,
			Sort:       newestFirst(),
		})
		if err != nil {
			return nil, err
		}

		sentences := res.Sentences()
		if len(sentences) > rows {
			sentences = sentences[:rows]
		}

		resolver := s.resolver()
		hits := make([]domain.PaperHit, 0, len(sentences))
		for _, rec := range sentences {
			paper, err := s.enrich(ctx, resolver, rec.Paper)
			if err != nil {
				return nil, err
			}
			hits = append(hits, domain.PaperHit{Sentence: rec.Sentence, Paper: normalize.PaperFields(paper)})
		}

		return &Result[domain.PaperHit]{Items: hits, TotalCount: res.NumFound, Rows: rows, Query: res.EchoedQuery}, nil
	})
}

// TitleSearch finds papers whose title contains title as a phrase.
func (s *Service) TitleSearch(ctx context.Context, title string, rows int) (*Result[domain.PaperHit], error) {
	rows = s.clampRows(rows)
	return observe(ctx, s, KindTitle, title, rows, func(ctx context.Context) (*Result[domain.PaperHit], error) {
		return s.metadataSearch(ctx, domain.SearchRequest{
			Query:      title,
			Mode:       domain.ModeExact,
			Rows:       rows * s.config.RowMultiplier,
			Collection: domain.CollectionMetadata,
			Field:      solr.FieldTitle,
			Sort:       newestFirst(),
		}, rows, "")
	})
}

// AuthorSearch finds papers written by all of authors.
func (s *Service) AuthorSearch(ctx context.Context, authors []string, rows int) (*Result[domain.PaperHit], error) {
	rows = s.clampRows(rows)
	display := strings.Join(authors, " AND ")
	return observe(ctx, s, KindAuthors, display, rows, func(ctx context.Context) (*Result[domain.PaperHit], error) {
		if len(authors) == 0 {
			return emptyResult[domain.PaperHit](rows, display), nil
		}
		return s.metadataSearch(ctx, domain.SearchRequest{
			Authors:    authors,
			Mode:       domain.ModeConjunctive,
			Rows:       rows * s.config.RowMultiplier,
			Collection: domain.CollectionMetadata,
			Field:      solr.FieldAuthors,
			Sort:       newestFirst(),
		}, rows, display)
	})
}

// CitedPaperSearch finds sentences citing papers whose details match title.
func (s *Service) CitedPaperSearch(ctx context.Context, title string, rows int) (*Result[domain.EnrichedCitation], error) {
	rows = s.clampRows(rows)
	return observe(ctx, s, KindCitedPaper, title, rows, func(ctx context.Context) (*Result[domain.EnrichedCitation], error) {
		return s.citationSearch(ctx, title, domain.ModeProximityTitle, rows)
	})
}

// CitedAuthorSearch finds sentences citing papers whose details match authors.
func (s *Service) CitedAuthorSearch(ctx context.Context, authors string, rows int) (*Result[domain.EnrichedCitation], error) {
	rows = s.clampRows(rows)
	return observe(ctx, s, KindCitedAuthor, authors, rows, func(ctx context.Context) (*Result[domain.EnrichedCitation], error) {
		return s.citationSearch(ctx, authors, domain.ModeProximityAuthors, rows)
	})
}

func (s *Service) metadataSearch(ctx context.Context, req domain.SearchRequest, rows int, display string) (*Result[domain.PaperHit], error) {
	res, err := s.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	if display == "" {
		display = res.EchoedQuery
	}

	records := res.Metadata()
	if len(records) > rows {
		records = records[:rows]
	}

	resolver := s.resolver()
	hits := make([]domain.PaperHit, 0, len(records))
	for _, rec := range records {
		paper, err := s.enrich(ctx, resolver, rec.Paper)
		if err != nil {
			return nil, err
		}
		hits = append(hits, domain.PaperHit{Paper: normalize.PaperFields(paper)})
	}

	return &Result[domain.PaperHit]{Items: hits, TotalCount: res.NumFound, Rows: rows, Query: display}, nil
}

// citationSearch runs join, dedupe, group, sort, truncate, sentiment,
// normalize and highlight, in that order.
func (s *Service) citationSearch(ctx context.Context, query string, mode domain.SearchMode, rows int) (*Result[domain.EnrichedCitation], error) {
	opts := []citations.JoinerOption{
		citations.WithLogger(observability.LoggerFromContext(ctx, s.logger)),
		citations.WithMetrics(s.metrics),
	}
	if s.config.EnrichMetadata {
		opts = append(opts, citations.WithEnricher(NewResolver(s.searcher)))
	}
	joiner := citations.NewJoiner(s.searcher, citations.JoinerConfig{
		ReferenceRowCap:      s.config.ReferenceRowCap,
		AnnotationMultiplier: s.config.AnnotationMultiplier,
	}, opts...)

	joined, err := joiner.Join(ctx, query, mode, rows)
	if err != nil {
		return nil, err
	}

	display := solr.DisplayQuery(joined.EchoedQuery)
	if len(joined.Records) == 0 {
		res := emptyResult[domain.EnrichedCitation](rows, display)
		res.ReferenceMatches = joined.ReferenceMatches
		res.UnresolvedAnnotations = joined.UnresolvedAnnotations()
		return res, nil
	}

	groups := citations.Group(citations.Dedupe(joined.Records))
	citations.SortByPublishedDate(groups)
	total := len(groups)
	if len(groups) > rows {
		groups = groups[:rows]
	}

	items := make([]domain.EnrichedCitation, 0, len(groups))
	for _, g := range groups {
		s.annotator.AnnotateAll(g.Sentences)

		highlighted := make([]domain.HighlightedSentence, 0, len(g.Sentences))
		for _, sentence := range g.Sentences {
			highlighted = append(highlighted, citations.Highlight(g.Annotation, sentence))
		}

		items = append(items, domain.EnrichedCitation{
			Annotation:        g.Annotation,
			CitedPaperDetails: g.CitedPaperDetails,
			Sentences:         highlighted,
			Paper:             normalize.PaperFields(g.Paper),
		})
	}

	return &Result[domain.EnrichedCitation]{
		Items:                 items,
		TotalCount:            total,
		Rows:                  rows,
		Query:                 display,
		ReferenceMatches:      joined.ReferenceMatches,
		UnresolvedAnnotations: joined.UnresolvedAnnotations(),
	}, nil
}

// resolver returns a request-scoped Resolver, or nil when enrichment is off.
func (s *Service) resolver() *Resolver {
	if !s.config.EnrichMetadata {
		return nil
	}
	return NewResolver(s.searcher)
}

func (s *Service) enrich(ctx context.Context, r *Resolver, meta domain.PaperMetadata) (domain.PaperMetadata, error) {
	if r == nil {
		return meta, nil
	}
	return r.Enrich(ctx, meta)
}

// clampRows maps non-positive rows to the default and caps at MaxRows.
func (s *Service) clampRows(rows int) int {
	if rows <= 0 {
		return s.config.DefaultRows
	}
	if rows > s.config.MaxRows {
		return s.config.MaxRows
	}
	return rows
}

func newestFirst() *domain.SortSpec {
	return &domain.SortSpec{Field: solr.FieldPublishedDate, Direction: domain.SortDesc}
}

func emptyResult[T any](rows int, query string) *Result[T] {
	return &Result[T]{Items: []T{}, Rows: rows, Query: query}
}

// observe wraps an entry point with logging and metrics. Empty results are
// normalized so Items is never nil.
func observe[T any](ctx context.Context, s *Service, kind, query string, rows int,
	fn func(ctx context.Context) (*Result[T], error)) (*Result[T], error) {
	logger := observability.WithSearchContext(observability.LoggerFromContext(ctx, s.logger), kind, query, rows)
	ctx = observability.WithSearchKind(ctx, kind)

	if s.metrics != nil {
		s.metrics.RecordSearchStarted(kind)
	}
	logger.Info().Msg("search started")
	startTime := time.Now()

	res, err := fn(ctx)
	duration := time.Since(startTime)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSearchFailed(kind, duration.Seconds())
		}
		logger.Error().Err(err).Dur("duration", duration).Msg("search failed")
		return nil, err
	}

	if res.Items == nil {
		res.Items = []T{}
	}
	if s.metrics != nil {
		s.metrics.RecordSearchCompleted(kind, res.TotalCount, duration.Seconds())
	}
	logger.Info().
		Int("total_count", res.TotalCount).
		Int("items", len(res.Items)).
		Dur("duration", duration).
		Msg("search completed")

	return res, nil
}
