// Package citations joins citation annotations to the sentences that contain
// them and shapes the joined rows into per-paper groups.
package citations

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/observability"
	"github.com/helixir/citation-search-service/internal/solr"
)

const (
	// DefaultReferenceRowCap bounds the reference search. It must exceed the
	// number of references any query can match in the corpus.
	DefaultReferenceRowCap = 100000

	// DefaultAnnotationMultiplier bounds resolved annotations to rows times this.
	DefaultAnnotationMultiplier = 10
)

// MetadataEnricher fills in missing citing-paper metadata.
type MetadataEnricher interface {
	Enrich(ctx context.Context, meta domain.PaperMetadata) (domain.PaperMetadata, error)
}

// JoinerConfig holds the limits applied by a Joiner.
type JoinerConfig struct {
	ReferenceRowCap      int
	AnnotationMultiplier int
}

func (c *JoinerConfig) applyDefaults() {
	if c.ReferenceRowCap <= 0 {
		c.ReferenceRowCap = DefaultReferenceRowCap
	}
	if c.AnnotationMultiplier <= 0 {
		c.AnnotationMultiplier = DefaultAnnotationMultiplier
	}
}

// JoinResult is the output of a cross-collection join.
type JoinResult struct {
	Records []domain.CitationRecord

	// ReferenceMatches is numFound of the reference search.
	ReferenceMatches int

	// UniqueAnnotations counts distinct annotations before the cap.
	UniqueAnnotations int

	// SearchedAnnotations counts annotations looked up after the cap.
	SearchedAnnotations int

	// ResolvedAnnotations counts annotations with at least one sentence hit.
	ResolvedAnnotations int

	// EchoedQuery is the reference query as the engine saw it.
	EchoedQuery string
}

// UnresolvedAnnotations is the number of searched annotations without a hit.
func (r *JoinResult) UnresolvedAnnotations() int {
	return r.SearchedAnnotations - r.ResolvedAnnotations
}

// Joiner resolves the citing sentences of every annotation a reference search
// returns. Calls are issued sequentially.
type Joiner struct {
	searcher solr.Searcher
	enricher MetadataEnricher
	config   JoinerConfig
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

// JoinerOption configures optional Joiner dependencies.
type JoinerOption func(*Joiner)

// WithEnricher fills incomplete citing-paper metadata through e.
func WithEnricher(e MetadataEnricher) JoinerOption {
	return func(j *Joiner) { j.enricher = e }
}

// WithLogger sets the joiner logger.
func WithLogger(logger zerolog.Logger) JoinerOption {
	return func(j *Joiner) { j.logger = logger }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(metrics *observability.Metrics) JoinerOption {
	return func(j *Joiner) { j.metrics = metrics }
}

// NewJoiner creates a Joiner over searcher.
func NewJoiner(searcher solr.Searcher, cfg JoinerConfig, opts ...JoinerOption) *Joiner {
	cfg.applyDefaults()
	j := &Joiner{
		searcher: searcher,
		config:   cfg,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Join finds references whose cited-paper details match query in mode, then
// resolves each unique annotation to its citing sentences. mode must be
// ModeProximityTitle or ModeProximityAuthors.
func (j *Joiner) Join(ctx context.Context, query string, mode domain.SearchMode, rows int) (*JoinResult, error) {
	if mode != domain.ModeProximityTitle && mode != domain.ModeProximityAuthors {
		return nil, fmt.Errorf("join requires a proximity mode, got %q", mode)
	}

	refs, err := j.searcher.Search(ctx, domain.SearchRequest{
		Query:      query,
		Mode:       mode,
		Rows:       j.config.ReferenceRowCap,
		Collection: domain.CollectionReferences,
		Field:      solr.FieldCitedPaperDetails,
	})
	if err != nil {
		return nil, fmt.Errorf("searching references: %w", err)
	}

	result := &JoinResult{
		Records:          []domain.CitationRecord{},
		ReferenceMatches: refs.NumFound,
		EchoedQuery:      refs.EchoedQuery,
	}
	if refs.Empty() {
		return result, nil
	}

	annotations := uniqueAnnotations(refs.References())
	result.UniqueAnnotations = len(annotations)
	if limit := rows * j.config.AnnotationMultiplier; len(annotations) > limit {
		annotations = annotations[:limit]
	}
	result.SearchedAnnotations = len(annotations)

	for _, ref := range annotations {
		hits, err := j.searcher.Search(ctx, domain.SearchRequest{
			Query:      ref.Annotation,
			Mode:       domain.ModeExact,
			Rows:       rows,
			Collection: domain.CollectionSentences,
			Field:      solr.FieldSentence,
		})
		if err != nil {
			return nil, fmt.Errorf("searching sentences for annotation %q: %w", ref.Annotation, err)
		}
		if hits.Empty() {
			continue
		}
		result.ResolvedAnnotations++

		for _, s := range hits.Sentences() {
			paper, err := j.enrich(ctx, s.Paper)
			if err != nil {
				return nil, err
			}
			result.Records = append(result.Records, domain.CitationRecord{
				Annotation:        ref.Annotation,
				CitedPaperDetails: ref.CitedPaperDetails,
				Sentence:          s.Sentence,
				Paper:             paper,
			})
		}
	}

	if j.metrics != nil {
		j.metrics.RecordAnnotations(result.ResolvedAnnotations, result.UnresolvedAnnotations())
	}
	j.logger.Debug().
		Int("reference_matches", result.ReferenceMatches).
		Int("unique_annotations", result.UniqueAnnotations).
		Int("searched_annotations", result.SearchedAnnotations).
		Int("resolved_annotations", result.ResolvedAnnotations).
		Int("records", len(result.Records)).
		Msg("citation join completed")

	return result, nil
}

func (j *Joiner) enrich(ctx context.Context, meta domain.PaperMetadata) (domain.PaperMetadata, error) {
	if j.enricher == nil || meta.Complete() {
		return meta, nil
	}
	enriched, err := j.enricher.Enrich(ctx, meta)
	if err != nil {
		return meta, fmt.Errorf("enriching metadata for %q: %w", meta.Identifier, err)
	}
	return enriched, nil
}

// uniqueAnnotations keeps the first reference seen for each annotation, in
// encounter order. References without an annotation are skipped.
func uniqueAnnotations(refs []*domain.ReferenceRecord) []*domain.ReferenceRecord {
	seen := make(map[string]struct{}, len(refs))
	unique := make([]*domain.ReferenceRecord, 0, len(refs))
	for _, ref := range refs {
		if ref.Annotation == "" {
			continue
		}
		if _, ok := seen[ref.Annotation]; ok {
			continue
		}
		seen[ref.Annotation] = struct{}{}
		unique = append(unique, ref)
	}
	return unique
}
