package search

import (
	"context"
	"fmt"

	"github.com/helixir/citation-search-service/internal/citations"
	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/normalize"
	"github.com/helixir/citation-search-service/internal/solr"
)

// Resolver fills missing paper metadata from the authoritative metadata
// collection, then from the secondary one. Lookups are cached by identifier
// for the Resolver's lifetime, which is a single request.
type Resolver struct {
	searcher solr.Searcher
	cache    map[string]domain.PaperMetadata
}

// Ensure Resolver implements citations.MetadataEnricher.
var _ citations.MetadataEnricher = (*Resolver)(nil)

// NewResolver creates a request-scoped Resolver.
func NewResolver(searcher solr.Searcher) *Resolver {
	return &Resolver{
		searcher: searcher,
		cache:    make(map[string]domain.PaperMetadata),
	}
}

// Enrich returns meta with each missing field taken from the metadata
// collections. Fields already present in meta are kept.
func (r *Resolver) Enrich(ctx context.Context, meta domain.PaperMetadata) (domain.PaperMetadata, error) {
	if meta.Identifier == "" || meta.Complete() {
		return meta, nil
	}

	found, ok := r.cache[meta.Identifier]
	if !ok {
		var err error
		found, err = r.lookup(ctx, meta.Identifier)
		if err != nil {
			return meta, err
		}
		r.cache[meta.Identifier] = found
	}

	return normalize.MergeMetadata(meta, found), nil
}

func (r *Resolver) lookup(ctx context.Context, identifier string) (domain.PaperMetadata, error) {
	var found domain.PaperMetadata

	primary, err := r.searcher.Search(ctx, byIdentifier(identifier, domain.CollectionMetadata))
	if err != nil {
		return found, fmt.Errorf("looking up metadata for %q: %w", identifier, err)
	}
	if recs := primary.Metadata(); len(recs) > 0 {
		found = recs[0].Paper
	}
	if found.Complete() {
		return found, nil
	}

	secondary, err := r.searcher.Search(ctx, byIdentifier(identifier, domain.CollectionSecondaryMetadata))
	if err != nil {
		return found, fmt.Errorf("looking up secondary metadata for %q: %w", identifier, err)
	}
	if recs := secondary.SecondaryMetadata(); len(recs) > 0 {
		found = normalize.MergeMetadata(found, recs[0].Paper)
	}
	return found, nil
}

func byIdentifier(identifier string, kind domain.CollectionKind) domain.SearchRequest {
	return domain.SearchRequest{
		Query:      identifier,
		Mode:       domain.ModeExact,
		Rows:       1,
		Collection: kind,
		Field:      solr.FieldArxivIdentifier,
	}
}
