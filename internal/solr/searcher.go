// Package solr provides the query builder, HTTP client and response parser
// for the Solr collections backing citation search.
//
// A search is always a single select call against one collection:
//
//	client := solr.New(cfg)
//	result, err := client.Search(ctx, domain.SearchRequest{
//		Query:      "knowledge base completion",
//		Mode:       domain.ModeExact,
//		Rows:       100,
//		Collection: domain.CollectionSentences,
//		Field:      "sentence",
//	})
package solr

import (
	"context"

	"github.com/helixir/citation-search-service/internal/domain"
)

// Searcher executes one logical search against one collection.
type Searcher interface {
	// Search issues the select call described by req and parses the response
	// into records of req.Collection's schema.
	//
	// Implementations should:
	//   - Respect context cancellation
	//   - Return an empty result, not an error, when nothing matches
	//   - Wrap engine failures so they match domain.ErrSearchEngineUnavailable
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
}
