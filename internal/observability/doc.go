// Package observability provides logging and metrics support for the
// citation search service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog, optionally rotated to a file
//   - Prometheus metrics for searches, Solr requests and sentiment
//   - Context helpers for propagating request identifiers
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "/var/log/citesearch/server.log",
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("request_id", reqID).Msg("search started")
//
// Add search context to logger:
//
//	logger = observability.WithSearchContext(logger, "cited_paper", query, rows)
//
// # Metrics
//
//	metrics := observability.NewMetrics("citation_search")
//	metrics.RecordSearchStarted("phrase")
//	metrics.RecordSolrRequest("papers_plus", elapsed.Seconds())
//
// # Standard Fields
//
//   - request_id: chi request identifier
//   - correlation_id: caller supplied or generated correlation identifier
//   - search_kind: phrase, title, authors, cited_paper, cited_author
//   - query: user query text
//   - collection: Solr collection name
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
