// Package app assembles the search stack from configuration. It is shared by
// the server and the terminal client.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/helixir/citation-search-service/internal/config"
	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/observability"
	"github.com/helixir/citation-search-service/internal/search"
	"github.com/helixir/citation-search-service/internal/sentiment"
	"github.com/helixir/citation-search-service/internal/solr"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "citation_search"

// Stack is the assembled search stack.
type Stack struct {
	Solr    *solr.Client
	Model   *sentiment.Model
	Service *search.Service
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
}

// SolrConfig maps the solr section of cfg to a client config.
func SolrConfig(cfg *config.Config) solr.Config {
	cols := cfg.Solr.Collections
	return solr.Config{
		BaseURL:          cfg.Solr.BaseURL,
		Timeout:          cfg.Solr.Timeout,
		RateLimit:        cfg.Solr.RateLimit,
		BurstSize:        cfg.Solr.BurstSize,
		UserAgent:        cfg.Solr.UserAgent,
		MaxResponseBytes: cfg.Solr.MaxResponseBytes,
		Username:         cfg.Solr.Username,
		Password:         cfg.Solr.Password,
		Collections: map[domain.CollectionKind]string{
			domain.CollectionSentences:         cols.Sentences,
			domain.CollectionMetadata:          cols.Metadata,
			domain.CollectionSecondaryMetadata: cols.SecondaryMetadata,
			domain.CollectionReferences:        cols.References,
		},
	}
}

// SearchConfig maps the search section of cfg to a service config.
func SearchConfig(cfg *config.Config) search.Config {
	return search.Config{
		DefaultRows:          cfg.Search.DefaultRows,
		MaxRows:              cfg.Search.MaxRows,
		RowMultiplier:        cfg.Search.RowMultiplier,
		ReferenceRowCap:      cfg.Search.ReferenceRowCap,
		AnnotationMultiplier: cfg.Search.AnnotationMultiplier,
		EnrichMetadata:       cfg.Search.EnrichMetadata,
	}
}

// NewStack builds the Solr client, loads the sentiment model when enabled and
// wires both into a search Service. metrics may be nil.
func NewStack(cfg *config.Config, logger zerolog.Logger, metrics *observability.Metrics) (*Stack, error) {
	client := solr.New(SolrConfig(cfg), solr.WithLogger(logger), solr.WithMetrics(metrics))

	opts := []search.Option{
		search.WithLogger(logger),
		search.WithMetrics(metrics),
	}

	var model *sentiment.Model
	if cfg.Sentiment.Enabled {
		var err error
		model, err = sentiment.Load(cfg.Sentiment.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("load sentiment model: %w", err)
		}
		info := model.Info()
		logger.Info().
			Str("path", info.Path).
			Int("vocabulary_size", info.VocabularySize).
			Int("classes", len(info.Classes)).
			Msg("sentiment model loaded")
		opts = append(opts, search.WithAnnotator(sentiment.NewAnnotator(model, metrics)))
	} else {
		logger.Warn().Msg("sentiment annotation disabled")
	}

	return &Stack{
		Solr:    client,
		Model:   model,
		Service: search.NewService(client, SearchConfig(cfg), opts...),
	}, nil
}
