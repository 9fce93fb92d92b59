package app

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/citation-search-service/internal/config"
	"github.com/helixir/citation-search-service/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Logging: config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
		Solr: config.SolrConfig{
			BaseURL:          "http://solr.internal:8983/solr",
			Timeout:          5 * time.Second,
			RateLimit:        20,
			BurstSize:        4,
			UserAgent:        "test-agent",
			MaxResponseBytes: 1 << 20,
			Username:         "reader",
			Password:         "secret",
			Collections: config.CollectionsConfig{
				Sentences:         "sentences_v3",
				Metadata:          "arxiv_v3",
				SecondaryMetadata: "dblp_v3",
				References:        "refs_v3",
			},
		},
		Search: config.SearchConfig{
			DefaultRows:          50,
			MaxRows:              500,
			RowMultiplier:        5,
			ReferenceRowCap:      1000,
			AnnotationMultiplier: 3,
			EnrichMetadata:       true,
		},
		Sentiment: config.SentimentConfig{
			Enabled:   true,
			ModelPath: "../../models/citation_model_pipeline.json",
		},
	}
}

func TestSolrConfig(t *testing.T) {
	got := SolrConfig(testConfig())

	assert.Equal(t, "http://solr.internal:8983/solr", got.BaseURL)
	assert.Equal(t, 5*time.Second, got.Timeout)
	assert.Equal(t, 20.0, got.RateLimit)
	assert.Equal(t, 4, got.BurstSize)
	assert.Equal(t, "reader", got.Username)
	assert.Equal(t, map[domain.CollectionKind]string{
		domain.CollectionSentences:         "sentences_v3",
		domain.CollectionMetadata:          "arxiv_v3",
		domain.CollectionSecondaryMetadata: "dblp_v3",
		domain.CollectionReferences:        "refs_v3",
	}, got.Collections)
}

func TestSearchConfig(t *testing.T) {
	got := SearchConfig(testConfig())

	assert.Equal(t, 50, got.DefaultRows)
	assert.Equal(t, 500, got.MaxRows)
	assert.Equal(t, 5, got.RowMultiplier)
	assert.Equal(t, 1000, got.ReferenceRowCap)
	assert.Equal(t, 3, got.AnnotationMultiplier)
	assert.True(t, got.EnrichMetadata)
}

func TestNewStack(t *testing.T) {
	t.Run("loads the model when sentiment is enabled", func(t *testing.T) {
		stack, err := NewStack(testConfig(), zerolog.Nop(), nil)
		require.NoError(t, err)
		require.NotNil(t, stack.Model)
		assert.NotNil(t, stack.Service)
		assert.Equal(t, "refs_v3", stack.Solr.CollectionName(domain.CollectionReferences))
	})

	t.Run("skips the model when sentiment is disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Sentiment.Enabled = false
		cfg.Sentiment.ModelPath = "does-not-exist.json"

		stack, err := NewStack(cfg, zerolog.Nop(), nil)
		require.NoError(t, err)
		assert.Nil(t, stack.Model)
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := testConfig()
		cfg.Sentiment.ModelPath = "does-not-exist.json"

		_, err := NewStack(cfg, zerolog.Nop(), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
