package solr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/citation-search-service/internal/domain"
)

func TestParseResponse_Sentences(t *testing.T) {
	body := `{
		"responseHeader": {"status": 0, "QTime": 3, "params": {"q": "\"knowledge graph\""}},
		"response": {"numFound": 42, "start": 0, "docs": [
			{
				"sentence": ["We follow the approach of [1]."],
				"sentencenum": 7,
				"arxiv_identifier": "1802.01234",
				"title": "Graphs All The Way Down",
				"authors": ["Ann Lee", "Bo Chen"],
				"arxiv_url": "http://arxiv.org/abs/1802.01234",
				"published_date": ["2018-02-03T00:00:00Z", "2018-06-01T00:00:00Z"],
				"revision_dates": "2018-06-01",
				"dblp_url": "https://dblp.org/rec/x"
			},
			{
				"sentence": "A second sentence.",
				"fileName": "1901.00001",
				"url": "http://arxiv.org/abs/1901.00001"
			}
		]}
	}`

	result, err := ParseResponse(domain.CollectionSentences, strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, domain.CollectionSentences, result.Collection)
	assert.Equal(t, 42, result.NumFound)
	assert.Equal(t, `"knowledge graph"`, result.EchoedQuery)

	sentences := result.Sentences()
	require.Len(t, sentences, 2)

	first := sentences[0]
	assert.Equal(t, "We follow the approach of [1].", first.Sentence)
	assert.Equal(t, 7, first.SentenceNum)
	assert.Equal(t, "1802.01234", first.Paper.Identifier)
	assert.Equal(t, []string{"Ann Lee", "Bo Chen"}, first.Paper.Authors)
	assert.Equal(t, "http://arxiv.org/abs/1802.01234", first.Paper.URL)
	assert.Equal(t, []string{"2018-02-03T00:00:00Z", "2018-06-01T00:00:00Z"}, first.Paper.PublishedDates)
	assert.Equal(t, "2018-06-01", first.Paper.RevisionDates)
	assert.Equal(t, "https://dblp.org/rec/x", first.Paper.DBLPURL)

	second := sentences[1]
	assert.Equal(t, "A second sentence.", second.Sentence)
	assert.Equal(t, "1901.00001", second.Paper.Identifier, "legacy fileName alias")
	assert.Equal(t, "http://arxiv.org/abs/1901.00001", second.Paper.URL, "legacy url alias")
	assert.Empty(t, second.Paper.Title)
	assert.Nil(t, second.Paper.Authors)
	assert.Nil(t, second.Paper.PublishedDates)
	assert.Empty(t, second.Paper.DBLPURL)
}

func TestParseResponse_Metadata(t *testing.T) {
	body := `{"response": {"numFound": 1, "docs": [{
		"title": "Title",
		"authors": "Solo Author",
		"url": "http://arxiv.org/abs/2001.1",
		"arxiv_identifier": "2001.1",
		"published_date": "2020-01-01T00:00:00Z"
	}]}}`

	result, err := ParseResponse(domain.CollectionMetadata, strings.NewReader(body))
	require.NoError(t, err)

	meta := result.Metadata()
	require.Len(t, meta, 1)
	assert.Equal(t, []string{"Solo Author"}, meta[0].Paper.Authors)
	assert.Equal(t, []string{"2020-01-01T00:00:00Z"}, meta[0].Paper.PublishedDates)
	assert.Equal(t, "http://arxiv.org/abs/2001.1", meta[0].Paper.URL)
	assert.Empty(t, result.EchoedQuery)
}

func TestParseResponse_BlankListsAreMissing(t *testing.T) {
	body := `{"response": {"numFound": 2, "docs": [
		{"arxiv_identifier": "2001.1", "authors": [""], "published_date": [""]},
		{"arxiv_identifier": "2001.2", "authors": ["", "Ann Lee", " "], "published_date": " "}
	]}}`

	result, err := ParseResponse(domain.CollectionMetadata, strings.NewReader(body))
	require.NoError(t, err)

	meta := result.Metadata()
	require.Len(t, meta, 2)
	assert.Nil(t, meta[0].Paper.Authors)
	assert.Nil(t, meta[0].Paper.PublishedDates)
	assert.Equal(t, []string{"Ann Lee"}, meta[1].Paper.Authors)
	assert.Nil(t, meta[1].Paper.PublishedDates)
}

func TestParseResponse_SecondaryMetadata(t *testing.T) {
	body := `{"response": {"numFound": 1, "docs": [{
		"title": "Title",
		"authors": ["A", "B"],
		"url": "https://dblp.org/rec/journals/x",
		"arxiv_identifier": "2001.1"
	}]}}`

	result, err := ParseResponse(domain.CollectionSecondaryMetadata, strings.NewReader(body))
	require.NoError(t, err)

	secondary := result.SecondaryMetadata()
	require.Len(t, secondary, 1)
	assert.Equal(t, "https://dblp.org/rec/journals/x", secondary[0].Paper.DBLPURL)
	assert.Empty(t, secondary[0].Paper.URL)
}

func TestParseResponse_References(t *testing.T) {
	body := `{"response": {"numFound": 3, "docs": [
		{"annotation": "[1]", "cited_paper_details": "Knowledge base completion via search"},
		{"annotation": "Lee et al., 2018", "details": ["Legacy details"]},
		{"annotation": "[2]"}
	]}}`

	result, err := ParseResponse(domain.CollectionReferences, strings.NewReader(body))
	require.NoError(t, err)

	refs := result.References()
	require.Len(t, refs, 3)
	assert.Equal(t, "[1]", refs[0].Annotation)
	assert.Equal(t, "Knowledge base completion via search", refs[0].CitedPaperDetails)
	assert.Equal(t, "Legacy details", refs[1].CitedPaperDetails)
	assert.Empty(t, refs[2].CitedPaperDetails)
}

func TestParseResponse_Empty(t *testing.T) {
	body := `{"responseHeader": {"params": {"q": "\"nothing\""}}, "response": {"numFound": 0, "docs": []}}`

	result, err := ParseResponse(domain.CollectionSentences, strings.NewReader(body))
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Equal(t, 0, result.NumFound)
	assert.Equal(t, `"nothing"`, result.EchoedQuery)
}

func TestParseResponse_Errors(t *testing.T) {
	t.Run("malformed JSON", func(t *testing.T) {
		_, err := ParseResponse(domain.CollectionSentences, strings.NewReader(`{"response":`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding select response")
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := ParseResponse(domain.CollectionKind("bogus"), strings.NewReader(`{"response":{"docs":[{}]}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown collection kind")
	})
}

func TestFieldHelpers(t *testing.T) {
	doc := map[string]any{
		"num":        float64(12),
		"num_list":   []any{float64(3)},
		"str_num":    "9",
		"empty_list": []any{},
		"nil":        nil,
		"mixed":      []any{"a", float64(1)},
	}

	assert.Equal(t, 12, intField(doc, "num"))
	assert.Equal(t, 3, intField(doc, "num_list"))
	assert.Equal(t, 9, intField(doc, "str_num"))
	assert.Equal(t, 0, intField(doc, "missing"))
	assert.Equal(t, "", stringField(doc, "empty_list"))
	assert.Equal(t, "", stringField(doc, "nil"))
	assert.Equal(t, "12", stringField(doc, "missing", "num"), "falls through to the next key")
	assert.Equal(t, []string{"a", "1"}, stringsField(doc, "mixed"))
	assert.Nil(t, stringsField(doc, "empty_list"))
}
