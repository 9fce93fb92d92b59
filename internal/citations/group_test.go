package citations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/citation-search-service/internal/domain"
)

func record(id, annotation, sentence string, dates ...string) domain.CitationRecord {
	paper := completePaper(id)
	paper.PublishedDates = dates
	return domain.CitationRecord{
		Annotation:        annotation,
		CitedPaperDetails: "details of " + annotation,
		Sentence:          sentence,
		Paper:             paper,
	}
}

func TestDedupe(t *testing.T) {
	records := []domain.CitationRecord{
		record("a", "[1]", "s1"),
		record("a", "[1]", "s1"),
		record("a", "[2]", "s1"),
		record("b", "[1]", "s1"),
		record("a", "[1]", "s2"),
	}
	records[1].CitedPaperDetails = "changed"

	out := Dedupe(records)

	require.Len(t, out, 4)
	assert.Equal(t, "details of [1]", out[0].CitedPaperDetails, "keeps first occurrence")
	assert.Equal(t, "[2]", out[1].Annotation)
	assert.Equal(t, "b", out[2].Paper.Identifier)
	assert.Equal(t, "s2", out[3].Sentence)
}

func TestGroup(t *testing.T) {
	t.Run("collects sentences per paper and annotation", func(t *testing.T) {
		groups := Group([]domain.CitationRecord{
			record("a", "[1]", "first"),
			record("b", "[1]", "other paper"),
			record("a", "[1]", "second"),
			record("a", "[2]", "different annotation"),
		})

		require.Len(t, groups, 3)
		assert.Equal(t, []string{"first", "second"}, groups[0].Sentences)
		assert.Equal(t, "a", groups[0].Paper.Identifier)
		assert.Equal(t, "b", groups[1].Paper.Identifier)
		assert.Equal(t, "[2]", groups[2].Annotation)
		for _, g := range groups {
			assert.NotEmpty(t, g.Sentences)
		}
	})

	t.Run("missing DBLP url groups together and stays empty", func(t *testing.T) {
		r1 := record("a", "[1]", "x")
		r2 := record("a", "[1]", "y")
		r1.Paper.DBLPURL = ""
		r2.Paper.DBLPURL = ""

		groups := Group([]domain.CitationRecord{r1, r2})
		require.Len(t, groups, 1)
		assert.Equal(t, "", groups[0].Paper.DBLPURL)
		assert.Equal(t, []string{"x", "y"}, groups[0].Sentences)
	})

	t.Run("differing metadata splits groups", func(t *testing.T) {
		r1 := record("a", "[1]", "x")
		r2 := record("a", "[1]", "y")
		r2.Paper.RevisionDates = "2019-01-01"

		assert.Len(t, Group([]domain.CitationRecord{r1, r2}), 2)
	})

	t.Run("is idempotent", func(t *testing.T) {
		records := []domain.CitationRecord{
			record("a", "[1]", "first"),
			record("b", "[1]", "other"),
			record("a", "[1]", "second"),
		}
		once := Group(records)
		twice := Group(flatten(once))
		assert.Equal(t, once, twice)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Group(nil))
	})
}

func TestSortByPublishedDate(t *testing.T) {
	groups := Group([]domain.CitationRecord{
		record("old", "[1]", "s", "2015-03-01T00:00:00Z"),
		record("none", "[1]", "s"),
		record("new", "[1]", "s", "2020-01-01T00:00:00Z", "2021-01-01T00:00:00Z"),
		record("mid", "[1]", "s", "2018-07-01T00:00:00Z"),
		record("mid2", "[1]", "s", "2018-07-01T00:00:00Z"),
	})

	SortByPublishedDate(groups)

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.Paper.Identifier)
	}
	assert.Equal(t, []string{"new", "mid", "mid2", "old", "none"}, ids)
}

func flatten(groups []domain.CitationGroup) []domain.CitationRecord {
	var records []domain.CitationRecord
	for _, g := range groups {
		for _, s := range g.Sentences {
			records = append(records, domain.CitationRecord{
				Annotation:        g.Annotation,
				CitedPaperDetails: g.CitedPaperDetails,
				Sentence:          s,
				Paper:             g.Paper,
			})
		}
	}
	return records
}
