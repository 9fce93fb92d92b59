package citations

import (
	"sort"
	"strings"

	"github.com/helixir/citation-search-service/internal/domain"
)

// missingDBLPKey stands in for an absent DBLP url while grouping and is
// mapped back to "" afterwards.
const missingDBLPKey = "dummy value"

type dedupeKey struct {
	identifier string
	sentence   string
	annotation string
}

type groupKey struct {
	publishedDates string
	identifier     string
	title          string
	authors        string
	url            string
	revisionDates  string
	dblpURL        string
	annotation     string
	details        string
}

// Dedupe drops records that repeat an (identifier, sentence, annotation)
// triple, keeping the first occurrence.
func Dedupe(records []domain.CitationRecord) []domain.CitationRecord {
	seen := make(map[dedupeKey]struct{}, len(records))
	out := make([]domain.CitationRecord, 0, len(records))
	for _, r := range records {
		k := dedupeKey{identifier: r.Paper.Identifier, sentence: r.Sentence, annotation: r.Annotation}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Group merges records that share the full citing-paper and annotation
// identity into one group per combination. Groups appear in the order their
// first record was seen; sentences keep encounter order.
func Group(records []domain.CitationRecord) []domain.CitationGroup {
	index := make(map[groupKey]int, len(records))
	groups := make([]domain.CitationGroup, 0, len(records))

	for _, r := range records {
		k := keyOf(r)
		if i, ok := index[k]; ok {
			groups[i].Sentences = append(groups[i].Sentences, r.Sentence)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, domain.CitationGroup{
			Annotation:        r.Annotation,
			CitedPaperDetails: r.CitedPaperDetails,
			Sentences:         []string{r.Sentence},
			Paper:             r.Paper,
		})
	}

	for i := range groups {
		if groups[i].Paper.DBLPURL == missingDBLPKey {
			groups[i].Paper.DBLPURL = ""
		}
	}
	return groups
}

func keyOf(r domain.CitationRecord) groupKey {
	dblp := r.Paper.DBLPURL
	if dblp == "" {
		dblp = missingDBLPKey
	}
	return groupKey{
		publishedDates: strings.Join(r.Paper.PublishedDates, ";"),
		identifier:     r.Paper.Identifier,
		title:          r.Paper.Title,
		authors:        strings.Join(r.Paper.Authors, ";"),
		url:            r.Paper.URL,
		revisionDates:  r.Paper.RevisionDates,
		dblpURL:        dblp,
		annotation:     r.Annotation,
		details:        r.CitedPaperDetails,
	}
}

// SortByPublishedDate orders groups newest first by their first published
// date. Groups without a date go last; ties keep their order.
func SortByPublishedDate(groups []domain.CitationGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Paper.FirstPublished(), groups[j].Paper.FirstPublished()
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a > b
	})
}
