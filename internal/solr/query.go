package solr

import (
	"strconv"
	"strings"

	"github.com/helixir/citation-search-service/internal/domain"
)

// authorSlopBonus widens proximity for author lists, where first names,
// initials and separators sit between the words of the query.
const authorSlopBonus = 8

// BuildQuery renders text as an engine query for the given mode.
// ModeConjunctive treats text as a single author name; use BuildAuthorsQuery
// for lists.
func BuildQuery(text string, mode domain.SearchMode) string {
	switch mode {
	case domain.ModeProximityTitle:
		return proximity(text, wordCount(text))
	case domain.ModeProximityAuthors:
		return proximity(text, wordCount(text)+authorSlopBonus)
	case domain.ModeConjunctive:
		return BuildAuthorsQuery([]string{text})
	default:
		return quote(text)
	}
}

// BuildAuthorsQuery joins one proximity clause per author with AND. Each
// clause allows one more position than the name has words.
func BuildAuthorsQuery(authors []string) string {
	clauses := make([]string, 0, len(authors))
	for _, name := range authors {
		clauses = append(clauses, proximity(name, wordCount(name)+1))
	}
	return strings.Join(clauses, " AND ")
}

// BuildRequestQuery renders the q parameter for req.
func BuildRequestQuery(req domain.SearchRequest) string {
	if req.Mode == domain.ModeConjunctive && len(req.Authors) > 0 {
		return BuildAuthorsQuery(req.Authors)
	}
	return BuildQuery(req.Query, req.Mode)
}

// ExtractPhrase returns the text inside the outermost quotes of a built query.
// Queries without quotes are returned unchanged.
func ExtractPhrase(q string) string {
	first := strings.IndexByte(q, '"')
	last := strings.LastIndexByte(q, '"')
	if first < 0 || last <= first {
		return q
	}
	return q[first+1 : last]
}

// DisplayQuery drops everything after the last double quote, which removes
// the trailing slop of a proximity query.
func DisplayQuery(q string) string {
	last := strings.LastIndexByte(q, '"')
	if last < 0 {
		return q
	}
	return q[:last+1]
}

func quote(text string) string {
	return `"` + text + `"`
}

func proximity(text string, slop int) string {
	return quote(text) + "~" + strconv.Itoa(slop)
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
