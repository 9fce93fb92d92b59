// Package normalize turns raw paper metadata into display strings.
package normalize

import (
	"strings"
	"time"

	"github.com/helixir/citation-search-service/internal/domain"
)

// Placeholders shown in place of missing metadata.
const (
	NoTitle         = "No title found for this result"
	NoAuthors       = "No author metadata found for this result"
	NoURL           = "No arXiV URL found for this result"
	NoPublishedDate = "No published date found for this result"
	NoDBLPURL       = "No DBLP URL found for this result"
)

const (
	// ListSeparator joins authors and dates.
	ListSeparator = "; "

	// RevisionsSuffix follows a date list with more than one entry.
	RevisionsSuffix = " (multiple dates indicate revisions to the paper)"

	isoDateLayout     = "2006-01-02"
	displayDateLayout = "January 02, 2006"
)

// FormatDates renders engine dates as "January 02, 2006" joined by "; ".
// A date that does not start with YYYY-MM-DD is kept verbatim. More than one
// date gets RevisionsSuffix. Blank entries are skipped; a list with none left
// renders as NoPublishedDate.
func FormatDates(dates []string) string {
	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		if strings.TrimSpace(d) == "" {
			continue
		}
		formatted = append(formatted, formatDate(d))
	}
	if len(formatted) == 0 {
		return NoPublishedDate
	}

	out := strings.Join(formatted, ListSeparator)
	if len(formatted) > 1 {
		out += RevisionsSuffix
	}
	return out
}

func formatDate(d string) string {
	day := d
	if len(day) > len(isoDateLayout) {
		day = day[:len(isoDateLayout)]
	}
	t, err := time.Parse(isoDateLayout, day)
	if err != nil {
		return d
	}
	return t.Format(displayDateLayout)
}

// JoinAuthors joins author names with "; ", skipping blank names, or returns
// NoAuthors when none remain.
func JoinAuthors(authors []string) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if strings.TrimSpace(a) != "" {
			names = append(names, a)
		}
	}
	if len(names) == 0 {
		return NoAuthors
	}
	return strings.Join(names, ListSeparator)
}

// MergeMetadata fills each missing field of primary from secondary.
func MergeMetadata(primary, secondary domain.PaperMetadata) domain.PaperMetadata {
	merged := primary
	if merged.Identifier == "" {
		merged.Identifier = secondary.Identifier
	}
	if merged.Title == "" {
		merged.Title = secondary.Title
	}
	if len(merged.Authors) == 0 {
		merged.Authors = secondary.Authors
	}
	if merged.URL == "" {
		merged.URL = secondary.URL
	}
	if len(merged.PublishedDates) == 0 {
		merged.PublishedDates = secondary.PublishedDates
	}
	if merged.RevisionDates == "" {
		merged.RevisionDates = secondary.RevisionDates
	}
	if merged.DBLPURL == "" {
		merged.DBLPURL = secondary.DBLPURL
	}
	return merged
}

// PaperFields renders meta for display. Missing title, authors, url and date
// get placeholders; a missing DBLP url stays empty so callers can decide
// whether to show NoDBLPURL.
func PaperFields(meta domain.PaperMetadata) domain.DisplayPaper {
	return domain.DisplayPaper{
		Identifier:    meta.Identifier,
		Title:         orPlaceholder(meta.Title, NoTitle),
		Authors:       JoinAuthors(meta.Authors),
		URL:           orPlaceholder(meta.URL, NoURL),
		PublishedDate: FormatDates(meta.PublishedDates),
		RevisionDates: meta.RevisionDates,
		DBLPURL:       meta.DBLPURL,
	}
}

// DBLPURLOrPlaceholder returns url, or NoDBLPURL when it is empty.
func DBLPURLOrPlaceholder(url string) string {
	return orPlaceholder(url, NoDBLPURL)
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
