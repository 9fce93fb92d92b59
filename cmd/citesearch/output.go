package main

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/search"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// cellReplacer keeps every value on one tab-separated line.
var cellReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRow(w io.Writer, cells ...string) error {
	for i, c := range cells {
		cells[i] = cellReplacer.Replace(c)
	}
	_, err := fmt.Fprintln(w, strings.Join(cells, "\t"))
	return err
}

// formatHits writes one row per hit: date, identifier, title, authors, url
// and, for phrase searches, the sentence.
func formatHits(w io.Writer, res *search.Result[domain.PaperHit]) error {
	if _, err := fmt.Fprintln(w, summaryLine(len(res.Items), res.TotalCount, res.Query)); err != nil {
		return err
	}
	for _, hit := range res.Items {
		p := hit.Paper
		cells := []string{p.PublishedDate, p.Identifier, p.Title, p.Authors, p.URL}
		if hit.Sentence != "" {
			cells = append(cells, hit.Sentence)
		}
		if err := writeRow(w, cells...); err != nil {
			return err
		}
	}
	return nil
}

// formatCitations writes one row per citing sentence: date, identifier,
// title, annotation and the sentence with the annotation bracketed.
func formatCitations(w io.Writer, res *search.Result[domain.EnrichedCitation]) error {
	if _, err := fmt.Fprintln(w, summaryLine(len(res.Items), res.TotalCount, res.Query)); err != nil {
		return err
	}
	for _, c := range res.Items {
		p := c.Paper
		for _, s := range c.Sentences {
			text := s.Text
			if s.Found {
				text = s.Before() + "[[" + s.Annotation() + "]]" + s.After()
			}
			if err := writeRow(w, p.PublishedDate, p.Identifier, p.Title, c.Annotation, text); err != nil {
				return err
			}
		}
	}
	return nil
}
