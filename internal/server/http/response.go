package httpserver

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/search"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Search response types for JSON serialization.

type searchResponse[T any] struct {
	Kind                  string `json:"kind"`
	Query                 string `json:"query"`
	Rows                  int    `json:"rows"`
	TotalCount            int    `json:"total_count"`
	ReferenceMatches      int    `json:"reference_matches,omitempty"`
	UnresolvedAnnotations int    `json:"unresolved_annotations,omitempty"`
	Results               []T    `json:"results"`
}

type paperResponse struct {
	Identifier    string `json:"identifier"`
	Title         string `json:"title"`
	Authors       string `json:"authors"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
	RevisionDates string `json:"revision_dates,omitempty"`
	DBLPURL       string `json:"dblp_url,omitempty"`
}

type paperHitResponse struct {
	Sentence string        `json:"sentence,omitempty"`
	Paper    paperResponse `json:"paper"`
}

type sentenceResponse struct {
	Text           string `json:"text"`
	Found          bool   `json:"found"`
	AnnotationSpan string `json:"annotation_span"`
	BeforeSpan     string `json:"before_span"`
	AfterSpan      string `json:"after_span"`
}

type citationResponse struct {
	Annotation        string             `json:"annotation"`
	CitedPaperDetails string             `json:"cited_paper_details"`
	Sentences         []sentenceResponse `json:"sentences"`
	Paper             paperResponse      `json:"paper"`
}

// Conversion helpers.

func toPaperResponse(p domain.DisplayPaper) paperResponse {
	return paperResponse{
		Identifier:    p.Identifier,
		Title:         p.Title,
		Authors:       p.Authors,
		URL:           p.URL,
		PublishedDate: p.PublishedDate,
		RevisionDates: p.RevisionDates,
		DBLPURL:       p.DBLPURL,
	}
}

func toPaperHitResponse(h domain.PaperHit) paperHitResponse {
	return paperHitResponse{Sentence: h.Sentence, Paper: toPaperResponse(h.Paper)}
}

func toCitationResponse(c domain.EnrichedCitation) citationResponse {
	sentences := make([]sentenceResponse, 0, len(c.Sentences))
	for _, s := range c.Sentences {
		sentences = append(sentences, sentenceResponse{
			Text:           s.Text,
			Found:          s.Found,
			AnnotationSpan: s.AnnotationSpan,
			BeforeSpan:     s.BeforeSpan,
			AfterSpan:      s.AfterSpan,
		})
	}
	return citationResponse{
		Annotation:        c.Annotation,
		CitedPaperDetails: c.CitedPaperDetails,
		Sentences:         sentences,
		Paper:             toPaperResponse(c.Paper),
	}
}

func toSearchResponse[T, R any](kind string, res *search.Result[T], convert func(T) R) searchResponse[R] {
	results := make([]R, 0, len(res.Items))
	for _, item := range res.Items {
		results = append(results, convert(item))
	}
	return searchResponse[R]{
		Kind:                  kind,
		Query:                 res.Query,
		Rows:                  res.Rows,
		TotalCount:            res.TotalCount,
		ReferenceMatches:      res.ReferenceMatches,
		UnresolvedAnnotations: res.UnresolvedAnnotations,
		Results:               results,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
