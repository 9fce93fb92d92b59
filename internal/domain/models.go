// Package domain provides the domain models shared by the citation search pipeline.
package domain

import "strings"

// SearchMode selects how raw user text is turned into an engine query.
type SearchMode string

const (
	// ModeExact matches the text as a quoted phrase.
	ModeExact SearchMode = "exact"
	// ModeProximityTitle matches a phrase with slop equal to its word count.
	ModeProximityTitle SearchMode = "proximity_title"
	// ModeProximityAuthors matches a phrase with slop of word count plus 8.
	ModeProximityAuthors SearchMode = "proximity_authors"
	// ModeConjunctive requires every name in an author list, each with its own slop.
	ModeConjunctive SearchMode = "conjunctive"
)

// IsValid reports whether m is a known search mode.
func (m SearchMode) IsValid() bool {
	switch m {
	case ModeExact, ModeProximityTitle, ModeProximityAuthors, ModeConjunctive:
		return true
	default:
		return false
	}
}

// CollectionKind identifies the schema of a Solr collection. The concrete
// collection name for each kind is configured separately.
type CollectionKind string

const (
	// CollectionSentences holds citation-context sentences with citing paper metadata.
	CollectionSentences CollectionKind = "sentences"
	// CollectionMetadata holds authoritative arXiv metadata.
	CollectionMetadata CollectionKind = "metadata"
	// CollectionSecondaryMetadata holds DBLP metadata.
	CollectionSecondaryMetadata CollectionKind = "secondary_metadata"
	// CollectionReferences holds citation annotations and cited paper details.
	CollectionReferences CollectionKind = "references"
)

// String returns the string representation of the collection kind.
func (k CollectionKind) String() string {
	return string(k)
}

// SortDirection is the ordering applied to a sort field.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec is an engine-side sort on a single field.
type SortSpec struct {
	Field     string
	Direction SortDirection
}

// String renders the sort in engine syntax, e.g. "published_date desc".
func (s SortSpec) String() string {
	return s.Field + " " + string(s.Direction)
}

// SearchRequest describes one logical search against one collection.
// Authors is only read in ModeConjunctive; Query is read otherwise.
type SearchRequest struct {
	Query      string
	Authors    []string
	Mode       SearchMode
	Rows       int
	Collection CollectionKind
	Field      string
	Sort       *SortSpec
}

// PaperMetadata is the metadata of one paper as stored in the index. The zero
// value of each field marks it as missing.
type PaperMetadata struct {
	Identifier     string
	Title          string
	Authors        []string
	URL            string
	PublishedDates []string
	RevisionDates  string
	DBLPURL        string
}

// Complete reports whether every field that would otherwise render as a
// placeholder is present. DBLPURL is optional and does not count.
func (p PaperMetadata) Complete() bool {
	return p.Title != "" && len(p.Authors) > 0 && p.URL != "" &&
		len(p.PublishedDates) > 0
}

// FirstPublished returns the earliest listed publication date, or "".
func (p PaperMetadata) FirstPublished() string {
	if len(p.PublishedDates) == 0 {
		return ""
	}
	return p.PublishedDates[0]
}

// Record is one parsed engine document. It is implemented only by the
// per-collection record types in this package.
type Record interface {
	Kind() CollectionKind
	isRecord()
}

// SentenceRecord is a document of the sentences collection.
type SentenceRecord struct {
	Sentence    string
	SentenceNum int
	Paper       PaperMetadata
}

// MetadataRecord is a document of the authoritative metadata collection.
type MetadataRecord struct {
	Paper PaperMetadata
}

// SecondaryMetadataRecord is a document of the DBLP metadata collection. Its
// url field is stored as Paper.DBLPURL.
type SecondaryMetadataRecord struct {
	Paper PaperMetadata
}

// ReferenceRecord is a document of the references collection.
type ReferenceRecord struct {
	Annotation        string
	CitedPaperDetails string
}

func (*SentenceRecord) Kind() CollectionKind          { return CollectionSentences }
func (*MetadataRecord) Kind() CollectionKind          { return CollectionMetadata }
func (*SecondaryMetadataRecord) Kind() CollectionKind { return CollectionSecondaryMetadata }
func (*ReferenceRecord) Kind() CollectionKind         { return CollectionReferences }

func (*SentenceRecord) isRecord()          {}
func (*MetadataRecord) isRecord()          {}
func (*SecondaryMetadataRecord) isRecord() {}
func (*ReferenceRecord) isRecord()         {}

// SearchResult is the parsed response of one select call. All records share
// the schema named by Collection.
type SearchResult struct {
	Collection  CollectionKind
	Records     []Record
	NumFound    int
	EchoedQuery string
}

// Empty reports whether the search matched nothing.
func (r *SearchResult) Empty() bool {
	return r == nil || len(r.Records) == 0
}

// Sentences returns the sentence records in engine order.
func (r *SearchResult) Sentences() []*SentenceRecord {
	out := make([]*SentenceRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if s, ok := rec.(*SentenceRecord); ok {
			out = append(out, s)
		}
	}
	return out
}

// Metadata returns the authoritative metadata records in engine order.
func (r *SearchResult) Metadata() []*MetadataRecord {
	out := make([]*MetadataRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if m, ok := rec.(*MetadataRecord); ok {
			out = append(out, m)
		}
	}
	return out
}

// SecondaryMetadata returns the DBLP metadata records in engine order.
func (r *SearchResult) SecondaryMetadata() []*SecondaryMetadataRecord {
	out := make([]*SecondaryMetadataRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if m, ok := rec.(*SecondaryMetadataRecord); ok {
			out = append(out, m)
		}
	}
	return out
}

// References returns the reference records in engine order.
func (r *SearchResult) References() []*ReferenceRecord {
	out := make([]*ReferenceRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if ref, ok := rec.(*ReferenceRecord); ok {
			out = append(out, ref)
		}
	}
	return out
}

// CitationRecord joins one citing sentence to the annotation it contains.
type CitationRecord struct {
	Annotation        string
	CitedPaperDetails string
	Sentence          string
	Paper             PaperMetadata
}

// CitationGroup collects every sentence in which one citing paper cites one
// annotation. Sentences keep encounter order and are never empty.
type CitationGroup struct {
	Annotation        string
	CitedPaperDetails string
	Sentences         []string
	Paper             PaperMetadata
}

// Sentiment is the polarity a citing sentence expresses toward the cited work.
type Sentiment string

const (
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentPositive Sentiment = "positive"
)

// SentimentFromLabel maps a classifier label ("o", "n", "p") to a Sentiment.
func SentimentFromLabel(label string) (Sentiment, bool) {
	switch label {
	case "o":
		return SentimentNeutral, true
	case "n":
		return SentimentNegative, true
	case "p":
		return SentimentPositive, true
	default:
		return "", false
	}
}

// DisplayPaper is PaperMetadata rendered for presentation. Placeholders
// replace missing title, authors, url and date. DBLPURL stays empty when absent.
type DisplayPaper struct {
	Identifier    string `json:"identifier"`
	Title         string `json:"title"`
	Authors       string `json:"authors"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
	RevisionDates string `json:"revision_dates,omitempty"`
	DBLPURL       string `json:"dblp_url,omitempty"`
}

// HighlightedSentence locates the annotation inside a citing sentence. The
// spans use "start:end" slice notation over the sentence characters; Start
// and End are the matching byte offsets into Text.
type HighlightedSentence struct {
	Text           string `json:"text"`
	Found          bool   `json:"found"`
	Start          int    `json:"-"`
	End            int    `json:"-"`
	AnnotationSpan string `json:"annotation_span"`
	BeforeSpan     string `json:"before_span"`
	AfterSpan      string `json:"after_span"`
}

// Before returns the text preceding the annotation.
func (h HighlightedSentence) Before() string {
	return h.Text[:h.Start]
}

// Annotation returns the annotation text as it appears in the sentence.
func (h HighlightedSentence) Annotation() string {
	return h.Text[h.Start:h.End]
}

// After returns the text following the annotation.
func (h HighlightedSentence) After() string {
	return h.Text[h.End:]
}

// EnrichedCitation is a display-ready citation group. Each sentence already
// carries its polarity marker.
type EnrichedCitation struct {
	Annotation        string                `json:"annotation"`
	CitedPaperDetails string                `json:"cited_paper_details"`
	Sentences         []HighlightedSentence `json:"sentences"`
	Paper             DisplayPaper          `json:"paper"`
}

// PaperHit is a display-ready row of a phrase, title or author search.
// Sentence is empty for metadata searches.
type PaperHit struct {
	Sentence string       `json:"sentence,omitempty"`
	Paper    DisplayPaper `json:"paper"`
}

// SplitAuthors splits a semicolon separated author query into trimmed names,
// dropping empty entries.
func SplitAuthors(query string) []string {
	parts := strings.Split(query, ";")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}
