package solr

// Field names of the Solr collection schemas.
const (
	FieldSentence          = "sentence"
	FieldSentenceNum       = "sentencenum"
	FieldArxivIdentifier   = "arxiv_identifier"
	FieldTitle             = "title"
	FieldAuthors           = "authors"
	FieldArxivURL          = "arxiv_url"
	FieldURL               = "url"
	FieldPublishedDate     = "published_date"
	FieldRevisionDates     = "revision_dates"
	FieldDBLPURL           = "dblp_url"
	FieldAnnotation        = "annotation"
	FieldCitedPaperDetails = "cited_paper_details"

	// Older index generations used these names.
	legacyFieldDetails  = "details"
	legacyFieldFileName = "fileName"
)

// selectResponse is the JSON envelope returned by the select handler.
type selectResponse struct {
	ResponseHeader responseHeader `json:"responseHeader"`
	Response       responseBody   `json:"response"`
	Error          *solrError     `json:"error,omitempty"`
}

type responseHeader struct {
	Status int            `json:"status"`
	QTime  int            `json:"QTime"`
	Params responseParams `json:"params"`
}

type responseParams struct {
	Q string `json:"q"`
}

type responseBody struct {
	NumFound int              `json:"numFound"`
	Start    int              `json:"start"`
	Docs     []map[string]any `json:"docs"`
}

// solrError is the error object Solr puts in non-2xx response bodies.
type solrError struct {
	Msg  string `json:"msg"`
	Code int    `json:"code"`
}

// pingResponse is the body of the admin ping handler.
type pingResponse struct {
	Status string `json:"status"`
}
