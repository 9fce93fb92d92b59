package solr

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"

	"github.com/helixir/citation-search-service/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseResponse decodes a select response body into records of the given
// collection kind. Document order is preserved. Missing fields decode to their
// zero value; they never cause an error.
func ParseResponse(kind domain.CollectionKind, body io.Reader) (*domain.SearchResult, error) {
	var envelope selectResponse
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding select response: %w", err)
	}

	records := make([]domain.Record, 0, len(envelope.Response.Docs))
	for _, doc := range envelope.Response.Docs {
		rec, err := parseDocument(kind, doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return &domain.SearchResult{
		Collection:  kind,
		Records:     records,
		NumFound:    envelope.Response.NumFound,
		EchoedQuery: envelope.ResponseHeader.Params.Q,
	}, nil
}

func parseDocument(kind domain.CollectionKind, doc map[string]any) (domain.Record, error) {
	switch kind {
	case domain.CollectionSentences:
		return &domain.SentenceRecord{
			Sentence:    stringField(doc, FieldSentence),
			SentenceNum: intField(doc, FieldSentenceNum),
			Paper: domain.PaperMetadata{
				Identifier:     stringField(doc, FieldArxivIdentifier, legacyFieldFileName),
				Title:          stringField(doc, FieldTitle),
				Authors:        stringsField(doc, FieldAuthors),
				URL:            stringField(doc, FieldArxivURL, FieldURL),
				PublishedDates: stringsField(doc, FieldPublishedDate),
				RevisionDates:  stringField(doc, FieldRevisionDates),
				DBLPURL:        stringField(doc, FieldDBLPURL),
			},
		}, nil
	case domain.CollectionMetadata:
		return &domain.MetadataRecord{
			Paper: domain.PaperMetadata{
				Identifier:     stringField(doc, FieldArxivIdentifier),
				Title:          stringField(doc, FieldTitle),
				Authors:        stringsField(doc, FieldAuthors),
				URL:            stringField(doc, FieldURL, FieldArxivURL),
				PublishedDates: stringsField(doc, FieldPublishedDate),
				RevisionDates:  stringField(doc, FieldRevisionDates),
				DBLPURL:        stringField(doc, FieldDBLPURL),
			},
		}, nil
	case domain.CollectionSecondaryMetadata:
		return &domain.SecondaryMetadataRecord{
			Paper: domain.PaperMetadata{
				Identifier: stringField(doc, FieldArxivIdentifier),
				Title:      stringField(doc, FieldTitle),
				Authors:    stringsField(doc, FieldAuthors),
				DBLPURL:    stringField(doc, FieldURL, FieldDBLPURL),
			},
		}, nil
	case domain.CollectionReferences:
		return &domain.ReferenceRecord{
			Annotation:        stringField(doc, FieldAnnotation),
			CitedPaperDetails: stringField(doc, FieldCitedPaperDetails, legacyFieldDetails),
		}, nil
	default:
		return nil, fmt.Errorf("unknown collection kind %q", kind)
	}
}

// lookup returns the value of the first key present in doc.
func lookup(doc map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := doc[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringField reads a scalar field. Multi-valued fields yield their first value.
func stringField(doc map[string]any, keys ...string) string {
	v, ok := lookup(doc, keys...)
	if !ok {
		return ""
	}
	if list, isList := v.([]any); isList {
		if len(list) == 0 {
			return ""
		}
		v = list[0]
	}
	return cast.ToString(v)
}

// stringsField reads a field that may be a single value or a list.
func stringsField(doc map[string]any, keys ...string) []string {
	v, ok := lookup(doc, keys...)
	if !ok {
		return nil
	}
	if list, isList := v.([]any); isList {
		return nonBlank(cast.ToStringSlice(list))
	}
	return nonBlank([]string{cast.ToString(v)})
}

// nonBlank drops empty and whitespace-only entries. An all-blank list is nil.
func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func intField(doc map[string]any, keys ...string) int {
	v, ok := lookup(doc, keys...)
	if !ok {
		return 0
	}
	if list, isList := v.([]any); isList {
		if len(list) == 0 {
			return 0
		}
		v = list[0]
	}
	return cast.ToInt(v)
}
