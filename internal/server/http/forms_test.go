package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/citation-search-service/internal/domain"
)

func formRequest(rawQuery string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/phrasesearch?"+rawQuery, nil)
}

func TestFormParser_Parse(t *testing.T) {
	p := newFormParser(100, 100, 1000)

	tests := []struct {
		name      string
		rawQuery  string
		wantQuery string
		wantRows  int
		wantField string
	}{
		{name: "defaults rows", rawQuery: "query=graph+neural", wantQuery: "graph neural", wantRows: 100},
		{name: "explicit rows", rawQuery: "query=x&numrows=5", wantQuery: "x", wantRows: 5},
		{name: "strips surrounding quotes", rawQuery: `query=%22knowledge+base%22`, wantQuery: "knowledge base", wantRows: 100},
		{name: "keeps inner quotes", rawQuery: `query=a+%22b%22+c`, wantQuery: `a "b" c`, wantRows: 100},
		{name: "max rows", rawQuery: "query=x&numrows=1000", wantQuery: "x", wantRows: 1000},
		{name: "empty query", rawQuery: "query=", wantField: fieldQuery},
		{name: "only quotes", rawQuery: `query=%22%22`, wantField: fieldQuery},
		{name: "too long", rawQuery: "query=" + strings.Repeat("a", 101), wantField: fieldQuery},
		{name: "zero rows", rawQuery: "query=x&numrows=0", wantField: fieldNumRows},
		{name: "too many rows", rawQuery: "query=x&numrows=1001", wantField: fieldNumRows},
		{name: "non numeric rows", rawQuery: "query=x&numrows=ten", wantField: fieldNumRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, err := p.parse(formRequest(tt.rawQuery))
			if tt.wantField != "" {
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, form.Query)
			assert.Equal(t, tt.wantRows, form.Rows)
		})
	}
}

func TestFormParser_Messages(t *testing.T) {
	p := newFormParser(10, 100, 1000)

	_, err := p.parse(formRequest("query="))
	assert.EqualError(t, err, "validation error: query: this field is required")

	_, err = p.parse(formRequest("query=" + strings.Repeat("b", 11)))
	assert.EqualError(t, err, "validation error: query: must be at most 10 characters")

	_, err = p.parse(formRequest("query=x&numrows=-1"))
	assert.EqualError(t, err, "validation error: numrows: must be between 1 and 1000")
}

func TestFormParser_ParseAuthors(t *testing.T) {
	p := newFormParser(100, 100, 1000)

	form, err := p.parseAuthors(formRequest("query=Jane+Doe%3B+John+Smith%3B+"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, form.Authors)

	_, err = p.parseAuthors(formRequest("query=%3B+%3B"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, fieldQuery, verr.Field)
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "a b", stripQuotes(`"a b"`))
	assert.Equal(t, `"a b`, stripQuotes(`"a b`))
	assert.Equal(t, `"inner"`, stripQuotes(`""inner""`))
	assert.Equal(t, `"`, stripQuotes(`"`))
}
