package httpserver

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/normalize"
	"github.com/helixir/citation-search-service/internal/search"
)

//go:embed templates/*.html
var templateFS embed.FS

// searchPage describes one search form and its JSON API counterpart.
type searchPage struct {
	Kind    string
	Path    string
	Heading string
	Label   string
	Help    string

	apiName   string
	authors   bool
	citations bool
}

var (
	phrasePage = searchPage{
		Kind:    search.KindPhrase,
		Path:    "/phrasesearch",
		Heading: "Phrase search",
		Label:   "Phrase",
		Help:    "Finds citation sentences containing the exact phrase.",
		apiName: "phrase",
	}
	titlePage = searchPage{
		Kind:    search.KindTitle,
		Path:    "/titlesearch",
		Heading: "Title search",
		Label:   "Title",
		Help:    "Finds papers whose title contains the exact phrase.",
		apiName: "title",
	}
	authorPage = searchPage{
		Kind:    search.KindAuthors,
		Path:    "/authorsearch",
		Heading: "Author search",
		Label:   "Authors",
		Help:    "Finds papers written by all of the given authors. Separate names with a semicolon.",
		apiName: "authors",
		authors: true,
	}
	citedPaperPage = searchPage{
		Kind:      search.KindCitedPaper,
		Path:      "/citedpapersearch",
		Heading:   "Cited paper search",
		Label:     "Cited paper title",
		Help:      "Finds sentences that cite a paper with a matching title.",
		apiName:   "cited-papers",
		citations: true,
	}
	citedAuthorPage = searchPage{
		Kind:      search.KindCitedAuthor,
		Path:      "/citedauthorsearch",
		Heading:   "Cited author search",
		Label:     "Cited authors",
		Help:      "Finds sentences that cite a paper by the given authors.",
		apiName:   "cited-authors",
		citations: true,
	}

	searchPages = []searchPage{phrasePage, titlePage, authorPage, citedPaperPage, citedAuthorPage}

	// apiPages maps a JSON API path segment to its search.
	apiPages = func() map[string]searchPage {
		m := make(map[string]searchPage, len(searchPages))
		for _, p := range searchPages {
			m[p.apiName] = p
		}
		return m
	}()
)

// pageView is the data of every rendered page.
type pageView struct {
	Page     searchPage
	Pages    []searchPage
	Query    string
	Rows     int
	Error    string
	Searched bool

	// Echo, TotalCount and ReferenceMatches describe a completed search.
	Echo             string
	TotalCount       int
	ReferenceMatches int

	Hits      []domain.PaperHit
	Citations []domain.EnrichedCitation
}

// pageRenderer renders the embedded HTML templates.
type pageRenderer struct {
	pages map[string]*template.Template
}

// errResponseWritten marks a render failure after the status line was sent.
var errResponseWritten = errors.New("response already written")

// pageFuncs are available to every template. Placeholder urls render as text.
var pageFuncs = template.FuncMap{
	"hasURL":  func(url string) bool { return url != "" && url != normalize.NoURL },
	"dblpURL": normalize.DBLPURLOrPlaceholder,
}

func newPageRenderer() *pageRenderer {
	r := &pageRenderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{"index", "about", "papers", "citations"} {
		r.pages[name] = template.Must(template.New("layout.html").Funcs(pageFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return r
}

// render executes page name into w. The page is buffered so a template
// failure still yields a clean 500.
func (p *pageRenderer) render(w http.ResponseWriter, status int, name string, view pageView) error {
	tmpl, ok := p.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		return fmt.Errorf("rendering page %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: page %s: %w", errResponseWritten, name, err)
	}
	return nil
}
