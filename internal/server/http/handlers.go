package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/observability"
	"github.com/helixir/citation-search-service/internal/search"
)

// indexPage handles GET /.
func (s *Server) indexPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "index", pageView{Pages: searchPages})
}

// aboutPage handles GET /about.
func (s *Server) aboutPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "about", pageView{Pages: searchPages})
}

func (s *Server) phraseSearchPage(w http.ResponseWriter, r *http.Request) {
	s.searchPageHandler(w, r, phrasePage)
}

func (s *Server) titleSearchPage(w http.ResponseWriter, r *http.Request) {
	s.searchPageHandler(w, r, titlePage)
}

func (s *Server) authorSearchPage(w http.ResponseWriter, r *http.Request) {
	s.searchPageHandler(w, r, authorPage)
}

func (s *Server) citedPaperSearchPage(w http.ResponseWriter, r *http.Request) {
	s.searchPageHandler(w, r, citedPaperPage)
}

func (s *Server) citedAuthorSearchPage(w http.ResponseWriter, r *http.Request) {
	s.searchPageHandler(w, r, citedAuthorPage)
}

// searchPageHandler renders the empty form, or validates the submitted form
// and renders the search results below it.
func (s *Server) searchPageHandler(w http.ResponseWriter, r *http.Request, page searchPage) {
	templateName := "papers"
	if page.citations {
		templateName = "citations"
	}
	view := pageView{Page: page, Pages: searchPages, Rows: s.forms.defaultRows}

	if !submitted(r) {
		s.renderPage(w, r, http.StatusOK, templateName, view)
		return
	}

	form, err := s.parseForm(r, page)
	view.Query = form.Query
	view.Rows = form.Rows
	if err != nil {
		view.Error = err.Error()
		s.renderPage(w, r, http.StatusBadRequest, templateName, view)
		return
	}

	if page.citations {
		res, err := s.runCitations(r.Context(), page, form)
		if err != nil {
			s.renderSearchError(w, r, templateName, view, err)
			return
		}
		view.Citations = res.Items
		view.Echo = res.Query
		view.TotalCount = res.TotalCount
		view.ReferenceMatches = res.ReferenceMatches
	} else {
		res, err := s.runPapers(r.Context(), page, form)
		if err != nil {
			s.renderSearchError(w, r, templateName, view, err)
			return
		}
		view.Hits = res.Items
		view.Echo = res.Query
		view.TotalCount = res.TotalCount
	}
	view.Searched = true

	s.renderPage(w, r, http.StatusOK, templateName, view)
}

// searchAPI handles GET /api/v1/search/{kind}.
func (s *Server) searchAPI(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	page, ok := apiPages[kind]
	if !ok {
		s.writeSearchError(w, r, domain.NewNotFoundError("search kind", kind))
		return
	}

	form, err := s.parseForm(r, page)
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}

	if page.citations {
		res, err := s.runCitations(r.Context(), page, form)
		if err != nil {
			s.writeSearchError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toSearchResponse(page.Kind, res, toCitationResponse))
		return
	}

	res, err := s.runPapers(r.Context(), page, form)
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSearchResponse(page.Kind, res, toPaperHitResponse))
}

func (s *Server) parseForm(r *http.Request, page searchPage) (searchForm, error) {
	if page.authors {
		return s.forms.parseAuthors(r)
	}
	return s.forms.parse(r)
}

func (s *Server) runPapers(ctx context.Context, page searchPage, form searchForm) (*search.Result[domain.PaperHit], error) {
	switch page.Kind {
	case search.KindPhrase:
		return s.service.PhraseSearch(ctx, form.Query, form.Rows)
	case search.KindTitle:
		return s.service.TitleSearch(ctx, form.Query, form.Rows)
	case search.KindAuthors:
		return s.service.AuthorSearch(ctx, form.Authors, form.Rows)
	default:
		return nil, domain.NewNotFoundError("search kind", page.Kind)
	}
}

func (s *Server) runCitations(ctx context.Context, page searchPage, form searchForm) (*search.Result[domain.EnrichedCitation], error) {
	switch page.Kind {
	case search.KindCitedPaper:
		return s.service.CitedPaperSearch(ctx, form.Query, form.Rows)
	case search.KindCitedAuthor:
		return s.service.CitedAuthorSearch(ctx, form.Query, form.Rows)
	default:
		return nil, domain.NewNotFoundError("search kind", page.Kind)
	}
}

// statusForError maps a search error to an HTTP status code.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrSearchEngineUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text shown to clients. Engine and internal
// failures are logged, not echoed.
func publicMessage(status int, err error) string {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		return err.Error()
	case http.StatusBadGateway:
		return "the search engine is unavailable, please try again later"
	case http.StatusGatewayTimeout:
		return "the search timed out"
	default:
		return "internal server error"
	}
}

func (s *Server) writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	s.logError(r, status, err)
	writeError(w, status, publicMessage(status, err))
}

func (s *Server) renderSearchError(w http.ResponseWriter, r *http.Request, name string, view pageView, err error) {
	status := statusForError(err)
	s.logError(r, status, err)
	view.Error = publicMessage(status, err)
	s.renderPage(w, r, status, name, view)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, view pageView) {
	if err := s.pages.render(w, status, name, view); err != nil {
		if errors.Is(err, errResponseWritten) {
			s.logError(r, status, err)
			return
		}
		s.logError(r, http.StatusInternalServerError, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) logError(r *http.Request, status int, err error) {
	logger := observability.LoggerFromContext(r.Context(), s.logger)
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("search request failed")
}
