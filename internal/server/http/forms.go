package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/helixir/citation-search-service/internal/domain"
)

// Form field names, shared by the HTML forms and the JSON API.
const (
	fieldQuery   = "query"
	fieldNumRows = "numrows"
)

// searchForm is a validated search request.
type searchForm struct {
	Query string
	// Authors is set for author list queries.
	Authors []string
	Rows    int
}

// formParser validates search form input.
type formParser struct {
	validate       *validator.Validate
	maxQueryLength int
	defaultRows    int
	maxRows        int
}

func newFormParser(maxQueryLength, defaultRows, maxRows int) *formParser {
	return &formParser{
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		maxQueryLength: maxQueryLength,
		defaultRows:    defaultRows,
		maxRows:        maxRows,
	}
}

// submitted reports whether r carries a search, as opposed to a request for
// the empty form.
func submitted(r *http.Request) bool {
	return r.URL.Query().Has(fieldQuery)
}

// parse reads and validates the query and numrows parameters of r.
func (p *formParser) parse(r *http.Request) (searchForm, error) {
	values := r.URL.Query()
	form := searchForm{
		Query: stripQuotes(strings.TrimSpace(values.Get(fieldQuery))),
		Rows:  p.defaultRows,
	}

	if err := p.validate.Var(form.Query, fmt.Sprintf("required,max=%d", p.maxQueryLength)); err != nil {
		return form, fieldError(fieldQuery, err, fmt.Sprintf("must be at most %d characters", p.maxQueryLength))
	}

	if raw := strings.TrimSpace(values.Get(fieldNumRows)); raw != "" {
		rows, err := strconv.Atoi(raw)
		if err != nil {
			return form, domain.NewValidationError(fieldNumRows, "must be a whole number")
		}
		form.Rows = rows
	}
	if err := p.validate.Var(form.Rows, fmt.Sprintf("min=1,max=%d", p.maxRows)); err != nil {
		return form, domain.NewValidationError(fieldNumRows, fmt.Sprintf("must be between 1 and %d", p.maxRows))
	}

	return form, nil
}

// parseAuthors parses like parse and splits the query into author names.
func (p *formParser) parseAuthors(r *http.Request) (searchForm, error) {
	form, err := p.parse(r)
	if err != nil {
		return form, err
	}
	form.Authors = domain.SplitAuthors(form.Query)
	if len(form.Authors) == 0 {
		return form, domain.NewValidationError(fieldQuery, "at least one author name is required")
	}
	return form, nil
}

// fieldError maps a validator failure on field to a ValidationError.
func fieldError(field string, err error, maxMessage string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError(field, err.Error())
	}
	switch verrs[0].Tag() {
	case "required":
		return domain.NewValidationError(field, "this field is required")
	case "max":
		return domain.NewValidationError(field, maxMessage)
	default:
		return domain.NewValidationError(field, fmt.Sprintf("failed %q check", verrs[0].Tag()))
	}
}

// stripQuotes removes one pair of surrounding double quotes. The query
// builder adds its own.
func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
