package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helixir/citation-search-service/internal/app"
	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/search"
)

// searchRunner runs one search kind and writes its results to w.
type searchRunner func(ctx context.Context, svc *search.Service, query string, rows int, w io.Writer) error

// searchCmd builds a subcommand whose arguments form the query text.
func (o *cliOptions) searchCmd(use, short, long string, run searchRunner) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := o.loadConfig()
			if err != nil {
				return err
			}
			rows, err := o.resolveRows(cfg)
			if err != nil {
				return err
			}

			stack, err := app.NewStack(cfg, logger, nil)
			if err != nil {
				return err
			}

			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return domain.NewValidationError("query", "this field is required")
			}
			return run(cmd.Context(), stack.Service, query, rows, cmd.OutOrStdout())
		},
	}
}

func newPhraseCmd(o *cliOptions) *cobra.Command {
	return o.searchCmd("phrase <text>",
		"Find citation sentences containing a phrase",
		`Phrase finds citation-context sentences containing the exact phrase,
newest papers first.`,
		func(ctx context.Context, svc *search.Service, query string, rows int, w io.Writer) error {
			res, err := svc.PhraseSearch(ctx, query, rows)
			if err != nil {
				return err
			}
			return o.writeHits(w, res)
		})
}

func newTitleCmd(o *cliOptions) *cobra.Command {
	return o.searchCmd("title <text>",
		"Find papers by title",
		`Title finds papers whose title contains the exact phrase, newest first.`,
		func(ctx context.Context, svc *search.Service, query string, rows int, w io.Writer) error {
			res, err := svc.TitleSearch(ctx, query, rows)
			if err != nil {
				return err
			}
			return o.writeHits(w, res)
		})
}

func newAuthorsCmd(o *cliOptions) *cobra.Command {
	return o.searchCmd("authors <name>[; <name>...]",
		"Find papers written by all of the given authors",
		`Authors finds papers written by every listed author. Separate names with
a semicolon, e.g. citesearch authors "Jane Doe; John Smith".`,
		func(ctx context.Context, svc *search.Service, query string, rows int, w io.Writer) error {
			authors := domain.SplitAuthors(query)
			if len(authors) == 0 {
				return domain.NewValidationError("query", "at least one author name is required")
			}
			res, err := svc.AuthorSearch(ctx, authors, rows)
			if err != nil {
				return err
			}
			return o.writeHits(w, res)
		})
}

func newCitedPaperCmd(o *cliOptions) *cobra.Command {
	return o.searchCmd("cited-paper <title>",
		"Find sentences citing a paper by title",
		`Cited-paper finds the sentences that cite a paper whose reference details
match the title, grouped by citing paper and marked with citation polarity.`,
		func(ctx context.Context, svc *search.Service, query string, rows int, w io.Writer) error {
			res, err := svc.CitedPaperSearch(ctx, query, rows)
			if err != nil {
				return err
			}
			return o.writeCitations(w, res)
		})
}

func newCitedAuthorCmd(o *cliOptions) *cobra.Command {
	return o.searchCmd("cited-author <authors>",
		"Find sentences citing a paper by its authors",
		`Cited-author finds the sentences that cite a paper whose reference details
mention the authors, grouped by citing paper and marked with citation polarity.`,
		func(ctx context.Context, svc *search.Service, query string, rows int, w io.Writer) error {
			res, err := svc.CitedAuthorSearch(ctx, query, rows)
			if err != nil {
				return err
			}
			return o.writeCitations(w, res)
		})
}

func (o *cliOptions) writeHits(w io.Writer, res *search.Result[domain.PaperHit]) error {
	if o.jsonOutput {
		return writeJSON(w, res)
	}
	return formatHits(w, res)
}

func (o *cliOptions) writeCitations(w io.Writer, res *search.Result[domain.EnrichedCitation]) error {
	if o.jsonOutput {
		return writeJSON(w, res)
	}
	return formatCitations(w, res)
}

// summaryLine is the comment line heading tab-separated output.
func summaryLine(shown, total int, query string) string {
	return fmt.Sprintf("# %d of %d results for %s", shown, total, query)
}
