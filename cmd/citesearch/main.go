// Package main is the entry point for the citesearch terminal client. It runs
// the same searches as the web front end and prints the results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/helixir/citation-search-service/internal/app"
	"github.com/helixir/citation-search-service/internal/config"
	"github.com/helixir/citation-search-service/internal/domain"
)

// cliOptions holds the persistent flags shared by every subcommand.
type cliOptions struct {
	configPath string
	rows       int
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "citesearch",
		Short: "Search citation sentences from the terminal",
		Long: `citesearch queries the citation search collections directly, without the
web server. Each search kind is a subcommand: phrase, title, authors,
cited-paper and cited-author. Results are printed as tab-separated rows, or
as JSON with --json.

Configuration is read like the server's: config.yaml, CITESEARCH_* environment
variables and an optional .env file.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ./config.yaml or ./config/config.yaml)")
	root.PersistentFlags().IntVar(&opts.rows, "rows", 0, "number of results to show (default: search.default_rows)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output results as JSON")

	root.AddCommand(
		newPhraseCmd(opts),
		newTitleCmd(opts),
		newAuthorsCmd(opts),
		newCitedPaperCmd(opts),
		newCitedAuthorCmd(opts),
		newModelCmd(opts),
	)
	return root
}

// loadConfig reads the configuration. Logs go to stderr so stdout carries
// only results.
func (o *cliOptions) loadConfig() (*config.Config, zerolog.Logger, error) {
	_ = godotenv.Load(".env")

	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if cfg.Logging.Output == "" || cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}
	logger := app.NewLogger(cfg).With().Str("component", "citesearch").Logger()
	return cfg, logger, nil
}

// resolveRows validates the --rows flag against cfg. Zero selects the default.
func (o *cliOptions) resolveRows(cfg *config.Config) (int, error) {
	switch {
	case o.rows == 0:
		return cfg.Search.DefaultRows, nil
	case o.rows < 0 || o.rows > cfg.Search.MaxRows:
		return 0, domain.NewValidationError("rows", fmt.Sprintf("must be between 1 and %d", cfg.Search.MaxRows))
	default:
		return o.rows, nil
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
