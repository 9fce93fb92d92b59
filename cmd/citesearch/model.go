package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helixir/citation-search-service/internal/sentiment"
)

func newModelCmd(o *cliOptions) *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Inspect the citation polarity model",
	}

	var path string
	inspectCmd := &cobra.Command{
		Use:   "inspect [sentence...]",
		Short: "Validate the model artifact and optionally classify sentences",
		Long: `Inspect loads and validates the sentiment artifact configured under
sentiment.model_path (or --path) and prints its shape. Any arguments are
classified and printed with their polarity marker, one per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := path
			if modelPath == "" {
				cfg, _, err := o.loadConfig()
				if err != nil {
					return err
				}
				modelPath = cfg.Sentiment.ModelPath
			}

			model, err := sentiment.Load(modelPath)
			if err != nil {
				return err
			}
			return o.writeModel(cmd.OutOrStdout(), model, args)
		},
	}
	inspectCmd.Flags().StringVar(&path, "path", "", "model artifact path (default: sentiment.model_path)")

	modelCmd.AddCommand(inspectCmd)
	return modelCmd
}

type classified struct {
	Sentence string          `json:"sentence"`
	Label    sentiment.Label `json:"label"`
	Marked   string          `json:"marked"`
}

func (o *cliOptions) writeModel(w io.Writer, model *sentiment.Model, sentences []string) error {
	info := model.Info()
	annotator := sentiment.NewAnnotator(model, nil)

	results := make([]classified, 0, len(sentences))
	for _, s := range sentences {
		results = append(results, classified{Sentence: s, Label: model.Predict(s), Marked: annotator.Annotate(s)})
	}

	if o.jsonOutput {
		return writeJSON(w, struct {
			Model     sentiment.Info `json:"model"`
			Sentences []classified   `json:"sentences,omitempty"`
		}{info, results})
	}

	classes := make([]string, 0, len(info.Classes))
	for _, c := range info.Classes {
		classes = append(classes, string(c))
	}
	fmt.Fprintf(w, "path:\t%s\n", info.Path)
	fmt.Fprintf(w, "classes:\t%s\n", strings.Join(classes, ","))
	fmt.Fprintf(w, "vocabulary:\t%d\n", info.VocabularySize)
	fmt.Fprintf(w, "ngram_range:\t%d-%d\n", info.NgramRange[0], info.NgramRange[1])
	fmt.Fprintf(w, "stop_words:\t%d\n", info.StopWords)
	fmt.Fprintf(w, "norm:\t%s\n", info.Norm)
	fmt.Fprintf(w, "sublinear_tf:\t%t\n", info.SublinearTF)
	for _, r := range results {
		if err := writeRow(w, string(r.Label), r.Marked); err != nil {
			return err
		}
	}
	return nil
}
