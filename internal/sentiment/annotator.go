package sentiment

import (
	"fmt"

	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/observability"
)

// Label is a classifier output: "o" neutral, "n" negative, "p" positive.
type Label string

const (
	LabelNeutral  Label = "o"
	LabelNegative Label = "n"
	LabelPositive Label = "p"
)

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	_, ok := domain.SentimentFromLabel(string(l))
	return ok
}

// Sentiment returns the polarity l stands for.
func (l Label) Sentiment() domain.Sentiment {
	s, _ := domain.SentimentFromLabel(string(l))
	return s
}

var markers = map[Label]string{
	LabelNeutral:  " (✋)",
	LabelNegative: " (👎)",
	LabelPositive: " (👍)",
}

// Marker returns the suffix appended to a sentence of polarity l.
// It panics on an unknown label.
func Marker(l Label) string {
	m, ok := markers[l]
	if !ok {
		panic(fmt.Sprintf("sentiment: unknown label %q", string(l)))
	}
	return m
}

// Predictor labels a sentence.
type Predictor interface {
	Predict(text string) Label
}

// Ensure Model implements Predictor.
var _ Predictor = (*Model)(nil)

// Annotator appends a polarity marker to citation sentences. A nil Annotator
// returns sentences unchanged.
type Annotator struct {
	predictor Predictor
	metrics   *observability.Metrics
}

// NewAnnotator creates an Annotator backed by p. metrics may be nil.
func NewAnnotator(p Predictor, metrics *observability.Metrics) *Annotator {
	return &Annotator{predictor: p, metrics: metrics}
}

// Annotate returns sentence with exactly one marker appended.
func (a *Annotator) Annotate(sentence string) string {
	if a == nil || a.predictor == nil {
		return sentence
	}
	label := a.predictor.Predict(sentence)
	marker := Marker(label)
	if a.metrics != nil {
		a.metrics.RecordSentiment(string(label.Sentiment()))
	}
	return sentence + marker
}

// AnnotateAll annotates each sentence in place.
func (a *Annotator) AnnotateAll(sentences []string) {
	for i, s := range sentences {
		sentences[i] = a.Annotate(s)
	}
}
