package sentiment

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/observability"
)

type mockPredictor struct {
	predictFn func(text string) Label
}

func (m *mockPredictor) Predict(text string) Label {
	return m.predictFn(text)
}

func constantPredictor(l Label) *mockPredictor {
	return &mockPredictor{predictFn: func(string) Label { return l }}
}

func TestMarker(t *testing.T) {
	assert.Equal(t, " (✋)", Marker(LabelNeutral))
	assert.Equal(t, " (👎)", Marker(LabelNegative))
	assert.Equal(t, " (👍)", Marker(LabelPositive))
	assert.Panics(t, func() { Marker(Label("x")) })
}

func TestLabel(t *testing.T) {
	assert.True(t, LabelPositive.Valid())
	assert.False(t, Label("q").Valid())
	assert.Equal(t, domain.SentimentNegative, LabelNegative.Sentiment())
	assert.Equal(t, domain.SentimentNeutral, LabelNeutral.Sentiment())
}

func TestAnnotator_Annotate(t *testing.T) {
	t.Run("appends exactly one marker", func(t *testing.T) {
		a := NewAnnotator(constantPredictor(LabelPositive), nil)
		assert.Equal(t, "We build on [1]. (👍)", a.Annotate("We build on [1]."))
	})

	t.Run("nil annotator passes through", func(t *testing.T) {
		var a *Annotator
		assert.Equal(t, "unchanged", a.Annotate("unchanged"))
	})

	t.Run("unknown label panics", func(t *testing.T) {
		a := NewAnnotator(constantPredictor(Label("?")), nil)
		assert.Panics(t, func() { a.Annotate("x") })
	})

	t.Run("records metrics", func(t *testing.T) {
		m := observability.NewMetrics("test_sentiment_annotator")
		a := NewAnnotator(constantPredictor(LabelNegative), m)

		a.Annotate("one")
		a.Annotate("two")
		assert.Equal(t, float64(2), testutil.ToFloat64(m.SentimentPredictions.WithLabelValues("negative")))
	})
}

func TestAnnotator_AnnotateAll(t *testing.T) {
	p := &mockPredictor{predictFn: func(text string) Label {
		if text == "bad" {
			return LabelNegative
		}
		return LabelNeutral
	}}
	sentences := []string{"bad", "fine"}

	NewAnnotator(p, nil).AnnotateAll(sentences)

	assert.Equal(t, []string{"bad (👎)", "fine (✋)"}, sentences)
}
