// Package sentiment classifies the polarity of citation sentences with a
// linear text model exported from the training pipeline.
package sentiment

import (
	"fmt"
	"io"
	"math"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/helixir/citation-search-service/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Artifact is the on-disk form of a trained pipeline: a count vectorizer,
// a TF-IDF transform and a linear classifier.
type Artifact struct {
	Vectorizer VectorizerParams `json:"vectorizer"`
	TFIDF      TFIDFParams      `json:"tfidf"`
	Classifier ClassifierParams `json:"classifier"`
}

// VectorizerParams configures tokenization and the term index.
type VectorizerParams struct {
	Lowercase    bool           `json:"lowercase"`
	TokenPattern string         `json:"token_pattern"`
	StopWords    []string       `json:"stop_words"`
	NgramRange   [2]int         `json:"ngram_range"`
	Vocabulary   map[string]int `json:"vocabulary"`
}

// TFIDFParams holds the fitted inverse document frequencies.
type TFIDFParams struct {
	IDF         []float64 `json:"idf"`
	Norm        string    `json:"norm"`
	SublinearTF bool      `json:"sublinear_tf"`
}

// ClassifierParams holds one weight row and intercept per class. A binary
// model carries a single row scoring the second class.
type ClassifierParams struct {
	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// Model is a loaded, validated pipeline. It is immutable and safe for
// concurrent use.
type Model struct {
	path       string
	tokenizer  *tokenizer
	stopWords  map[string]struct{}
	ngramMin   int
	ngramMax   int
	vocabulary map[string]int
	idf        []float64
	l2         bool
	sublinear  bool
	classes    []Label
	coef       [][]float64
	intercept  []float64
}

// Info summarizes a loaded model.
type Info struct {
	Path           string  `json:"path"`
	Classes        []Label `json:"classes"`
	VocabularySize int     `json:"vocabulary_size"`
	NgramRange     [2]int  `json:"ngram_range"`
	StopWords      int     `json:"stop_words"`
	Norm           string  `json:"norm"`
	SublinearTF    bool    `json:"sublinear_tf"`
}

// Load reads and validates the artifact at path.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model: %w", err)
	}
	defer f.Close()

	return Decode(path, f)
}

// Decode reads an artifact from r. name identifies it in errors.
func Decode(name string, r io.Reader) (*Model, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, domain.NewModelError(name, "decoding artifact: "+err.Error())
	}
	return NewModel(name, a)
}

// NewModel validates a and builds a Model from it.
func NewModel(name string, a Artifact) (*Model, error) {
	v := a.Vectorizer
	vocabSize := len(v.Vocabulary)
	if vocabSize == 0 {
		return nil, domain.NewModelError(name, "empty vocabulary")
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= vocabSize {
			return nil, domain.NewModelError(name, fmt.Sprintf("vocabulary index %d for %q out of range", idx, term))
		}
	}

	ngramMin, ngramMax := v.NgramRange[0], v.NgramRange[1]
	if ngramMin == 0 && ngramMax == 0 {
		ngramMin, ngramMax = 1, 1
	}
	if ngramMin < 1 || ngramMax < ngramMin {
		return nil, domain.NewModelError(name, fmt.Sprintf("invalid ngram_range %v", v.NgramRange))
	}

	tok, err := newTokenizer(v.TokenPattern, v.Lowercase)
	if err != nil {
		return nil, domain.NewModelError(name, err.Error())
	}

	if len(a.TFIDF.IDF) != 0 && len(a.TFIDF.IDF) != vocabSize {
		return nil, domain.NewModelError(name, fmt.Sprintf("idf has %d entries, vocabulary has %d", len(a.TFIDF.IDF), vocabSize))
	}
	switch a.TFIDF.Norm {
	case "", "l2", "none":
	default:
		return nil, domain.NewModelError(name, fmt.Sprintf("unsupported norm %q", a.TFIDF.Norm))
	}

	c := a.Classifier
	if len(c.Classes) < 2 {
		return nil, domain.NewModelError(name, "classifier needs at least two classes")
	}
	classes := make([]Label, 0, len(c.Classes))
	for _, cls := range c.Classes {
		label := Label(cls)
		if !label.Valid() {
			return nil, domain.NewModelError(name, fmt.Sprintf("unknown class %q", cls))
		}
		classes = append(classes, label)
	}

	wantRows := len(c.Classes)
	if wantRows == 2 {
		wantRows = 1
	}
	if len(c.Coef) != wantRows || len(c.Intercept) != wantRows {
		return nil, domain.NewModelError(name, fmt.Sprintf("classifier has %d coef rows and %d intercepts, want %d",
			len(c.Coef), len(c.Intercept), wantRows))
	}
	for i, row := range c.Coef {
		if len(row) != vocabSize {
			return nil, domain.NewModelError(name, fmt.Sprintf("coef row %d has %d weights, vocabulary has %d", i, len(row), vocabSize))
		}
	}

	stopWords := make(map[string]struct{}, len(v.StopWords))
	for _, w := range v.StopWords {
		stopWords[tok.fold(w)] = struct{}{}
	}

	return &Model{
		path:       name,
		tokenizer:  tok,
		stopWords:  stopWords,
		ngramMin:   ngramMin,
		ngramMax:   ngramMax,
		vocabulary: v.Vocabulary,
		idf:        a.TFIDF.IDF,
		l2:         a.TFIDF.Norm != "none",
		sublinear:  a.TFIDF.SublinearTF,
		classes:    classes,
		coef:       c.Coef,
		intercept:  c.Intercept,
	}, nil
}

// Info describes the model.
func (m *Model) Info() Info {
	norm := "l2"
	if !m.l2 {
		norm = "none"
	}
	return Info{
		Path:           m.path,
		Classes:        append([]Label(nil), m.classes...),
		VocabularySize: len(m.vocabulary),
		NgramRange:     [2]int{m.ngramMin, m.ngramMax},
		StopWords:      len(m.stopWords),
		Norm:           norm,
		SublinearTF:    m.sublinear,
	}
}

// Predict returns the polarity label of text.
func (m *Model) Predict(text string) Label {
	features := m.transform(text)

	if len(m.coef) == 1 {
		if m.score(0, features) > 0 {
			return m.classes[1]
		}
		return m.classes[0]
	}

	best := 0
	bestScore := math.Inf(-1)
	for i := range m.coef {
		if s := m.score(i, features); s > bestScore {
			best, bestScore = i, s
		}
	}
	return m.classes[best]
}

func (m *Model) score(row int, features map[int]float64) float64 {
	s := m.intercept[row]
	for idx, x := range features {
		s += m.coef[row][idx] * x
	}
	return s
}

// transform maps text to its sparse, normalized TF-IDF vector.
func (m *Model) transform(text string) map[int]float64 {
	tokens := make([]string, 0, 16)
	for _, tok := range m.tokenizer.tokens(text) {
		if _, stop := m.stopWords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}

	features := make(map[int]float64)
	for _, term := range ngrams(tokens, m.ngramMin, m.ngramMax) {
		if idx, ok := m.vocabulary[term]; ok {
			features[idx]++
		}
	}

	var norm float64
	for idx, tf := range features {
		if m.sublinear {
			tf = 1 + math.Log(tf)
		}
		if len(m.idf) > 0 {
			tf *= m.idf[idx]
		}
		features[idx] = tf
		norm += tf * tf
	}

	if m.l2 && norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range features {
			features[idx] /= norm
		}
	}
	return features
}
