package sentiment

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// defaultTokenPattern matches runs of two or more word characters.
const defaultTokenPattern = `(?u)\b\w\w+\b`

type tokenizer struct {
	lowercase bool
	// re is nil for the default pattern, which is matched with Unicode word
	// classes instead of RE2's ASCII \w.
	re *regexp.Regexp
}

func newTokenizer(pattern string, lowercase bool) (*tokenizer, error) {
	t := &tokenizer{lowercase: lowercase}
	if pattern == "" || pattern == defaultTokenPattern {
		return t, nil
	}

	re, err := regexp.Compile(strings.TrimPrefix(pattern, "(?u)"))
	if err != nil {
		return nil, fmt.Errorf("compiling token_pattern %q: %w", pattern, err)
	}
	t.re = re
	return t, nil
}

// fold lowercases s when the model was trained on lowercased text. A Caser
// holds state, so one is created per call.
func (t *tokenizer) fold(s string) string {
	if !t.lowercase {
		return s
	}
	return cases.Lower(language.Und).String(s)
}

func (t *tokenizer) tokens(text string) []string {
	text = t.fold(text)
	if t.re != nil {
		return t.re.FindAllString(text, -1)
	}

	fields := strings.FieldsFunc(text, func(r rune) bool { return !isWordRune(r) })
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r)
}

// ngrams returns every n-gram of tokens for n in [lo, hi], space joined.
func ngrams(tokens []string, lo, hi int) []string {
	if lo == 1 && hi == 1 {
		return tokens
	}

	out := make([]string, 0, len(tokens)*(hi-lo+1))
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
