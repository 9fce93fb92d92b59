package citations

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/helixir/citation-search-service/internal/domain"
)

// Highlight locates annotation in sentence. The literal text is tried first,
// then a case-insensitive match. When neither matches, Found is false and the
// annotation span is empty at offset 0. Start and End are byte offsets; the
// span strings count characters.
func Highlight(annotation, sentence string) domain.HighlightedSentence {
	start, end, found := locate(annotation, sentence)
	runeStart := utf8.RuneCountInString(sentence[:start])
	runeEnd := runeStart + utf8.RuneCountInString(sentence[start:end])
	return domain.HighlightedSentence{
		Text:           sentence,
		Found:          found,
		Start:          start,
		End:            end,
		AnnotationSpan: fmt.Sprintf("%d:%d", runeStart, runeEnd),
		BeforeSpan:     fmt.Sprintf("0:%d", runeStart),
		AfterSpan:      fmt.Sprintf("%d:", runeEnd),
	}
}

func locate(annotation, sentence string) (int, int, bool) {
	if annotation == "" {
		return 0, 0, false
	}
	if i := strings.Index(sentence, annotation); i >= 0 {
		return i, i + len(annotation), true
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(annotation))
	if err != nil {
		return 0, 0, false
	}
	if loc := re.FindStringIndex(sentence); loc != nil {
		return loc[0], loc[1], true
	}
	return 0, 0, false
}
