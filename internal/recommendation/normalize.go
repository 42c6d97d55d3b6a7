// internal/recommendation/normalize.go
package recommendation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	separatorPattern = regexp.MustCompile(`[_\-]+`)
	nonAlnumPattern  = regexp.MustCompile(`[^a-z0-9\s]+`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// stopWords are dropped before stemming. Tokens of two bytes or fewer are
// already removed, so short function words are not listed.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "has": true,
	"her": true, "his": true, "him": true, "she": true, "was": true,
	"our": true, "out": true, "who": true, "how": true, "its": true,
	"any": true, "had": true, "did": true, "get": true, "got": true,
	"with": true, "that": true, "this": true, "from": true, "have": true,
	"been": true, "will": true, "they": true, "when": true, "what": true,
	"your": true, "which": true, "their": true, "about": true, "would": true,
	"there": true, "should": true, "each": true, "than": true, "them": true,
	"then": true, "into": true, "some": true, "were": true, "those": true,
	"these": true, "also": true, "very": true, "just": true, "only": true,
	"over": true, "such": true, "here": true, "where": true, "while": true,
	"ours": true, "yours": true, "mine": true, "myself": true, "itself": true,
	"because": true, "could": true, "does": true, "doing": true, "being": true,
	"both": true, "more": true, "most": true, "other": true, "same": true,
}

// Normalize turns free text into an ordered sequence of stemmed terms.
// Multiple parts are joined with spaces. Duplicates are kept.
func Normalize(parts ...string) []string {
	text := strings.Join(parts, " ")
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	text = foldAccents(strings.ToLower(text))
	text = separatorPattern.ReplaceAllString(text, " ")
	text = nonAlnumPattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))

	terms := make([]string, 0, 16)
	for _, tok := range strings.Fields(text) {
		if len(tok) <= 2 || stopWords[tok] {
			continue
		}
		terms = append(terms, english.Stem(tok, false))
	}
	return terms
}

// foldAccents maps "café" to "cafe" so accented input survives the ASCII
// filter. Transformers hold state, so one is built per call.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
