package sentiment

import (
	"regexp"
	"strings"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	nonLetterRe  = regexp.MustCompile(`[^a-zA-Z\s]`)
	tokenPattern = regexp.MustCompile(`\b\w\w+\b`)
)

// Preprocess strips html tags, lowercases and drops everything that is not
// an ascii letter or whitespace.
func Preprocess(text string) string {
	text = htmlTagRe.ReplaceAllString(text, "")
	text = strings.ToLower(text)
	return nonLetterRe.ReplaceAllString(text, "")
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}
