package generator

import (
	"regexp"
	"strings"
)

// hashtagPattern matches hashtag-shaped tokens anywhere in cleaned text.
var hashtagPattern = regexp.MustCompile(`#[A-Za-z0-9_-]+`)

// emphasisRuns matches markdown emphasis markers: any run of asterisks, or
// runs of two or more underscores. Single underscores survive so identifiers
// and hashtags like #DeFi_2 keep their shape.
var emphasisRuns = regexp.MustCompile(`\*+|_{2,}`)

// CleanContent normalizes raw provider output: emphasis-marker runs are
// dropped, every line loses leading/trailing emphasis characters and
// whitespace, and lines left empty by that are removed.
func CleanContent(raw string) string {
	text := emphasisRuns.ReplaceAllString(raw, "")
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Trim(line, " \t*_")
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

// ExtractHashtags returns every hashtag-shaped token in text in order of
// first occurrence. Duplicates are kept; the post log records what the
// provider actually produced.
func ExtractHashtags(text string) []string {
	return hashtagPattern.FindAllString(text, -1)
}
