package query

import (
	"regexp"
	"strings"
)

// cleanupRule strips one category of release noise from a title. Rules are
// applied independently, in order, so each one can be tested on its own.
type cleanupRule struct {
	name    string
	pattern *regexp.Regexp
}

var cleanupRules = []cleanupRule{
	{"year", regexp.MustCompile(`\s*\(\d{4}\)`)},
	{"brackets", regexp.MustCompile(`\s*\[[^\]]*\]`)},
	{"bitrate", regexp.MustCompile(`(?i)\d+kbps`)},
	{"vbr", regexp.MustCompile(`(?i)\bVBR\b.*$`)},
	{"narrator", regexp.MustCompile(`(?i)czyt\. .*$`)},
	{"superproduction", regexp.MustCompile(`(?i)superprodukcja`)},
	{"audiobook", regexp.MustCompile(`(?i)audiobook`)},
	{"locale suffix", regexp.MustCompile(`(?i)\s*PL$`)},
}

// quotedPattern matches a title fully wrapped in double quotes.
var quotedPattern = regexp.MustCompile(`^"(.*)"$`)

// Normalize splits a noisy "Author - Title (2020) [tags]" query into a
// cleaned title and an author candidate. An explicit author (if any) is
// passed through untouched and suppresses the split heuristic.
func Normalize(raw, author string) (string, string) {
	title := strings.TrimSpace(raw)
	author = strings.TrimSpace(author)

	// A fully quoted query is an already-exact title, skip all heuristics.
	if m := quotedPattern.FindStringSubmatch(title); m != nil {
		return m[1], author
	}

	if author == "" && strings.Contains(title, " - ") {
		// Split on the first separator only; titles can contain " - " too.
		parts := strings.SplitN(title, " - ", 2)
		author = strings.TrimSpace(parts[0])
		title = strings.TrimSpace(parts[1])
	}

	if m := quotedPattern.FindStringSubmatch(title); m != nil {
		return m[1], author
	}

	cleaned := title
	for _, rule := range cleanupRules {
		cleaned = strings.TrimSpace(rule.pattern.ReplaceAllString(cleaned, ""))
	}
	if cleaned == "" {
		// Queries that are pure release noise keep their pre-cleanup form
		// so the search always has something to work with.
		return title, author
	}
	return cleaned, author
}
