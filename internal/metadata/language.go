package metadata

import "strings"

// languageCodes maps the Polish language names used on lubimyczytac detail
// pages to ISO 639-2 codes Audiobookshelf understands.
var languageCodes = map[string]string{
	"polski":     "pol",
	"angielski":  "eng",
	"niemiecki":  "ger",
	"francuski":  "fre",
	"hiszpański": "spa",
	"włoski":     "ita",
	"rosyjski":   "rus",
	"ukraiński":  "ukr",
	"czeski":     "cze",
	"szwedzki":   "swe",
	"norweski":   "nor",
	"japoński":   "jpn",
}

// languageCode converts a language name to its code. Unknown names pass
// through unchanged.
func languageCode(name string) string {
	if code, ok := languageCodes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return name
}
