package metadata

import "time"

// BookType distinguishes the two catalog sub-indexes a match can come from.
type BookType string

const (
	TypeBook      BookType = "book"
	TypeAudiobook BookType = "audiobook"
)

// Source identifies the catalog a candidate was found in.
type Source struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Candidate is a minimally-identified catalog entry from a search listing,
// before any detail page has been fetched. Similarity is attached by the
// ranking step.
type Candidate struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	URL        string   `json:"url"`
	Type       BookType `json:"type"`
	Source     Source   `json:"source"`
	Similarity float64  `json:"similarity"`
}

// Identifiers collects external identifiers for a book.
type Identifiers struct {
	ISBN         string `json:"isbn,omitempty"`
	LubimyCzytac string `json:"lubimyczytac,omitempty"`
}

// BookMetadata is a candidate extended with everything scraped from its
// detail page. When the detail fetch fails only the Candidate fields and the
// catalog identifier are populated.
type BookMetadata struct {
	Candidate

	Cover         string      `json:"cover,omitempty"`
	Description   string      `json:"description,omitempty"`
	Languages     []string    `json:"languages,omitempty"`
	Publisher     string      `json:"publisher,omitempty"`
	PublishedDate *time.Time  `json:"publishedDate,omitempty"`
	Rating        *float64    `json:"rating,omitempty"` // 0-5 scale
	Series        string      `json:"series,omitempty"`
	SeriesIndex   *int        `json:"seriesIndex,omitempty"`
	Genres        []string    `json:"genres,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	Narrator      string      `json:"narrator,omitempty"`
	Duration      int         `json:"duration,omitempty"` // seconds
	Pages         int         `json:"pages,omitempty"`
	Translator    string      `json:"translator,omitempty"`
	Identifiers   Identifiers `json:"identifiers"`
}
