package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Craftwork2720/audiobookshelf-lubimyczytac-scrapper/internal/metadata"
)

// Handler contains all HTTP handlers
type Handler struct {
	metadata *metadata.Service
}

// NewHandler creates a new handler instance
func NewHandler(service *metadata.Service) *Handler {
	return &Handler{metadata: service}
}

// SearchMatch is one entry in the Audiobookshelf custom provider response.
// Absent optional fields are omitted rather than sent as null.
type SearchMatch struct {
	Title         string            `json:"title"`
	Subtitle      string            `json:"subtitle,omitempty"`
	Author        string            `json:"author"`
	Narrator      string            `json:"narrator,omitempty"`
	Publisher     string            `json:"publisher,omitempty"`
	PublishedYear string            `json:"publishedYear,omitempty"`
	Description   string            `json:"description,omitempty"`
	Cover         string            `json:"cover,omitempty"`
	ISBN          string            `json:"isbn,omitempty"`
	ASIN          string            `json:"asin,omitempty"`
	Genres        []string          `json:"genres,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Series        []SeriesMatch     `json:"series,omitempty"`
	Language      string            `json:"language,omitempty"`
	Duration      int               `json:"duration,omitempty"`
	Type          metadata.BookType `json:"type"`
	Similarity    float64           `json:"similarity"`
}

// SeriesMatch is the series element of a search match.
type SeriesMatch struct {
	Series   string `json:"series"`
	Sequence string `json:"sequence,omitempty"`
}

// Search handles GET /search?query=...&author=...
func (h *Handler) Search(c *gin.Context) {
	rawQuery := c.Query("query")
	if rawQuery == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is required"})
		return
	}

	results := h.metadata.SearchBooks(c.Request.Context(), rawQuery, c.Query("author"))

	matches := make([]SearchMatch, 0, len(results))
	for _, book := range results {
		matches = append(matches, toSearchMatch(book))
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// toSearchMatch converts internal metadata into the provider wire format.
func toSearchMatch(book metadata.BookMetadata) SearchMatch {
	match := SearchMatch{
		Title:       book.Title,
		Author:      strings.Join(book.Authors, ", "),
		Narrator:    book.Narrator,
		Publisher:   book.Publisher,
		Description: book.Description,
		Cover:       book.Cover,
		ISBN:        book.Identifiers.ISBN,
		Genres:      book.Genres,
		Tags:        book.Tags,
		Duration:    book.Duration,
		Type:        book.Type,
		Similarity:  book.Similarity,
	}

	if book.PublishedDate != nil {
		match.PublishedYear = strconv.Itoa(book.PublishedDate.Year())
	}
	if len(book.Languages) > 0 {
		match.Language = book.Languages[0]
	}
	if book.Series != "" {
		series := SeriesMatch{Series: book.Series}
		if book.SeriesIndex != nil {
			series.Sequence = strconv.Itoa(*book.SeriesIndex)
		}
		match.Series = []SeriesMatch{series}
	}

	return match
}
