package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Craftwork2720/audiobookshelf-lubimyczytac-scrapper/internal/metadata"
)

func setupRouter(service *metadata.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(service)
	r.GET("/search", handler.Search)
	r.GET("/health", handler.HealthCheck)
	return r
}

func TestSearchRequiresQuery(t *testing.T) {
	r := setupRouter(metadata.NewService(metadata.NewProvider("http://127.0.0.1:0")))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Query parameter is required"}`, w.Body.String())
}

func TestSearchEmptyCatalogYieldsEmptyMatches(t *testing.T) {
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	defer catalog.Close()

	r := setupRouter(metadata.NewService(metadata.NewProvider(catalog.URL)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?query=nothing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"matches":[]}`, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	r := setupRouter(metadata.NewService(metadata.NewProvider("http://127.0.0.1:0")))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestToSearchMatchFullRecord(t *testing.T) {
	date := time.Date(2014, time.March, 15, 0, 0, 0, 0, time.UTC)
	rating := 4.25
	index := 3

	book := metadata.BookMetadata{
		Candidate: metadata.Candidate{
			ID:         "wiedzmin",
			Title:      "Wiedźmin",
			Authors:    []string{"Andrzej Sapkowski", "Ktoś Jeszcze"},
			Type:       metadata.TypeAudiobook,
			Similarity: 0.93,
		},
		Cover:         "https://example.test/cover.jpg",
		Description:   "Opis.",
		Languages:     []string{"pol", "eng"},
		Publisher:     "SuperNOWA",
		PublishedDate: &date,
		Rating:        &rating,
		Series:        "Saga o wiedźminie",
		SeriesIndex:   &index,
		Genres:        []string{"fantasy"},
		Tags:          []string{"magia"},
		Narrator:      "Krzysztof Gosztyła",
		Duration:      42120,
		Identifiers:   metadata.Identifiers{ISBN: "9788375780635", LubimyCzytac: "wiedzmin"},
	}

	match := toSearchMatch(book)

	assert.Equal(t, "Wiedźmin", match.Title)
	assert.Equal(t, "Andrzej Sapkowski, Ktoś Jeszcze", match.Author)
	assert.Equal(t, "Krzysztof Gosztyła", match.Narrator)
	assert.Equal(t, "SuperNOWA", match.Publisher)
	assert.Equal(t, "2014", match.PublishedYear)
	assert.Equal(t, "pol", match.Language)
	assert.Equal(t, 42120, match.Duration)
	assert.Equal(t, "9788375780635", match.ISBN)
	assert.Equal(t, metadata.TypeAudiobook, match.Type)
	assert.InDelta(t, 0.93, match.Similarity, 0.001)

	require.Len(t, match.Series, 1)
	assert.Equal(t, "Saga o wiedźminie", match.Series[0].Series)
	assert.Equal(t, "3", match.Series[0].Sequence)
}

func TestToSearchMatchOmitsAbsentOptionals(t *testing.T) {
	book := metadata.BookMetadata{
		Candidate: metadata.Candidate{
			Title: "Goła Pozycja",
			Type:  metadata.TypeBook,
		},
	}

	raw, err := json.Marshal(toSearchMatch(book))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, absent := range []string{
		"subtitle", "narrator", "publisher", "publishedYear", "description",
		"cover", "isbn", "asin", "genres", "tags", "series", "language", "duration",
	} {
		assert.NotContains(t, decoded, absent)
	}
	assert.Contains(t, decoded, "title")
	assert.Contains(t, decoded, "author")
	assert.Contains(t, decoded, "type")
	assert.Contains(t, decoded, "similarity")
}
