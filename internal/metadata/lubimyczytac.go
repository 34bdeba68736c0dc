package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	providerID     = "lubimyczytac"
	providerName   = "Lubimy Czytać"
	defaultBaseURL = "https://lubimyczytac.pl"

	// Listing pages for the two catalog sub-indexes.
	booksIndex      = "ksiazki"
	audiobooksIndex = "audiobooki"
)

// Provider scrapes lubimyczytac.pl search listings and detail pages.
type Provider struct {
	client  *http.Client
	baseURL string
}

// NewProvider creates a provider. An empty baseURL selects the real site;
// tests point it at a local server.
func NewProvider(baseURL string) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Source returns the catalog descriptor attached to every candidate.
func (p *Provider) Source() Source {
	return Source{
		ID:          providerID,
		Description: providerName,
		Link:        p.baseURL,
	}
}

// searchURL builds a listing URL for one catalog sub-index.
func (p *Provider) searchURL(index, title, author string) string {
	params := url.Values{}
	params.Set("phrase", title)
	if author != "" {
		params.Set("author", author)
	}
	return fmt.Sprintf("%s/szukaj/%s?%s", p.baseURL, index, params.Encode())
}

// SearchListings queries the book and audiobook sub-indexes concurrently and
// merges their candidates, books first. A failed sub-index contributes zero
// candidates instead of failing the whole search.
func (p *Provider) SearchListings(ctx context.Context, title, author string) []Candidate {
	var (
		books      []Candidate
		audiobooks []Candidate
		wg         sync.WaitGroup
	)

	fetch := func(index string, bookType BookType, out *[]Candidate) {
		defer wg.Done()
		doc, err := p.fetchDocument(ctx, p.searchURL(index, title, author))
		if err != nil {
			slog.Warn("listing fetch failed", "index", index, "error", err)
			return
		}
		*out = p.parseListing(doc, bookType)
	}

	wg.Add(2)
	go fetch(booksIndex, TypeBook, &books)
	go fetch(audiobooksIndex, TypeAudiobook, &audiobooks)
	wg.Wait()

	return append(books, audiobooks...)
}

// fetchDocument GETs a page and parses it into a goquery document.
func (p *Provider) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return doc, nil
}

// parseListing extracts candidates from a search listing in document order.
func (p *Provider) parseListing(doc *goquery.Document, bookType BookType) []Candidate {
	var matches []Candidate

	doc.Find(".authorAllBooks__single").Each(func(_ int, entry *goquery.Selection) {
		info := entry.Find(".authorAllBooks__singleText")
		titleLink := info.Find(".authorAllBooks__singleTextTitle").First()

		title := strings.TrimSpace(titleLink.Text())
		href, _ := titleLink.Attr("href")
		if title == "" || href == "" {
			return
		}

		var authors []string
		info.Find(`a[href*="/autor/"]`).Each(func(_ int, link *goquery.Selection) {
			if name := strings.TrimSpace(link.Text()); name != "" {
				authors = append(authors, name)
			}
		})

		matches = append(matches, Candidate{
			ID:      path.Base(href),
			Title:   title,
			Authors: authors,
			URL:     p.baseURL + href,
			Type:    bookType,
			Source:  p.Source(),
		})
	})

	return matches
}
