package metadata

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/adrg/strutil/metrics"
	"golang.org/x/sync/semaphore"

	"github.com/Craftwork2720/audiobookshelf-lubimyczytac-scrapper/internal/query"
)

const (
	// maxMatches bounds how many candidates get a detail fetch.
	maxMatches = 20
	// maxConcurrentFetches limits simultaneous detail page requests so a
	// single search does not hammer the catalog.
	maxConcurrentFetches = 10

	titleWeight  = 0.6
	authorWeight = 0.4
)

// Service runs the full search pipeline: normalize, search both sub-indexes,
// rank, enrich, cache.
type Service struct {
	provider *Provider
	cache    *resultCache
	dice     *metrics.SorensenDice
}

// NewService creates a metadata service backed by the given provider.
func NewService(provider *Provider) *Service {
	// Dice bigram similarity, case-insensitive by default.
	return &Service{
		provider: provider,
		cache:    newResultCache(),
		dice:     metrics.NewSorensenDice(),
	}
}

// SearchBooks resolves a noisy query into ranked, enriched matches. All
// failures along the way degrade toward fewer or unenriched matches; the
// worst case is an empty result, never an error.
func (s *Service) SearchBooks(ctx context.Context, rawQuery, rawAuthor string) (matches []BookMetadata) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("search pipeline failed", "query", rawQuery, "panic", r)
			matches = []BookMetadata{}
		}
	}()

	title, author := query.Normalize(rawQuery, rawAuthor)
	slog.Info("searching", "title", title, "author", author)

	key := title + "-" + author
	if cached, ok := s.cache.get(key); ok {
		slog.Debug("cache hit", "key", key)
		return cached
	}

	candidates := s.provider.SearchListings(ctx, title, author)
	ranked := s.rank(candidates, title, author)
	matches = s.enrichAll(ctx, ranked)

	s.cache.set(key, matches)
	return matches
}

// rank scores candidates against the normalized query, sorts them best
// first and truncates to maxMatches. Ties prefer audiobooks; remaining ties
// keep listing order.
func (s *Service) rank(candidates []Candidate, title, author string) []Candidate {
	for i := range candidates {
		score := s.dice.Compare(candidates[i].Title, title)
		if author != "" {
			best := 0.0
			for _, a := range candidates[i].Authors {
				if v := s.dice.Compare(a, author); v > best {
					best = v
				}
			}
			score = score*titleWeight + best*authorWeight
		}
		candidates[i].Similarity = score
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].Type == TypeAudiobook && candidates[j].Type == TypeBook
	})

	if len(candidates) > maxMatches {
		candidates = candidates[:maxMatches]
	}
	return candidates
}

// enrichAll fetches detail pages for all ranked candidates concurrently,
// bounded by a weighted semaphore. Order is preserved and every candidate
// yields a result, enriched or not.
func (s *Service) enrichAll(ctx context.Context, candidates []Candidate) []BookMetadata {
	enriched := make([]BookMetadata, len(candidates))
	sem := semaphore.NewWeighted(maxConcurrentFetches)

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate Candidate) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				enriched[i] = BookMetadata{
					Candidate:   candidate,
					Identifiers: Identifiers{LubimyCzytac: candidate.ID},
				}
				return
			}
			defer sem.Release(1)
			enriched[i] = s.provider.Enrich(ctx, candidate)
		}(i, candidate)
	}
	wg.Wait()

	return enriched
}
