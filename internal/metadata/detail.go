package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Detail page extraction patterns.
var (
	seriesIndexPattern  = regexp.MustCompile(`\(tom (\d+)`)
	seriesSuffixPattern = regexp.MustCompile(`\s*\(tom \d+.*?\)\s*$`)
	pagesPattern        = regexp.MustCompile(`(\d+)\s*str`)
	leadingIntPattern   = regexp.MustCompile(`\d+`)
	durationTextPattern = regexp.MustCompile(`(?i)(\d+)\s*godz.*?(\d+)?\s*min`)
)

// Date layouts seen on lubimyczytac detail pages.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2.01.2006",
}

const (
	noDescriptionPhrase      = "Ta książka nie posiada jeszcze opisu."
	noDescriptionPlaceholder = "Brak opisu."
)

// Enrich fetches the candidate's detail page and fills in full metadata.
// Any fetch or parse failure degrades to the bare candidate; it never
// propagates to the caller.
func (p *Provider) Enrich(ctx context.Context, match Candidate) BookMetadata {
	meta := BookMetadata{
		Candidate:   match,
		Identifiers: Identifiers{LubimyCzytac: match.ID},
	}

	doc, err := p.fetchDocument(ctx, match.URL)
	if err != nil {
		slog.Warn("detail fetch failed", "title", match.Title, "url", match.URL, "error", err)
		return meta
	}

	p.extractDetail(doc, &meta)
	return meta
}

// extractDetail fills meta from a parsed detail document. Each field has an
// ordered list of extraction strategies; the first non-empty value wins.
func (p *Provider) extractDetail(doc *goquery.Document, meta *BookMetadata) {
	meta.Cover = firstNonEmpty(
		func() string { return doc.Find("img.img-fluid").First().AttrOr("src", "") },
		func() string { return doc.Find(`meta[property="og:image"]`).AttrOr("content", "") },
	)

	meta.Publisher = firstNonEmpty(
		func() string {
			return strings.TrimSpace(doc.Find(`span.book__txt a[href*="/wydawnictwo/"]`).First().Text())
		},
		func() string { return strings.TrimSpace(dtValue(doc, "Wydawnictwo:").Find("a").Text()) },
	)

	if langs := strings.TrimSpace(dtValue(doc, "Język:").Text()); langs != "" {
		for _, lang := range strings.Split(langs, ", ") {
			meta.Languages = append(meta.Languages, languageCode(lang))
		}
	}

	description := firstNonEmpty(
		func() string { return strings.TrimSpace(doc.Find(".collapse-content-js").First().Text()) },
		func() string {
			return strings.TrimSpace(doc.Find(".book-description-container__description-text").First().Text())
		},
		func() string { return doc.Find(`meta[property="og:description"]`).AttrOr("content", "") },
	)

	if series := strings.TrimSpace(seriesLink(doc).Text()); series != "" {
		meta.Series = strings.TrimSpace(seriesSuffixPattern.ReplaceAllString(series, ""))
		if m := seriesIndexPattern.FindStringSubmatch(series); m != nil {
			if idx, err := strconv.Atoi(m[1]); err == nil {
				meta.SeriesIndex = &idx
			}
		}
	}

	if genres := strings.TrimSpace(doc.Find("a.book__category").Text()); genres != "" {
		for _, genre := range strings.Split(genres, ",") {
			meta.Genres = append(meta.Genres, strings.TrimSpace(genre))
		}
	}

	doc.Find(`a[href*="/ksiazki/t/"]`).Each(func(_ int, link *goquery.Selection) {
		if tag := strings.TrimSpace(link.Text()); tag != "" {
			meta.Tags = append(meta.Tags, tag)
		}
	})

	// Site ratings are on a 0-10 scale with a comma decimal separator.
	ratingText := strings.ReplaceAll(strings.TrimSpace(doc.Find(".rating-value .big-number").First().Text()), ",", ".")
	if value, err := strconv.ParseFloat(ratingText, 64); err == nil && value != 0 {
		rating := value / 10 * 5
		meta.Rating = &rating
	}

	meta.Identifiers.ISBN = firstNonEmpty(
		func() string { return strings.TrimSpace(dtValue(doc, "ISBN:").Text()) },
		func() string { return doc.Find(`meta[property="books:isbn"]`).AttrOr("content", "") },
	)

	if len(meta.Authors) == 0 {
		if author := strings.TrimSpace(doc.Find("span.author a").First().Text()); author != "" {
			meta.Authors = []string{author}
		}
	}

	meta.PublishedDate = p.extractPublishedDate(doc, meta.Title)

	meta.Pages = extractPages(doc)

	meta.Translator = strings.TrimSpace(dtValue(doc, "Tłumacz:").Find("a").Text())

	meta.Narrator = strings.TrimSpace(dtValue(doc, "Lektor:").Text())

	meta.Duration = extractDuration(doc)

	meta.Description = enrichDescription(description, meta.Pages, meta.PublishedDate, meta.Translator)
}

// extractPublishedDate tries the release date row, then the "first domestic
// release" row. Unparseable dates are logged and dropped.
func (p *Provider) extractPublishedDate(doc *goquery.Document, title string) *time.Time {
	dateText := firstNonEmpty(
		func() string { return strings.TrimSpace(dtValue(doc, "Data wydania:").Text()) },
		func() string {
			return strings.TrimSpace(doc.Find(`dt[data-original-title="Data pierwszego wydania polskiego"]`).NextFiltered("dd").Text())
		},
	)
	if dateText == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateText); err == nil {
			return &t
		}
	}
	slog.Warn("unparseable published date", "title", title, "date", dateText)
	return nil
}

// extractPages reads the page count from the pages span, falling back to the
// definition list row.
func extractPages(doc *goquery.Document) int {
	if m := pagesPattern.FindStringSubmatch(doc.Find("span.book__pages.pr-2").Text()); m != nil {
		pages, _ := strconv.Atoi(m[1])
		return pages
	}
	if text := strings.TrimSpace(dtValue(doc, "Liczba stron:").Text()); text != "" {
		if m := leadingIntPattern.FindString(text); m != "" {
			pages, _ := strconv.Atoi(m)
			return pages
		}
	}
	return 0
}

// extractDuration reads an audiobook runtime in seconds from the hour/minute
// span pair, falling back to the "Czas trwania:" text. Missing parts count
// as zero.
func extractDuration(doc *goquery.Document) int {
	hoursSpan := doc.Find("span.book__hours")
	if hoursSpan.Length() > 0 {
		hours := parseIntDefault(hoursSpan.Find("span:first-child").Text(), 0)
		minutes := parseIntDefault(hoursSpan.Find("span:nth-child(2)").Text(), 0)
		return hours*3600 + minutes*60
	}

	if m := durationTextPattern.FindStringSubmatch(dtValue(doc, "Czas trwania:").Text()); m != nil {
		hours := parseIntDefault(m[1], 0)
		minutes := parseIntDefault(m[2], 0)
		return (hours*60 + minutes) * 60
	}
	return 0
}

// enrichDescription appends page count, first edition date and translator
// paragraphs to the stripped description.
func enrichDescription(description string, pages int, publishedDate *time.Time, translator string) string {
	if description == noDescriptionPhrase {
		description = noDescriptionPlaceholder
	}

	if pages > 0 {
		description += fmt.Sprintf("\n\nKsiążka ma %d stron.", pages)
	}
	if publishedDate != nil {
		description += fmt.Sprintf("\n\nData pierwszego wydania: %s", publishedDate.Format("2.01.2006"))
	}
	if translator != "" {
		description += fmt.Sprintf("\n\nTłumacz: %s", translator)
	}
	return description
}

// dtValue finds the <dd> value for a labeled <dt> in the book details list.
func dtValue(doc *goquery.Document, label string) *goquery.Selection {
	return doc.Find(fmt.Sprintf("dt:contains(%q)", label)).First().NextFiltered("dd")
}

// seriesLink returns the first cycle or series link on the page.
func seriesLink(doc *goquery.Document) *goquery.Selection {
	return doc.Find(`span.d-none.d-sm-block.mt-1:contains("Cykl:") a, span.d-none.d-sm-block.mt-1:contains("Seria:") a`).First()
}

// firstNonEmpty tries each extraction strategy in order and returns the
// first non-empty result.
func firstNonEmpty(strategies ...func() string) string {
	for _, strategy := range strategies {
		if value := strategy(); value != "" {
			return value
		}
	}
	return ""
}

func parseIntDefault(s string, fallback int) int {
	if m := leadingIntPattern.FindString(s); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return fallback
}
