// Package extract implements the pure parse side of the scrape pipeline:
// turning a fetched category page into structured listing records. It has
// no side effects; fetching and persistence live elsewhere.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	domain "github.com/mfinch/furniture-watch/pkg/types"
)

// Markup selectors for the site's listing summaries.
const (
	selectorSummary = "div.summary-item"
	selectorMark    = "div.product-mark"
	selectorPrice   = "div.product-price"

	titleAttr = "data-title"
)

// Listings extracts structured listing records from a parsed category
// page. Malformed entries (no anchor, no href) are skipped so one broken
// node never aborts the batch. A page with no summary nodes yields an
// empty slice, not an error: callers treat that as "no new data".
func Listings(doc *goquery.Document, category domain.Category, baseURL string) []domain.Listing {
	var listings []domain.Listing

	doc.Find(selectorSummary).Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}

		var title *string
		if t, ok := link.Attr(titleAttr); ok {
			title = &t
		}

		listings = append(listings, domain.Listing{
			ID:       HashString(href),
			Category: category,
			Title:    title,
			Sold:     isSold(item),
			Price:    priceOf(item),
			URL:      baseURL + href,
		})
	})

	return listings
}

// isSold reports whether the summary node carries a "sold" mark. The mark
// node also appears with other text ("new arrival"), so the trimmed,
// case-normalized text must equal exactly "sold".
func isSold(item *goquery.Selection) bool {
	mark := item.Find(selectorMark)
	if mark.Length() == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(mark.First().Text()), "sold")
}

// priceOf parses the price node, if any. A missing node means the price
// is unknown, not zero.
func priceOf(item *goquery.Selection) *float64 {
	price := item.Find(selectorPrice)
	if price.Length() == 0 {
		return nil
	}
	return ParsePrice(price.First().Text())
}
