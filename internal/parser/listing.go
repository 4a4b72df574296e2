package parser

import (
	"net/url"
	"strings"

	"epsol/importer/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// Product anchor patterns, most specific first. Only the first pattern with any
// match is used.
var listingSelectors = []string{
	"ul.products li.product a.woocommerce-LoopProduct-link",
	"ul.products li.product a[href]",
	".products .product a.woocommerce-LoopProduct-link",
	".products .product a[href]",
	"a.woocommerce-LoopProduct-link",
	".shop-container a[href]",
}

var listingStrategies = func() []Strategy[*goquery.Selection] {
	strategies := make([]Strategy[*goquery.Selection], 0, len(listingSelectors)+1)
	for _, selector := range listingSelectors {
		strategies = append(strategies, matching(selector))
	}
	return append(strategies, matching("a[href]"))
}()

// ParseListing returns the on-site product links of a subcategory page in first-seen
// order. Names are left empty: listing labels are often truncated.
func (p *Parser) ParseListing(doc *goquery.Document) []domain.ProductLink {
	anchors, ok := FirstOf(doc, listingStrategies...)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	var links []domain.ProductLink

	anchors.Each(func(_ int, a *goquery.Selection) {
		href, exists := a.Attr("href")
		if !exists {
			return
		}
		link, ok := p.Resolve(href)
		if !ok || !p.IsOnSite(link) || isPaginationLink(link) {
			return
		}
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, domain.ProductLink{URL: link})
	})

	return links
}

// isPaginationLink reports whether any path segment or the query mentions "page"
// (/page/2/, ?paged=2, ?page=3).
func isPaginationLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return true
	}
	segments := append(strings.Split(u.Path, "/"), u.RawQuery)
	for _, segment := range segments {
		if strings.Contains(strings.ToLower(segment), "page") {
			return true
		}
	}
	return false
}
