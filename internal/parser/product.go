package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"epsol/importer/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const maxSpecKeyLength = 80

// Headings that call to action rather than name a product.
var nonProductPrefixes = []string{
	"нужна консультация",
}

var priceTextRegex = regexp.MustCompile(`(?i)руб|₽|\d\s*р\.|USD|EUR`)

var nameStrategies = []Strategy[string]{
	firstText("h1.entry-title"),
	firstText(".product_title"),
	firstText(".product-title"),
	firstText(".entry-title"),
	firstText("h1"),
}

var priceTextStrategies = []Strategy[string]{
	firstSpacedText(".price"),
	firstSpacedText(".product-price"),
	firstSpacedText(".price-block"),
	firstPriceTextNode,
}

var descriptionStrategies = []Strategy[string]{
	firstSpacedText(".woocommerce-product-details__short-description"),
	firstSpacedText(".product-short-description"),
	firstSpacedText(".entry-summary"),
	firstSpacedText(".summary"),
	firstSpacedText(".entry-content"),
	firstSpacedText("p"),
}

// ParseProduct extracts a best-effort product record. Every field may be absent;
// callers drop the record when Name is empty.
func (p *Parser) ParseProduct(doc *goquery.Document) *domain.ProductDetails {
	details := &domain.ProductDetails{
		Name:           productName(doc),
		Specifications: specifications(doc),
	}

	if text, ok := FirstOf(doc, priceTextStrategies...); ok {
		details.Price = ExtractPrice(text)
	}
	if description, ok := FirstOf(doc, descriptionStrategies...); ok {
		details.Description = &description
	}

	return details
}

func productName(doc *goquery.Document) string {
	name, ok := FirstOf(doc, nameStrategies...)
	if !ok {
		return ""
	}

	lower := strings.ToLower(name)
	for _, prefix := range nonProductPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}
	return name
}

// firstPriceTextNode returns the first text node on the page that looks like a price.
func firstPriceTextNode(doc *goquery.Document) (string, bool) {
	var found string

	var visit func(*html.Node) bool
	visit = func(n *html.Node) bool {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return false
		}
		if n.Type == html.TextNode && priceTextRegex.MatchString(n.Data) {
			found = n.Data
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if visit(c) {
				return true
			}
		}
		return false
	}

	for _, n := range doc.Nodes {
		if visit(n) {
			break
		}
	}

	found = Clean(found)
	return found, found != ""
}

// specifications merges attribute table rows and definition list pairs. Later
// pairs overwrite earlier ones with the same key. Returns nil when nothing was found.
func specifications(doc *goquery.Document) map[string]string {
	specs := make(map[string]string)

	add := func(key, value string) {
		if key == "" || value == "" || utf8.RuneCountInString(key) > maxSpecKeyLength {
			return
		}
		specs[key] = value
	}

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.ChildrenFiltered("td, th")
			if cells.Length() < 2 {
				return
			}
			add(cleanText(cells.Eq(0)), cleanText(cells.Eq(1)))
		})
	})

	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		terms := dl.Find("dt")
		definitions := dl.Find("dd")
		for i := 0; i < terms.Length() && i < definitions.Length(); i++ {
			add(cleanText(terms.Eq(i)), cleanText(definitions.Eq(i)))
		}
	})

	if len(specs) == 0 {
		return nil
	}
	return specs
}
