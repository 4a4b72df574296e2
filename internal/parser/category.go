package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"epsol/importer/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var catalogLabelRegex = regexp.MustCompile(`(?i)каталог`)

var headingTags = map[string]bool{"h1": true, "h2": true, "h3": true}

// Containers whose links are subcategory candidates under a heading.
var blockTags = map[string]bool{"div": true, "section": true, "ul": true, "ol": true, "p": true}

// Containers that may enclose a "Каталог" navigation block.
var navTags = map[string]bool{
	"div": true, "section": true, "ul": true, "ol": true, "p": true,
	"nav": true, "aside": true, "footer": true, "header": true, "body": true,
}

// categoryCursor tracks the top-level category the walk is currently under.
type categoryCursor struct {
	current string
}

// ParseCategories returns the deduplicated (category, subcategory, url) triples of the
// catalog page. Headed blocks are tried first; "Каталог" navigation blocks are only
// scanned when no headed block produced anything.
func (p *Parser) ParseCategories(doc *goquery.Document) []domain.CategoryLink {
	cursor := &categoryCursor{}

	links := p.categoriesUnderHeadings(doc, cursor)
	if len(links) == 0 {
		links = p.categoriesInCatalogBlocks(doc, cursor)
	}

	return dedupCategoryLinks(links)
}

// categoriesUnderHeadings walks headings and containers in document order. A heading
// naming a top-level category moves the cursor; links inside later containers become
// its subcategories.
func (p *Parser) categoriesUnderHeadings(doc *goquery.Document, cursor *categoryCursor) []domain.CategoryLink {
	var links []domain.CategoryLink

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case headingTags[name]:
			if title := cleanText(s); domain.IsTopCategory(title) {
				cursor.current = title
			}
		case blockTags[name]:
			if cursor.current == "" {
				return
			}
			s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
				label := cleanText(a)
				if utf8.RuneCountInString(label) < 2 {
					return
				}
				if link, ok := p.subcategoryLink(cursor.current, label, a); ok {
					links = append(links, link)
				}
			})
		}
	})

	return links
}

// categoriesInCatalogBlocks finds text mentioning "Каталог" and scans the nearest
// enclosing container as a flat list of category and subcategory links.
func (p *Parser) categoriesInCatalogBlocks(doc *goquery.Document, cursor *categoryCursor) []domain.CategoryLink {
	var links []domain.CategoryLink

	for _, block := range catalogBlocks(doc) {
		block.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			label := cleanText(a)
			if domain.IsTopCategory(label) {
				cursor.current = label
				return
			}
			if cursor.current == "" || label == "" {
				return
			}
			if link, ok := p.subcategoryLink(cursor.current, label, a); ok {
				links = append(links, link)
			}
		})
	}

	return links
}

func (p *Parser) subcategoryLink(category, label string, a *goquery.Selection) (domain.CategoryLink, bool) {
	if label == category {
		return domain.CategoryLink{}, false
	}
	href, _ := a.Attr("href")
	url, ok := p.Resolve(href)
	if !ok || !strings.Contains(url, p.catalogPath) {
		return domain.CategoryLink{}, false
	}

	return domain.CategoryLink{
		Category:    category,
		Subcategory: label,
		URL:         url,
	}, true
}

// catalogBlocks returns, in document order, the nearest container of every text
// node that mentions the catalog.
func catalogBlocks(doc *goquery.Document) []*goquery.Selection {
	var blocks []*goquery.Selection

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode && catalogLabelRegex.MatchString(n.Data) {
			if container := nearestContainer(n); container != nil {
				blocks = append(blocks, goquery.NewDocumentFromNode(container).Selection)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}

	for _, n := range doc.Nodes {
		visit(n)
	}
	return blocks
}

func nearestContainer(n *html.Node) *html.Node {
	for parent := n.Parent; parent != nil; parent = parent.Parent {
		if parent.Type == html.ElementNode && navTags[parent.Data] {
			return parent
		}
	}
	return nil
}

func dedupCategoryLinks(links []domain.CategoryLink) []domain.CategoryLink {
	type key struct{ category, subcategory string }

	seen := make(map[key]struct{}, len(links))
	out := make([]domain.CategoryLink, 0, len(links))
	for _, link := range links {
		k := key{link.Category, link.Subcategory}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, link)
	}
	return out
}
