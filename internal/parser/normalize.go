package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parser extracts catalog data from pages of a single site.
type Parser struct {
	origin      string
	host        string
	scheme      string
	catalogPath string
}

// New creates a parser bound to origin (scheme and host, e.g. https://epsol.ru).
// Only links under catalogPath are treated as subcategories.
func New(origin, catalogPath string) (*Parser, error) {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("origin %q must include scheme and host", origin)
	}
	if catalogPath == "" {
		catalogPath = "/"
	}

	return &Parser{
		origin:      origin,
		host:        strings.ToLower(u.Host),
		scheme:      strings.ToLower(u.Scheme),
		catalogPath: catalogPath,
	}, nil
}

// Origin returns the site origin without a trailing slash.
func (p *Parser) Origin() string {
	return p.origin
}

// CatalogURL is the absolute URL of the catalog root page.
func (p *Parser) CatalogURL() string {
	return p.origin + p.catalogPath
}

// Clean collapses every whitespace run to a single space and trims the ends.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Resolve turns href into an absolute URL. Absolute http(s) links are returned
// as-is and root-relative links are prefixed with the origin. Anything else
// (protocol-relative, fragment, mailto:, javascript:, document-relative) is rejected.
func (p *Parser) Resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)

	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return href, true
	case strings.HasPrefix(href, "//"):
		return "", false
	case strings.HasPrefix(href, "/"):
		return p.origin + href, true
	default:
		return "", false
	}
}

// IsOnSite reports whether an absolute URL belongs to the parser's origin.
func (p *Parser) IsOnSite(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, p.scheme) && strings.EqualFold(u.Host, p.host)
}

// NewDocument parses markup into a goquery document.
func NewDocument(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// textOf joins the text nodes under s with sep, skipping script and style content.
func textOf(s *goquery.Selection, sep string) string {
	var parts []string

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}

	for _, n := range s.Nodes {
		visit(n)
	}
	return strings.Join(parts, sep)
}

// cleanText is Clean(textOf(s, "")).
func cleanText(s *goquery.Selection) string {
	return Clean(textOf(s, ""))
}
