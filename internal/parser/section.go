package parser

import (
	"epsol/importer/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// ParseSection infers where a listing page sits in the catalog. Breadcrumbs win
// (second-to-last is the category, last the subcategory); otherwise the page
// heading is the subcategory and the category is whichever top-level name it contains.
func (p *Parser) ParseSection(doc *goquery.Document) domain.Section {
	var section domain.Section

	var crumbs []string
	doc.Find("a").Filter(".breadcrumbs a, .breadcrumb a").Each(func(_ int, a *goquery.Selection) {
		crumbs = append(crumbs, cleanText(a))
	})

	if n := len(crumbs); n > 0 {
		section.Subcategory = crumbs[n-1]
		section.Category = crumbs[n-1]
		if n >= 2 {
			section.Category = crumbs[n-2]
		}
	}

	if section.Subcategory == "" {
		section.Subcategory = domain.DefaultSubcategory
		if heading := cleanText(doc.Find("h1").First()); heading != "" {
			section.Subcategory = heading
		}
	}

	if section.Category == "" {
		section.Category = domain.DefaultCategory
		if category, ok := domain.TopCategoryIn(section.Subcategory); ok {
			section.Category = category
		}
	}

	return section
}
