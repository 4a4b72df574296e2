package parser

import "github.com/PuerkitoBio/goquery"

// Strategy is one fallback tier: it either produces a value or reports absence.
type Strategy[T any] func(doc *goquery.Document) (T, bool)

// FirstOf evaluates strategies in priority order and returns the first present result.
func FirstOf[T any](doc *goquery.Document, strategies ...Strategy[T]) (T, bool) {
	for _, strategy := range strategies {
		if value, ok := strategy(doc); ok {
			return value, true
		}
	}
	var zero T
	return zero, false
}

// firstText reads the cleaned text of the first element matching selector.
func firstText(selector string) Strategy[string] {
	return func(doc *goquery.Document) (string, bool) {
		text := cleanText(doc.Find(selector).First())
		return text, text != ""
	}
}

// firstSpacedText is firstText with text nodes joined by spaces.
func firstSpacedText(selector string) Strategy[string] {
	return func(doc *goquery.Document) (string, bool) {
		text := Clean(textOf(doc.Find(selector).First(), " "))
		return text, text != ""
	}
}

// matching selects every element matching selector, absent when there are none.
func matching(selector string) Strategy[*goquery.Selection] {
	return func(doc *goquery.Document) (*goquery.Selection, bool) {
		sel := doc.Find(selector)
		return sel, sel.Length() > 0
	}
}
