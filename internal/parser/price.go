package parser

import (
	"regexp"
	"strconv"
	"strings"

	"epsol/importer/internal/domain"
)

var priceRegex = regexp.MustCompile(`(?i)(\d[\d\s.,]{2,})\s*(руб|₽|р\.|RUB|USD|EUR)?`)

// ExtractPrice finds the first price-like number in text and the currency marker
// that follows it. Comma is the decimal separator; spaces group thousands.
func ExtractPrice(text string) domain.PriceQuote {
	var quote domain.PriceQuote

	matches := priceRegex.FindStringSubmatch(Clean(text))
	if matches == nil {
		return quote
	}

	number := strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(matches[1])
	if amount, err := strconv.ParseFloat(number, 64); err == nil {
		quote.Amount = &amount
	}

	quote.Currency = normalizeCurrency(matches[2])
	return quote
}

func normalizeCurrency(marker string) string {
	if marker == "" {
		return ""
	}

	upper := strings.ToUpper(marker)
	switch {
	case domain.IsSupportedCurrency(upper):
		return upper
	case strings.Contains(upper, "РУБ"), strings.Contains(upper, "Р."), strings.Contains(marker, "₽"):
		return domain.CurrencyRUB
	default:
		return ""
	}
}
