package domain

// Supported currency codes.
const (
	CurrencyRUB = "RUB"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// PriceQuote is the result of tokenizing a price fragment. Both fields are optional.
type PriceQuote struct {
	Amount   *float64 `json:"amount,omitempty"`
	Currency string   `json:"currency,omitempty"` // Empty when no recognised marker was found
}

// IsSupportedCurrency reports whether code is one of RUB, USD or EUR.
func IsSupportedCurrency(code string) bool {
	switch code {
	case CurrencyRUB, CurrencyUSD, CurrencyEUR:
		return true
	default:
		return false
	}
}
