package parser

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		amount   *float64
		currency string
	}{
		{"rubles", "5 000 руб", ptr(5000), "RUB"},
		{"decimal comma and thousands", "1 234,50 USD", ptr(1234.50), "USD"},
		{"ruble sign", "Цена: 150 ₽", ptr(150), "RUB"},
		{"abbreviation", "12 500 р.", ptr(12500), "RUB"},
		{"lower case code", "2500 eur", ptr(2500), "EUR"},
		{"long ruble word", "5 000 рублей", ptr(5000), "RUB"},
		{"no-break spaces", "7\u00a0200\u00a0руб", ptr(7200), "RUB"},
		{"no currency", "100 000", ptr(100000), ""},
		{"unparseable number", "1.234.567 руб", nil, "RUB"},
		{"no number", "Цена по запросу", nil, ""},
		{"too short", "5 руб", nil, ""},
		{"empty", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := ExtractPrice(tt.text)
			if tt.amount == nil {
				assert.Nil(t, quote.Amount)
			} else {
				require.NotNil(t, quote.Amount)
				assert.InDelta(t, *tt.amount, *quote.Amount, 1e-9)
			}
			assert.Equal(t, tt.currency, quote.Currency)
		})
	}
}

func TestExtractPrice_CanonicalRubles(t *testing.T) {
	for _, amount := range []float64{100, 999.5, 5000, 123456.75} {
		text := strconv.FormatFloat(amount, 'f', -1, 64) + " руб"

		quote := ExtractPrice(text)
		require.NotNil(t, quote.Amount, text)
		assert.Equal(t, amount, *quote.Amount, text)
		assert.Equal(t, "RUB", quote.Currency, text)
	}
}

func ptr(f float64) *float64 {
	return &f
}
