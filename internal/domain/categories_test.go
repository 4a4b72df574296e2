package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopCategories(t *testing.T) {
	names := TopCategories()
	assert.Len(t, names, 9)
	assert.Equal(t, "Дозирующие насосы", names[0])

	names[0] = "changed"
	assert.Equal(t, "Дозирующие насосы", TopCategories()[0])
}

func TestIsTopCategory(t *testing.T) {
	assert.True(t, IsTopCategory("Миксеры (мешалки)"))
	assert.False(t, IsTopCategory("Миксеры"))
	assert.False(t, IsTopCategory(" Датчики и электроды"))
}

func TestTopCategoryIn(t *testing.T) {
	category, ok := TopCategoryIn("Каталог: Держатели датчиков серии PSS")
	assert.True(t, ok)
	assert.Equal(t, "Держатели датчиков", category)

	_, ok = TopCategoryIn("Запчасти")
	assert.False(t, ok)
}

func TestIsSupportedCurrency(t *testing.T) {
	for _, code := range []string{CurrencyRUB, CurrencyUSD, CurrencyEUR} {
		assert.True(t, IsSupportedCurrency(code), code)
	}
	assert.False(t, IsSupportedCurrency(""))
	assert.False(t, IsSupportedCurrency("₽"))
}
