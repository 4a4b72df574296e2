package domain

import "strings"

// Placeholders used when a listing page gives no hint about its position in the catalog.
const (
	DefaultCategory    = "Категория"
	DefaultSubcategory = "Подкатегория"
)

var topCategories = [...]string{
	"Дозирующие насосы",
	"Дозировочные насосы",
	"Перистальтические насосы",
	"Анализаторы жидкости",
	"Системы дозирования и контроля",
	"Датчики и электроды",
	"Держатели датчиков",
	"Миксеры (мешалки)",
	"Импульсные расходомеры",
}

var topCategorySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(topCategories))
	for _, name := range topCategories {
		set[name] = struct{}{}
	}
	return set
}()

// TopCategories returns a copy of the known top-level category names in catalog order.
func TopCategories() []string {
	names := make([]string, len(topCategories))
	copy(names, topCategories[:])
	return names
}

// IsTopCategory reports whether name is exactly one of the top-level categories.
func IsTopCategory(name string) bool {
	_, ok := topCategorySet[name]
	return ok
}

// TopCategoryIn returns the first top-level category contained in text.
func TopCategoryIn(text string) (string, bool) {
	for _, name := range topCategories {
		if strings.Contains(text, name) {
			return name, true
		}
	}
	return "", false
}
