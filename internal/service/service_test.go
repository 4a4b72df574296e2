package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"epsol/importer/internal/client"
	"epsol/importer/internal/config"
	"epsol/importer/internal/domain"
	"epsol/importer/internal/parser"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	categories []domain.CategoryLink
	catalogOK  bool
	listings   map[string]*domain.ListingPage
	products   map[string]*domain.ProductDetails

	productRequests []string
}

func (f *fakeClient) FetchHTML(context.Context, string) (string, bool) {
	return "", false
}

func (f *fakeClient) GetCategories(context.Context) ([]domain.CategoryLink, bool) {
	return f.categories, f.catalogOK
}

func (f *fakeClient) GetListingPage(_ context.Context, url string) (*domain.ListingPage, bool) {
	page, ok := f.listings[url]
	return page, ok
}

func (f *fakeClient) GetProduct(_ context.Context, url string) (*domain.ProductDetails, bool) {
	f.productRequests = append(f.productRequests, url)
	product, ok := f.products[url]
	return product, ok
}

func (f *fakeClient) Close() error {
	return nil
}

type fakeRepository struct {
	records []*domain.EquipmentRecord
	reject  map[string]bool
}

func (f *fakeRepository) CreateEquipment(_ context.Context, record *domain.EquipmentRecord) (string, error) {
	if f.reject[record.Name] {
		return "", fmt.Errorf("%w: rejected", domain.ErrInvalidEquipment)
	}
	if err := record.Validate(); err != nil {
		return "", err
	}
	f.records = append(f.records, record)
	return fmt.Sprintf("id-%d", len(f.records)), nil
}

func (f *fakeRepository) names() []string {
	names := make([]string, 0, len(f.records))
	for _, record := range f.records {
		names = append(names, record.Name)
	}
	return names
}

func product(name string) *domain.ProductDetails {
	return &domain.ProductDetails{Name: name}
}

func productLinks(prefix string, n int) ([]domain.ProductLink, map[string]*domain.ProductDetails) {
	links := make([]domain.ProductLink, 0, n)
	products := make(map[string]*domain.ProductDetails, n)
	for i := 0; i < n; i++ {
		url := fmt.Sprintf("%s/%d", prefix, i)
		links = append(links, domain.ProductLink{URL: url})
		products[url] = product(fmt.Sprintf("%s %d", prefix, i))
	}
	return links, products
}

func TestImport_FullCrawl(t *testing.T) {
	fake := &fakeClient{
		catalogOK: true,
		categories: []domain.CategoryLink{
			{Category: "Дозирующие насосы", Subcategory: "Насосы EMS", URL: "/ems"},
			{Category: "Дозирующие насосы", Subcategory: "Без ссылки"},
			{Category: "Датчики и электроды", Subcategory: "Недоступно", URL: "/broken"},
			{Category: "Датчики и электроды", Subcategory: "pH-электроды", URL: "/ph"},
		},
		listings: map[string]*domain.ListingPage{
			"/ems": {
				URL:     "/ems",
				Section: domain.Section{Category: "ignored", Subcategory: "ignored"},
				Links:   []domain.ProductLink{{URL: "/ems/1"}, {URL: "/ems/missing"}, {URL: "/ems/unnamed"}},
			},
			"/ph": {URL: "/ph", Links: []domain.ProductLink{{URL: "/ph/1"}}},
		},
		products: map[string]*domain.ProductDetails{
			"/ems/1":       product("EMS 1"),
			"/ems/unnamed": product(""),
			"/ph/1":        product("Электрод pH"),
		},
	}
	repo := &fakeRepository{}

	inserted, err := NewService(repo, fake, 80, 120).Import(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	require.Len(t, repo.records, 2)
	assert.Equal(t, "Дозирующие насосы", repo.records[0].Category)
	assert.Equal(t, "Насосы EMS", repo.records[0].Subcategory)
	assert.Equal(t, "Датчики и электроды", repo.records[1].Category)
	assert.Equal(t, "pH-электроды", repo.records[1].Subcategory)
}

func TestImport_CatalogUnavailable(t *testing.T) {
	repo := &fakeRepository{}

	inserted, err := NewService(repo, &fakeClient{}, 80, 120).Import(context.Background(), nil)

	assert.True(t, errors.Is(err, ErrCatalogUnavailable))
	assert.Zero(t, inserted)
	assert.Empty(t, repo.records)
}

func TestImport_EmptyCatalog(t *testing.T) {
	inserted, err := NewService(&fakeRepository{}, &fakeClient{catalogOK: true}, 80, 120).Import(context.Background(), nil)

	assert.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestImport_ProductLimits(t *testing.T) {
	links, products := productLinks("/p", 150)

	fake := &fakeClient{
		catalogOK:  true,
		categories: []domain.CategoryLink{{Category: "A", Subcategory: "B", URL: "/list"}},
		listings:   map[string]*domain.ListingPage{"/list": {URL: "/list", Links: links}},
		products:   products,
	}

	inserted, err := NewService(&fakeRepository{}, fake, 80, 120).Import(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 80, inserted)
	assert.Len(t, fake.productRequests, 80)
	assert.Equal(t, "/p/79", fake.productRequests[79])

	fake.productRequests = nil
	inserted, err = NewService(&fakeRepository{}, fake, 80, 120).Import(context.Background(), []string{"/list"})
	require.NoError(t, err)
	assert.Equal(t, 120, inserted)
	assert.Len(t, fake.productRequests, 120)
}

func TestImport_ExplicitListings(t *testing.T) {
	section := domain.Section{Category: "Миксеры (мешалки)", Subcategory: "Мешалки MX"}
	amount := 4200.0

	fake := &fakeClient{
		catalogOK:  true,
		categories: []domain.CategoryLink{{Category: "X", Subcategory: "Y", URL: "/never"}},
		listings: map[string]*domain.ListingPage{
			"/mixers": {URL: "/mixers", Section: section, Links: []domain.ProductLink{{URL: "/mx/1"}, {URL: "/mx/2"}}},
			"/single": {
				URL:     "/single",
				Section: domain.Section{Category: domain.DefaultCategory, Subcategory: "Насос X"},
				Product: &domain.ProductDetails{
					Name:  "Насос X",
					Price: domain.PriceQuote{Amount: &amount, Currency: domain.CurrencyUSD},
				},
			},
			"/empty": {URL: "/empty", Product: product("")},
		},
		products: map[string]*domain.ProductDetails{
			"/mx/1": product("MX 1"),
			"/mx/2": product("MX 2"),
		},
	}
	repo := &fakeRepository{}

	inserted, err := NewService(repo, fake, 80, 120).Import(context.Background(), []string{"/mixers", "/gone", "/single", "/empty"})

	require.NoError(t, err)
	assert.Equal(t, 3, inserted)
	assert.Equal(t, []string{"MX 1", "MX 2", "Насос X"}, repo.names())
	assert.Equal(t, section, domain.Section{Category: repo.records[0].Category, Subcategory: repo.records[0].Subcategory})
	assert.Equal(t, 4200.0, repo.records[2].Price)
	assert.Equal(t, domain.CurrencyUSD, repo.records[2].Currency)
}

func TestImport_EmptyStartListSkipsCatalog(t *testing.T) {
	fake := &fakeClient{
		catalogOK:  true,
		categories: []domain.CategoryLink{{Category: "A", Subcategory: "B", URL: "/list"}},
		listings:   map[string]*domain.ListingPage{"/list": {URL: "/list", Links: []domain.ProductLink{{URL: "/p"}}}},
		products:   map[string]*domain.ProductDetails{"/p": product("P")},
	}

	inserted, err := NewService(&fakeRepository{}, fake, 80, 120).Import(context.Background(), []string{})

	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.Empty(t, fake.productRequests)
}

func TestImport_RepositoryRejectionIsSkipped(t *testing.T) {
	fake := &fakeClient{
		listings: map[string]*domain.ListingPage{
			"/list": {URL: "/list", Links: []domain.ProductLink{{URL: "/1"}, {URL: "/2"}, {URL: "/3"}}},
		},
		products: map[string]*domain.ProductDetails{
			"/1": product("Первый"),
			"/2": product("Отклонённый"),
			"/3": product("Третий"),
		},
	}
	repo := &fakeRepository{reject: map[string]bool{"Отклонённый": true}}

	inserted, err := NewService(repo, fake, 80, 120).Import(context.Background(), []string{"/list"})

	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, []string{"Первый", "Третий"}, repo.names())
}

func TestImport_EndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/product/x/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<h1>Насос X</h1><div class="price">5 000 руб</div>` +
			`<table><tr><td>Мощность</td><td>100 Вт</td></tr></table>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p, err := parser.New(server.URL, "/katalog/")
	require.NoError(t, err)
	epsol := client.NewEpsolClient(config.EpsolConfig{Timeout: 5}, p, nil)
	defer epsol.Close()

	repo := &fakeRepository{}
	inserted, err := NewService(repo, epsol, 80, 120).Import(context.Background(), []string{server.URL + "/product/x/"})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	expected := []*domain.EquipmentRecord{{
		Name:           "Насос X",
		Category:       domain.DefaultCategory,
		Subcategory:    "Насос X",
		Price:          5000,
		Currency:       domain.CurrencyRUB,
		Specifications: map[string]string{"Мощность": "100 Вт"},
		Availability:   true,
	}}
	if diff := cmp.Diff(expected, repo.records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_UnavailablePagesAreLoggedAsSkips(t *testing.T) {
	hook := test.NewGlobal()
	defer log.StandardLogger().ReplaceHooks(make(log.LevelHooks))

	fake := &fakeClient{
		catalogOK: true,
		categories: []domain.CategoryLink{
			{Category: "A", Subcategory: "Недоступно", URL: "/broken"},
			{Category: "A", Subcategory: "B", URL: "/list"},
		},
		listings: map[string]*domain.ListingPage{
			"/list": {URL: "/list", Links: []domain.ProductLink{{URL: "/missing"}}},
		},
	}

	_, err := NewService(&fakeRepository{}, fake, 80, 120).Import(context.Background(), nil)
	require.NoError(t, err)

	var skips []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == log.WarnLevel {
			skips = append(skips, entry.Message)
		}
	}
	require.Len(t, skips, 2)
	assert.Contains(t, skips[0], "/broken")
	assert.Contains(t, skips[1], "/missing")
}
