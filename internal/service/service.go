package service

import (
	"context"
	"errors"

	"epsol/importer/internal/client"
	"epsol/importer/internal/domain"
	"epsol/importer/internal/repository"

	log "github.com/sirupsen/logrus"
)

// ErrCatalogUnavailable aborts a full crawl when the catalog root cannot be fetched.
var ErrCatalogUnavailable = errors.New("catalog page unavailable")

// Service walks the catalog one page at a time and stores every product it can name.
type Service struct {
	repository   repository.EquipmentRepository
	client       client.EpsolClient
	catalogLimit int
	listingLimit int
}

func NewService(
	repository repository.EquipmentRepository,
	client client.EpsolClient,
	catalogLimit int,
	listingLimit int,
) *Service {
	return &Service{
		repository:   repository,
		client:       client,
		catalogLimit: catalogLimit,
		listingLimit: listingLimit,
	}
}

// Import runs a full crawl when startURLs is nil and otherwise treats each start
// URL as a listing page. It returns the number of records stored.
func (s *Service) Import(ctx context.Context, startURLs []string) (int, error) {
	var (
		inserted int
		err      error
	)

	if startURLs == nil {
		inserted, err = s.ImportCatalog(ctx)
	} else {
		inserted = s.ImportListings(ctx, startURLs)
	}

	log.Infof("🏁 Import finished. Records added: %d", inserted)
	return inserted, err
}

// ImportCatalog discovers subcategories on the catalog page and imports each of them.
func (s *Service) ImportCatalog(ctx context.Context) (int, error) {
	categories, ok := s.client.GetCategories(ctx)
	if !ok {
		log.Errorf("❌ Failed to load the catalog page")
		return 0, ErrCatalogUnavailable
	}

	log.Infof("📚 Found %d categories/subcategories", len(categories))

	inserted := 0
	for _, category := range categories {
		if !category.HasURL() {
			continue
		}

		page, ok := s.client.GetListingPage(ctx, category.URL)
		if !ok {
			log.Warnf("⚠️ Skipping subcategory %s: listing %s unavailable", category.Subcategory, category.URL)
			continue
		}

		section := domain.Section{Category: category.Category, Subcategory: category.Subcategory}
		logListing(section.Subcategory, page)

		inserted += s.importProducts(ctx, section, page.Links, s.catalogLimit)
	}

	return inserted, nil
}

// ImportListings imports explicitly supplied listing pages. A page without product
// links is imported as a single product.
func (s *Service) ImportListings(ctx context.Context, urls []string) int {
	inserted := 0
	for _, url := range urls {
		page, ok := s.client.GetListingPage(ctx, url)
		if !ok {
			log.Warnf("⚠️ Skipping start URL %s: page unavailable", url)
			continue
		}

		logListing(page.Section.Subcategory, page)

		if len(page.Links) == 0 {
			if page.Product != nil && s.save(ctx, page.Section, page.Product, url) {
				inserted++
			}
			continue
		}

		inserted += s.importProducts(ctx, page.Section, page.Links, s.listingLimit)
	}

	return inserted
}

func (s *Service) importProducts(ctx context.Context, section domain.Section, links []domain.ProductLink, limit int) int {
	if limit > 0 && len(links) > limit {
		log.Warnf("✂️ Subcategory %s has %d product links, visiting only the first %d", section.Subcategory, len(links), limit)
		links = links[:limit]
	}

	inserted := 0
	for _, link := range links {
		details, ok := s.client.GetProduct(ctx, link.URL)
		if !ok {
			log.Warnf("⚠️ Skipping product %s: page unavailable", link.URL)
			continue
		}

		if s.save(ctx, section, details, link.URL) {
			inserted++
		}
	}

	return inserted
}

// save stores one product. Unnamed products and rejected records are skipped.
func (s *Service) save(ctx context.Context, section domain.Section, details *domain.ProductDetails, url string) bool {
	if details.Name == "" {
		log.Debugf("Skipping %s: no product name", url)
		return false
	}

	record := domain.NewEquipmentRecord(section, details)

	id, err := s.repository.CreateEquipment(ctx, record)
	if err != nil {
		log.Warnf("⚠️ Failed to save %q from %s: %v", record.Name, url, err)
		return false
	}

	log.Debugf("Saved %q as %s", record.Name, id)
	return true
}

func logListing(subcategory string, page *domain.ListingPage) {
	log.Infof("📂 Subcategory: %s, product links found: %d, %s", subcategory, len(page.Links), page.URL)
}
