package domain

// CategoryLink is a (category, subcategory) pair discovered on the catalog page.
type CategoryLink struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	URL         string `json:"url,omitempty"` // Absolute listing URL, empty when no link was associated
}

// HasURL reports whether the subcategory can be visited.
func (c CategoryLink) HasURL() bool {
	return c.URL != ""
}

// ProductLink is a candidate product page found on a listing.
// Name stays empty until the product page itself is parsed.
type ProductLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListingPage is everything extracted from one fetched listing page
type ListingPage struct {
	URL     string          `json:"url"`
	Section Section         `json:"section"`
	Links   []ProductLink   `json:"links"`
	Product *ProductDetails `json:"product,omitempty"` // Set only when Links is empty and the page parses as a product
}
