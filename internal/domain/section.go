package domain

// Section is the position of a listing page in the catalog hierarchy
type Section struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}
