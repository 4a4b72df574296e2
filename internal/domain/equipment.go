package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEquipment is returned by repositories that refuse a record.
var ErrInvalidEquipment = errors.New("invalid equipment record")

// ProductDetails is the best-effort content of a product page
type ProductDetails struct {
	Name           string            `json:"name"`
	Price          PriceQuote        `json:"price"`
	Description    *string           `json:"description,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"` // nil when no pairs were found
}

// EquipmentRecord is the normalized unit handed to the repository.
type EquipmentRecord struct {
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory"`
	Description    *string           `json:"description,omitempty"`
	Price          float64           `json:"price"`
	Currency       string            `json:"currency"`
	Brand          *string           `json:"brand,omitempty"`
	Model          *string           `json:"model,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Availability   bool              `json:"availability"`
}

// NewEquipmentRecord assembles a record from product details, applying the
// price and currency defaults. Brand and model are never extracted.
func NewEquipmentRecord(section Section, details *ProductDetails) *EquipmentRecord {
	record := &EquipmentRecord{
		Name:           details.Name,
		Category:       section.Category,
		Subcategory:    section.Subcategory,
		Description:    details.Description,
		Price:          0,
		Currency:       CurrencyRUB,
		Specifications: details.Specifications,
		Availability:   true,
	}

	if details.Price.Amount != nil {
		record.Price = *details.Price.Amount
	}
	if details.Price.Currency != "" {
		record.Currency = details.Price.Currency
	}
	if len(record.Specifications) == 0 {
		record.Specifications = nil
	}

	return record
}

// Validate checks the constraints every repository enforces before storing a record.
func (r *EquipmentRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEquipment)
	}
	if r.Price < 0 {
		return fmt.Errorf("%w: negative price %v", ErrInvalidEquipment, r.Price)
	}
	if !IsSupportedCurrency(r.Currency) {
		return fmt.Errorf("%w: unsupported currency %q", ErrInvalidEquipment, r.Currency)
	}
	return nil
}
