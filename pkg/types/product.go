package types

import "strings"

// Category is a product category shown in the catalog filters.
type Category string

// Product categories.
const (
	CategorySneakers Category = "Sneakers"
	CategoryRunning  Category = "Running"
	CategoryClassic  Category = "Classic"
	CategoryOutdoor  Category = "Outdoor"
)

// Categories lists the catalog categories in display order.
var Categories = []Category{CategorySneakers, CategoryRunning, CategoryClassic, CategoryOutdoor}

// Gender is the product's target audience.
type Gender string

// Product genders.
const (
	GenderMen    Gender = "Men"
	GenderWomen  Gender = "Women"
	GenderUnisex Gender = "Unisex"
)

// FilterAll is the filter value meaning "no filter" for category and gender.
const FilterAll = "All"

// Product is a catalog entry.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    Category  `json:"category"`
	Gender      Gender    `json:"gender"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Sizes       []float64 `json:"sizes"`
	Colors      []string  `json:"colors"`
	Featured    bool      `json:"featured,omitempty"`
}

// RecordID returns the product ID.
func (p Product) RecordID() string { return p.ID }

// WithID returns a copy of the product carrying id.
func (p Product) WithID(id string) Product {
	p.ID = id
	return p
}

// Validate checks the fields a product needs before it is stored.
// Returns ErrInvalidInput when the name is blank or the price is not positive.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" || p.Price <= 0 {
		return ErrInvalidInput
	}
	return nil
}

// Matches reports whether the product passes the category and gender
// filters. Empty values and FilterAll match everything.
func (p Product) Matches(category, gender string) bool {
	if category != "" && category != FilterAll && string(p.Category) != category {
		return false
	}
	if gender != "" && gender != FilterAll && string(p.Gender) != gender {
		return false
	}
	return true
}
