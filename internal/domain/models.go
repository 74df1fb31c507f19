package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, matching the storefront contract.
	decimal.MarshalJSONWithoutQuotes = true
}

type Availability string

const (
	InStock    Availability = "In Stock"
	OutOfStock Availability = "Out of Stock"
)

// ParseAvailability accepts the display form ("In Stock") as well as compact
// variants such as "in_stock" or "OutOfStock".
func ParseAvailability(s string) (Availability, bool) {
	key := strings.ToLower(s)
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "instock":
		return InStock, true
	case "outofstock":
		return OutOfStock, true
	}
	return "", false
}

type Product struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Price        decimal.Decimal   `json:"price"`
	Discount     decimal.Decimal   `json:"discount"`
	Category     string            `json:"category"`
	Image        string            `json:"image"`
	Description  string            `json:"description"`
	Availability Availability      `json:"availability"`
	Specs        map[string]string `json:"specs"`
	Featured     bool              `json:"featured"`
}

// EffectivePrice is the discount price when one is set, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.Discount.IsPositive() {
		return p.Discount
	}
	return p.Price
}

func (p Product) OnSale() bool {
	return p.Discount.IsPositive()
}

// Clone returns a copy that shares no mutable state with p.
func (p Product) Clone() Product {
	c := p
	if p.Specs != nil {
		c.Specs = make(map[string]string, len(p.Specs))
		for k, v := range p.Specs {
			c.Specs[k] = v
		}
	}
	return c
}

// Validate checks a product decoded at a system boundary (storage, remote API).
func (p Product) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(p.ID) == "" {
		errs["id"] = "Product id is required"
	}
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "Product name is required"
	}
	if p.Price.IsNegative() {
		errs["price"] = "Price cannot be negative"
	}
	if p.Discount.IsNegative() {
		errs["discount"] = "Discount cannot be negative"
	} else if p.Discount.IsPositive() && p.Discount.GreaterThanOrEqual(p.Price) {
		errs["discount"] = "Discount must be less than price"
	}
	if strings.TrimSpace(p.Category) == "" {
		errs["category"] = "Category is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		errs["description"] = "Description is required"
	}
	if _, ok := ParseAvailability(string(p.Availability)); !ok {
		errs["availability"] = "Availability must be In Stock or Out of Stock"
	}
	if len(p.Specs) == 0 {
		errs["specs"] = "At least one specification is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Category struct {
	Name         string `json:"name"`
	Label        string `json:"label,omitempty"`
	ProductCount int    `json:"product_count"`
}

// DisplayName is the label when one is set, otherwise the category name.
func (c Category) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// Snapshot is the persisted catalog document: the ordered product list plus
// the admin-managed categories.
type Snapshot struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories,omitempty"`
}

type SortField string

const (
	SortByName         SortField = "name"
	SortByCategory     SortField = "category"
	SortByPrice        SortField = "price"
	SortByAvailability SortField = "availability"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortState is the field and direction last applied to the catalog.
// A zero value means the catalog has not been sorted.
type SortState struct {
	Field     SortField     `json:"field,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// FilterCriteria narrows a product list. Zero values disable a criterion.
type FilterCriteria struct {
	Category     string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Availability []Availability
}
