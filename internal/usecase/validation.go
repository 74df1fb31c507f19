package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"catalog_service/internal/domain"

	"github.com/shopspring/decimal"
)

// FormValue is a raw form field. JSON clients may send it as a string or a number.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*v = FormValue(n.String())
	return nil
}

type SpecField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SpecRows accepts either a list of {key, value} rows or a plain object.
type SpecRows []SpecField

func (r *SpecRows) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*r = specRowsFromMap(m)
		return nil
	}
	var rows []SpecField
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	*r = rows
	return nil
}

func specRowsFromMap(m map[string]string) SpecRows {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make(SpecRows, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, SpecField{Key: k, Value: m[k]})
	}
	return rows
}

// ProductInput is the add/edit form as submitted.
type ProductInput struct {
	Name         FormValue `json:"name"`
	Price        FormValue `json:"price"`
	Discount     FormValue `json:"discount"`
	Category     FormValue `json:"category"`
	Image        FormValue `json:"image"`
	Description  FormValue `json:"description"`
	Availability FormValue `json:"availability"`
	Specs        SpecRows  `json:"specs"`
}

// inputFromProduct turns a stored product back into form values so edits can
// be validated with the same rules as new products.
func inputFromProduct(p domain.Product) ProductInput {
	in := ProductInput{
		Name:         FormValue(p.Name),
		Price:        FormValue(p.Price.String()),
		Category:     FormValue(p.Category),
		Image:        FormValue(p.Image),
		Description:  FormValue(p.Description),
		Availability: FormValue(p.Availability),
		Specs:        specRowsFromMap(p.Specs),
	}
	if p.Discount.IsPositive() {
		in.Discount = FormValue(p.Discount.String())
	}
	return in
}

// ValidateProductInput checks every field and reports all failures at once.
// On success the returned product carries everything but id and featured.
func ValidateProductInput(in ProductInput) (domain.Product, domain.ValidationErrors) {
	errs := domain.ValidationErrors{}
	var p domain.Product

	p.Name = strings.TrimSpace(string(in.Name))
	if p.Name == "" {
		errs["name"] = "Product name is required"
	}

	priceOK := false
	price, err := decimal.NewFromString(strings.TrimSpace(string(in.Price)))
	switch {
	case err != nil || !price.IsPositive():
		errs["price"] = "Valid price is required"
	case !hasCents(price):
		errs["price"] = "Price can have at most 2 decimal places"
	default:
		p.Price = price
		priceOK = true
	}

	p.Category = strings.TrimSpace(string(in.Category))
	if p.Category == "" {
		errs["category"] = "Category is required"
	}

	p.Image = strings.TrimSpace(string(in.Image))
	if p.Image == "" {
		errs["image"] = "Image URL is required"
	}

	p.Description = strings.TrimSpace(string(in.Description))
	if p.Description == "" {
		errs["description"] = "Description is required"
	}

	if raw := strings.TrimSpace(string(in.Discount)); raw != "" {
		discount, err := decimal.NewFromString(raw)
		switch {
		case err != nil:
			errs["discount"] = "Discount must be a number"
		case discount.IsNegative():
			errs["discount"] = "Discount cannot be negative"
		case !hasCents(discount):
			errs["discount"] = "Discount can have at most 2 decimal places"
		case priceOK && discount.GreaterThanOrEqual(price):
			errs["discount"] = "Discount must be less than price"
		default:
			p.Discount = discount
		}
	}

	if raw := strings.TrimSpace(string(in.Availability)); raw == "" {
		p.Availability = domain.InStock
	} else if a, ok := domain.ParseAvailability(raw); ok {
		p.Availability = a
	} else {
		errs["availability"] = "Availability must be In Stock or Out of Stock"
	}

	// Rows missing a key or a value are dropped, not reported.
	specs := make(map[string]string)
	for _, row := range in.Specs {
		k, v := strings.TrimSpace(row.Key), strings.TrimSpace(row.Value)
		if k != "" && v != "" {
			specs[k] = v
		}
	}
	if len(specs) == 0 {
		errs["specs"] = "At least one specification is required"
	}
	p.Specs = specs

	if len(errs) > 0 {
		return domain.Product{}, errs
	}
	return p, nil
}

// hasCents reports whether d fits the two fractional digits prices are stored with.
func hasCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
