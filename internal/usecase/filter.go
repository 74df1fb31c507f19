package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"catalog_service/internal/domain"

	"github.com/shopspring/decimal"
)

// FilterProducts keeps the products matching every active criterion, in
// their original order. Price bounds are inclusive and apply to the list
// price, not the discount.
func FilterProducts(products []domain.Product, criteria domain.FilterCriteria) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, criteria) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matches(p domain.Product, c domain.FilterCriteria) bool {
	if c.Category != "" && p.Category != c.Category {
		return false
	}
	if c.MinPrice != nil && p.Price.LessThan(*c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && p.Price.GreaterThan(*c.MaxPrice) {
		return false
	}
	if len(c.Availability) > 0 {
		allowed := false
		for _, a := range c.Availability {
			if p.Availability == a {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	return true
}

// ParseCriteria reads category, min_price, max_price and availability from a
// query string. availability may repeat or hold a comma-separated list.
func ParseCriteria(values url.Values) (domain.FilterCriteria, error) {
	criteria := domain.FilterCriteria{
		Category: strings.TrimSpace(values.Get("category")),
	}

	var err error
	if criteria.MinPrice, err = parsePriceBound(values.Get("min_price")); err != nil {
		return criteria, fmt.Errorf("%w: min_price: %v", domain.ErrInvalidFilter, err)
	}
	if criteria.MaxPrice, err = parsePriceBound(values.Get("max_price")); err != nil {
		return criteria, fmt.Errorf("%w: max_price: %v", domain.ErrInvalidFilter, err)
	}
	if criteria.MinPrice != nil && criteria.MaxPrice != nil && criteria.MinPrice.GreaterThan(*criteria.MaxPrice) {
		return criteria, fmt.Errorf("%w: min_price is greater than max_price", domain.ErrInvalidFilter)
	}

	for _, raw := range values["availability"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			a, ok := domain.ParseAvailability(part)
			if !ok {
				return criteria, fmt.Errorf("%w: unknown availability %q", domain.ErrInvalidFilter, part)
			}
			criteria.Availability = append(criteria.Availability, a)
		}
	}
	return criteria, nil
}

func parsePriceBound(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("must not be negative")
	}
	return &d, nil
}

// PriceCeiling is the highest list price in the catalog, used as the default
// upper bound of the price range.
func PriceCeiling(products []domain.Product) decimal.Decimal {
	ceiling := decimal.Zero
	for _, p := range products {
		if p.Price.GreaterThan(ceiling) {
			ceiling = p.Price
		}
	}
	return ceiling
}
