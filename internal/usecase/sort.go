package usecase

import (
	"fmt"
	"sort"
	"strings"

	"catalog_service/internal/domain"
)

func ParseSortField(s string) (domain.SortField, error) {
	switch f := domain.SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case domain.SortByName, domain.SortByCategory, domain.SortByPrice, domain.SortByAvailability:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidSortField, s)
}

// ParseSortDirection defaults to ascending when s is empty.
func ParseSortDirection(s string) (domain.SortDirection, error) {
	switch d := domain.SortDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return domain.Ascending, nil
	case domain.Ascending, domain.Descending:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidDirection, s)
}

// NextDirection applies the header-click rule: the active field flips
// direction, any other field starts ascending.
func NextDirection(current domain.SortState, field domain.SortField) domain.SortDirection {
	if current.Field == field && current.Direction == domain.Ascending {
		return domain.Descending
	}
	return domain.Ascending
}

// SortProducts returns a new slice ordered by field. Ties keep their input order.
func SortProducts(products []domain.Product, field domain.SortField, direction domain.SortDirection) ([]domain.Product, error) {
	cmp, err := comparatorFor(field)
	if err != nil {
		return nil, err
	}
	if direction != domain.Ascending && direction != domain.Descending {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDirection, direction)
	}

	sorted := make([]domain.Product, len(products))
	copy(sorted, products)

	sort.SliceStable(sorted, func(i, j int) bool {
		c := cmp(sorted[i], sorted[j])
		if direction == domain.Descending {
			return c > 0
		}
		return c < 0
	})
	return sorted, nil
}

type productComparator func(a, b domain.Product) int

func comparatorFor(field domain.SortField) (productComparator, error) {
	switch field {
	case domain.SortByName:
		return func(a, b domain.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}, nil
	case domain.SortByCategory:
		return func(a, b domain.Product) int {
			return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
		}, nil
	case domain.SortByPrice:
		return func(a, b domain.Product) int {
			return a.EffectivePrice().Cmp(b.EffectivePrice())
		}, nil
	case domain.SortByAvailability:
		// Ascending puts In Stock first, descending puts Out of Stock first.
		return func(a, b domain.Product) int {
			return availabilityRank(a.Availability) - availabilityRank(b.Availability)
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSortField, field)
}

func availabilityRank(a domain.Availability) int {
	if a == domain.InStock {
		return 0
	}
	return 1
}
