// Package seed holds the catalog shipped with the service. It is used
// whenever storage holds no catalog yet.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"catalog_service/internal/domain"
)

//go:embed products.json
var productsJSON []byte

// Products decodes a fresh copy of the seed list.
func Products() ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(productsJSON, &products); err != nil {
		return nil, fmt.Errorf("could not decode seed products: %w", err)
	}
	return products, nil
}
