// domain/product.go
package domain

import "context"

// CatalogRepository is the durable sink for the whole catalog. Every write
// replaces the stored snapshot; there is no delta persistence.
type CatalogRepository interface {
	// Load returns ErrStorageEmpty when nothing has been stored yet.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}

// ProductSource feeds the storefront read path.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// CategorySource is implemented by product sources that also hold
// admin-managed categories (added categories and display labels).
type CategorySource interface {
	ManagedCategories(ctx context.Context) ([]Category, error)
}
