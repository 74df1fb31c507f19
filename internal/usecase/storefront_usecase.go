package usecase

import (
	"context"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ProductListing is the product grid view.
type ProductListing struct {
	Products     []domain.Product  `json:"products"`
	Shown        int               `json:"shown"`
	Total        int               `json:"total"`
	PriceCeiling decimal.Decimal   `json:"price_ceiling"`
	Categories   []domain.Category `json:"categories"`
	Category     string            `json:"category,omitempty"`
	Sort         domain.SortState  `json:"sort"`
}

type StorefrontUseCase interface {
	ListProducts(ctx context.Context, criteria domain.FilterCriteria, sort domain.SortState) (*ProductListing, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	FeaturedSection(ctx context.Context) (*FeaturedSection, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	ResolveCategory(ctx context.Context, value string) (string, bool, error)
	RawProducts(ctx context.Context) ([]domain.Product, error)
}

type storefrontUseCase struct {
	source domain.ProductSource
	log    *logrus.Logger
}

// NewStorefrontUseCase serves read-only views from source, which is either the
// local catalog or a remote instance.
func NewStorefrontUseCase(source domain.ProductSource, logger *logrus.Logger) StorefrontUseCase {
	return &storefrontUseCase{
		source: source,
		log:    logger,
	}
}

func (uc *storefrontUseCase) RawProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := uc.source.ListProducts(ctx)
	if err != nil {
		uc.log.Errorf("Storefront: Failed to read products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	return products, nil
}

func (uc *storefrontUseCase) ListProducts(ctx context.Context, criteria domain.FilterCriteria, sort domain.SortState) (*ProductListing, error) {
	products, err := uc.RawProducts(ctx)
	if err != nil {
		return nil, err
	}

	managed, err := uc.managedCategories(ctx)
	if err != nil {
		return nil, err
	}

	filtered := FilterProducts(products, criteria)
	if sort.Field != "" {
		if sort.Direction == "" {
			sort.Direction = domain.Ascending
		}
		if filtered, err = SortProducts(filtered, sort.Field, sort.Direction); err != nil {
			return nil, err
		}
	}

	uc.log.Debugf("Storefront: Showing %d of %d products", len(filtered), len(products))
	return &ProductListing{
		Products:     filtered,
		Shown:        len(filtered),
		Total:        len(products),
		PriceCeiling: PriceCeiling(products),
		Categories:   DeriveCategories(managed, products),
		Category:     criteria.Category,
		Sort:         sort,
	}, nil
}

func (uc *storefrontUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	products, err := uc.RawProducts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			found := p.Clone()
			return &found, nil
		}
	}
	uc.log.Warnf("Storefront: Product ID %s not found", id)
	return nil, fmt.Errorf("product with id %s: %w", id, domain.ErrProductNotFound)
}

func (uc *storefrontUseCase) FeaturedSection(ctx context.Context) (*FeaturedSection, error) {
	products, err := uc.RawProducts(ctx)
	if err != nil {
		return nil, err
	}
	section := BuildFeaturedSection(products)
	return &section, nil
}

func (uc *storefrontUseCase) Categories(ctx context.Context) ([]domain.Category, error) {
	products, err := uc.RawProducts(ctx)
	if err != nil {
		return nil, err
	}
	managed, err := uc.managedCategories(ctx)
	if err != nil {
		return nil, err
	}
	return DeriveCategories(managed, products), nil
}

// managedCategories reads admin-managed categories when the source keeps
// them. A remote source only carries products.
func (uc *storefrontUseCase) managedCategories(ctx context.Context) ([]domain.Category, error) {
	cs, ok := uc.source.(domain.CategorySource)
	if !ok {
		return nil, nil
	}
	managed, err := cs.ManagedCategories(ctx)
	if err != nil {
		uc.log.Errorf("Storefront: Failed to read categories: %v", err)
		return nil, fmt.Errorf("could not retrieve categories: %w", err)
	}
	return managed, nil
}

// ResolveCategory maps a query value such as "printers" to the canonical
// category name.
func (uc *storefrontUseCase) ResolveCategory(ctx context.Context, value string) (string, bool, error) {
	categories, err := uc.Categories(ctx)
	if err != nil {
		return "", false, err
	}
	c, ok := findCategory(categories, value)
	return c.Name, ok, nil
}
