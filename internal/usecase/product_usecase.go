package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"catalog_service/internal/domain"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

type ProductUseCase interface {
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, updates map[string]interface{}) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ToggleFeatured(ctx context.Context, id string) (*domain.Product, error)
	SortProducts(ctx context.Context, field domain.SortField, direction domain.SortDirection) ([]domain.Product, error)
	ToggleSort(ctx context.Context, field domain.SortField) ([]domain.Product, domain.SortState, error)
	SortState() domain.SortState
	ListProducts(ctx context.Context) ([]domain.Product, error)
	Stats(ctx context.Context) CatalogStats
	ImportProducts(ctx context.Context, r io.Reader) (*ImportReport, error)
	ProductsCSV(ctx context.Context, w io.Writer) error
}

// productPatch holds the fields an edit may change. id and featured are not
// editable here.
type productPatch struct {
	Name         *string           `mapstructure:"name"`
	Price        *string           `mapstructure:"price"`
	Discount     *string           `mapstructure:"discount"`
	Category     *string           `mapstructure:"category"`
	Image        *string           `mapstructure:"image"`
	Description  *string           `mapstructure:"description"`
	Availability *string           `mapstructure:"availability"`
	Specs        interface{}       `mapstructure:"specs"`
}

type productUseCase struct {
	catalog *Catalog
	newID   func() string
	log     *logrus.Logger
}

func NewProductUseCase(catalog *Catalog, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		catalog: catalog,
		newID:   uuid.NewString,
		log:     logger,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product, errs := ValidateProductInput(input)
	if len(errs) > 0 {
		uc.log.Warnf("Use Case: Rejected new product '%s': %v", strings.TrimSpace(string(input.Name)), errs)
		return nil, errs
	}

	uc.log.Infof("Use Case: Attempting to create product '%s'", product.Name)
	err := uc.catalog.mutate(ctx, func(s *catalogState) error {
		product.ID = uc.uniqueID(s)
		s.products = append(s.products, product)
		return nil
	})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to create product '%s': %v", product.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product '%s' created successfully with ID %s", product.Name, product.ID)
	created := product.Clone()
	return &created, nil
}

func (uc *productUseCase) uniqueID(s *catalogState) string {
	for {
		id := uc.newID()
		if s.indexOf(id) < 0 {
			return id
		}
		uc.log.Warnf("Use Case: Generated product ID %s already in use, retrying", id)
	}
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var (
		product domain.Product
		found   bool
	)
	uc.catalog.view(func(s *catalogState) {
		if i := s.indexOf(id); i >= 0 {
			product = s.products[i].Clone()
			found = true
		}
	})
	if !found {
		uc.log.Warnf("Use Case: Product ID %s not found", id)
		return nil, fmt.Errorf("product with id %s: %w", id, domain.ErrProductNotFound)
	}
	return &product, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id string, updates map[string]interface{}) (*domain.Product, error) {
	var patch productPatch
	var meta mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &patch,
		Metadata:         &meta,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not build update decoder: %w", err)
	}
	if err := decoder.Decode(updates); err != nil {
		uc.log.Warnf("Use Case: Invalid update payload for product ID %s: %v", id, err)
		return nil, domain.ValidationErrors{"body": "Invalid update: " + err.Error()}
	}
	specs, err := patch.specRows()
	if err != nil {
		uc.log.Warnf("Use Case: Invalid specs in update for product ID %s: %v", id, err)
		return nil, domain.ValidationErrors{"specs": "Specifications must be a list of key/value rows or an object"}
	}
	for _, key := range meta.Unused {
		uc.log.Warnf("Use Case: Ignoring unsupported field '%s' in update for product ID %s", key, id)
	}

	var updated domain.Product
	err = uc.catalog.mutate(ctx, func(s *catalogState) error {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("product with id %s: %w", id, domain.ErrProductNotFound)
		}
		current := s.products[i]

		merged, errs := ValidateProductInput(patch.applyTo(inputFromProduct(current), specs))
		if len(errs) > 0 {
			return errs
		}
		merged.ID = current.ID
		merged.Featured = current.Featured
		s.products[i] = merged
		updated = merged.Clone()
		return nil
	})
	if err != nil {
		uc.log.Warnf("Use Case: Failed to update product ID %s: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product updated successfully for ID %s", id)
	return &updated, nil
}

// specRows accepts the same shapes as the create form: a list of
// {key, value} rows or a plain object. A nil result leaves specs unchanged.
func (p productPatch) specRows() (SpecRows, error) {
	if p.Specs == nil {
		return nil, nil
	}
	raw, err := json.Marshal(p.Specs)
	if err != nil {
		return nil, err
	}
	rows := SpecRows{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (p productPatch) applyTo(in ProductInput, specs SpecRows) ProductInput {
	set := func(dst *FormValue, src *string) {
		if src != nil {
			*dst = FormValue(*src)
		}
	}
	set(&in.Name, p.Name)
	set(&in.Price, p.Price)
	set(&in.Discount, p.Discount)
	set(&in.Category, p.Category)
	set(&in.Image, p.Image)
	set(&in.Description, p.Description)
	set(&in.Availability, p.Availability)
	if specs != nil {
		in.Specs = specs
	}
	return in
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	uc.log.Infof("Use Case: Attempting to delete product ID %s", id)
	err := uc.catalog.mutate(ctx, func(s *catalogState) error {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("product with id %s: %w", id, domain.ErrProductNotFound)
		}
		s.products = append(s.products[:i], s.products[i+1:]...)
		return nil
	})
	if err != nil {
		uc.log.Warnf("Use Case: Failed to delete product ID %s: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product deleted successfully for ID %s", id)
	return nil
}

func (uc *productUseCase) ToggleFeatured(ctx context.Context, id string) (*domain.Product, error) {
	var toggled domain.Product
	err := uc.catalog.mutate(ctx, func(s *catalogState) error {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("product with id %s: %w", id, domain.ErrProductNotFound)
		}
		if !s.products[i].Featured && !CanFeature(CountFeatured(s.products)) {
			return domain.ErrFeaturedLimit
		}
		s.products[i].Featured = !s.products[i].Featured
		toggled = s.products[i].Clone()
		return nil
	})
	if err != nil {
		uc.log.Warnf("Use Case: Failed to toggle featured for product ID %s: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Product ID %s featured=%t", id, toggled.Featured)
	return &toggled, nil
}

func (uc *productUseCase) SortProducts(ctx context.Context, field domain.SortField, direction domain.SortDirection) ([]domain.Product, error) {
	return uc.sortCatalog(ctx, field, func(domain.SortState) domain.SortDirection { return direction })
}

// ToggleSort sorts by field, flipping the direction when field is already the
// active sort and starting ascending otherwise.
func (uc *productUseCase) ToggleSort(ctx context.Context, field domain.SortField) ([]domain.Product, domain.SortState, error) {
	var applied domain.SortState
	sorted, err := uc.sortCatalog(ctx, field, func(current domain.SortState) domain.SortDirection {
		applied = domain.SortState{Field: field, Direction: NextDirection(current, field)}
		return applied.Direction
	})
	if err != nil {
		return nil, uc.SortState(), err
	}
	return sorted, applied, nil
}

// sortCatalog reorders the canonical list in place. The displayed order
// becomes the stored order.
func (uc *productUseCase) sortCatalog(ctx context.Context, field domain.SortField, pick func(current domain.SortState) domain.SortDirection) ([]domain.Product, error) {
	var sorted []domain.Product
	var direction domain.SortDirection
	err := uc.catalog.mutate(ctx, func(s *catalogState) error {
		direction = pick(s.sort)
		ordered, err := SortProducts(s.products, field, direction)
		if err != nil {
			return err
		}
		s.products = ordered
		s.sort = domain.SortState{Field: field, Direction: direction}
		sorted = make([]domain.Product, len(ordered))
		for i, p := range ordered {
			sorted[i] = p.Clone()
		}
		return nil
	})
	if err != nil {
		uc.log.Warnf("Use Case: Failed to sort catalog by %s %s: %v", field, direction, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Catalog sorted by %s %s", field, direction)
	return sorted, nil
}

func (uc *productUseCase) SortState() domain.SortState {
	var state domain.SortState
	uc.catalog.view(func(s *catalogState) { state = s.sort })
	return state
}

// ListProducts returns the catalog in its canonical order.
func (uc *productUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return uc.catalog.products(), nil
}

func (uc *productUseCase) Stats(ctx context.Context) CatalogStats {
	var stats CatalogStats
	uc.catalog.view(func(s *catalogState) { stats = ComputeStats(s.products) })
	return stats
}
