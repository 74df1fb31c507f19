package usecase

import (
	"context"
	"fmt"
	"strings"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type CategoryUseCase interface {
	ListCategories(ctx context.Context) []domain.Category
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	RenameCategory(ctx context.Context, name, label string) (*domain.Category, error)
	ResolveCategory(ctx context.Context, value string) (string, bool)
}

type categoryUseCase struct {
	catalog *Catalog
	log     *logrus.Logger
}

func NewCategoryUseCase(catalog *Catalog, logger *logrus.Logger) CategoryUseCase {
	return &categoryUseCase{
		catalog: catalog,
		log:     logger,
	}
}

// DeriveCategories builds the known category set: the base list, then
// admin-managed categories, then any category only a product mentions.
// Labels come from managed entries; counts from the products.
func DeriveCategories(managed []domain.Category, products []domain.Product) []domain.Category {
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}
	labels := make(map[string]string, len(managed))
	for _, c := range managed {
		labels[c.Name] = c.Label
	}

	var out []domain.Category
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, domain.Category{Name: name, Label: labels[name], ProductCount: counts[name]})
	}
	for _, name := range domain.BaseCategories {
		add(name)
	}
	for _, c := range managed {
		add(c.Name)
	}
	for _, p := range products {
		add(p.Category)
	}
	return out
}

func findCategory(categories []domain.Category, value string) (domain.Category, bool) {
	value = strings.TrimSpace(value)
	for _, c := range categories {
		if strings.EqualFold(c.Name, value) {
			return c, true
		}
	}
	return domain.Category{}, false
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) []domain.Category {
	var categories []domain.Category
	uc.catalog.view(func(s *catalogState) {
		categories = DeriveCategories(s.categories, s.products)
	})
	return categories
}

func (uc *categoryUseCase) ResolveCategory(ctx context.Context, value string) (string, bool) {
	c, ok := findCategory(uc.ListCategories(ctx), value)
	return c.Name, ok
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		uc.log.Warn("Use Case: Attempted to create category with empty name")
		return nil, domain.ValidationErrors{"name": "Category name is required"}
	}

	uc.log.Infof("Use Case: Attempting to create category '%s'", name)
	created := domain.Category{Name: name}
	err := uc.catalog.mutate(ctx, func(s *catalogState) error {
		if existing, ok := findCategory(DeriveCategories(s.categories, s.products), name); ok {
			return fmt.Errorf("category '%s': %w", existing.Name, domain.ErrCategoryExists)
		}
		s.categories = append(s.categories, created)
		return nil
	})
	if err != nil {
		uc.log.Warnf("Use Case: Failed to create category '%s': %v", name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category '%s' created successfully", name)
	return &created, nil
}

// RenameCategory sets the display label of a category. Products keep the
// category name they were saved with; an empty label restores the name.
func (uc *categoryUseCase) RenameCategory(ctx context.Context, name, label string) (*domain.Category, error) {
	label = strings.TrimSpace(label)

	var renamed domain.Category
	err := uc.catalog.mutate(ctx, func(s *catalogState) error {
		existing, ok := findCategory(DeriveCategories(s.categories, s.products), name)
		if !ok {
			return fmt.Errorf("category '%s': %w", name, domain.ErrCategoryNotFound)
		}

		updated := false
		for i := range s.categories {
			if s.categories[i].Name == existing.Name {
				s.categories[i].Label = label
				updated = true
			}
		}
		if !updated {
			s.categories = append(s.categories, domain.Category{Name: existing.Name, Label: label})
		}
		existing.Label = label
		renamed = existing
		return nil
	})
	if err != nil {
		uc.log.Warnf("Use Case: Failed to rename category '%s': %v", name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category '%s' now displayed as '%s'", renamed.Name, renamed.DisplayName())
	return &renamed, nil
}
