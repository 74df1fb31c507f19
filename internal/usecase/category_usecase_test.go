package usecase

import (
	"context"
	"errors"
	"testing"

	"catalog_service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCategories_BaseManagedAndDerived(t *testing.T) {
	products := append(fixtureProducts(), product("x1", "Label Maker", "Labelling", "40", "", domain.InStock))
	catalog, _ := newTestCatalog(t, products)
	uc := NewCategoryUseCase(catalog, testLogger())
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, "Storage")
	require.NoError(t, err)

	categories := uc.ListCategories(ctx)
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Computers", "Printers", "Networking", "Software", "Accessories", "Storage", "Labelling"}, names)
	assert.Equal(t, 3, categories[1].ProductCount)
	assert.Equal(t, 0, categories[5].ProductCount)
}

func TestCreateCategory_RejectsDuplicatesAndBlank(t *testing.T) {
	catalog, _ := newTestCatalog(t, fixtureProducts())
	uc := NewCategoryUseCase(catalog, testLogger())
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, "printers")
	assert.True(t, errors.Is(err, domain.ErrCategoryExists))

	_, err = uc.CreateCategory(ctx, "   ")
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Category name is required", verrs["name"])
}

func TestRenameCategory_IsDisplayOnly(t *testing.T) {
	catalog, repo := newTestCatalog(t, fixtureProducts())
	uc := NewCategoryUseCase(catalog, testLogger())
	products := NewProductUseCase(catalog, testLogger())
	ctx := context.Background()

	renamed, err := uc.RenameCategory(ctx, "printers", "Printers & Scanners")
	require.NoError(t, err)
	assert.Equal(t, "Printers", renamed.Name)
	assert.Equal(t, "Printers & Scanners", renamed.DisplayName())

	p, err := products.GetProductByID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Printers", p.Category)

	stored, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored.Categories, 1)
	assert.Equal(t, domain.Category{Name: "Printers", Label: "Printers & Scanners"}, stored.Categories[0])

	again, err := uc.RenameCategory(ctx, "Printers", "")
	require.NoError(t, err)
	assert.Equal(t, "Printers", again.DisplayName())

	_, err = uc.RenameCategory(ctx, "Drones", "Flying things")
	assert.True(t, errors.Is(err, domain.ErrCategoryNotFound))
}

func TestResolveCategory(t *testing.T) {
	catalog, _ := newTestCatalog(t, fixtureProducts())
	uc := NewCategoryUseCase(catalog, testLogger())

	name, ok := uc.ResolveCategory(context.Background(), "NETWORKING")
	assert.True(t, ok)
	assert.Equal(t, "Networking", name)

	_, ok = uc.ResolveCategory(context.Background(), "Drones")
	assert.False(t, ok)
}
