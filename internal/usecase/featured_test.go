package usecase

import (
	"testing"

	"catalog_service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func withFeatured(n int) []domain.Product {
	products := fixtureProducts()
	for i := 0; i < n && i < len(products); i++ {
		products[i].Featured = true
	}
	return products
}

func TestBuildFeaturedSection_HiddenBelowFour(t *testing.T) {
	section := BuildFeaturedSection(withFeatured(3))
	assert.False(t, section.Visible)
	assert.Empty(t, section.Products)
	assert.NotNil(t, section.Products)
}

func TestBuildFeaturedSection_VisibleAtFour(t *testing.T) {
	section := BuildFeaturedSection(withFeatured(4))
	assert.True(t, section.Visible)
	assert.Equal(t, 4, section.Columns)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids(section.Products))
}

func TestFeaturedColumns(t *testing.T) {
	cases := map[int]int{0: 2, 1: 2, 2: 2, 3: 3, 4: 4, 8: 4}
	for count, want := range cases {
		assert.Equal(t, want, FeaturedColumns(count), "count %d", count)
	}
}

func TestCanFeature(t *testing.T) {
	assert.True(t, CanFeature(0))
	assert.True(t, CanFeature(7))
	assert.False(t, CanFeature(8))
}
