package usecase

import "catalog_service/internal/domain"

const (
	// FeaturedLimit is the most products the admin may feature at once.
	FeaturedLimit = 8
	// FeaturedSectionMinimum is the featured count at which the homepage section appears.
	FeaturedSectionMinimum = 4
)

type FeaturedSection struct {
	Visible  bool             `json:"visible"`
	Columns  int              `json:"columns"`
	Products []domain.Product `json:"products"`
}

func FeaturedProducts(products []domain.Product) []domain.Product {
	featured := make([]domain.Product, 0)
	for _, p := range products {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured
}

func CountFeatured(products []domain.Product) int {
	n := 0
	for _, p := range products {
		if p.Featured {
			n++
		}
	}
	return n
}

func FeaturedSectionVisible(featuredCount int) bool {
	return featuredCount >= FeaturedSectionMinimum
}

// FeaturedColumns picks the grid width for the displayed featured count.
func FeaturedColumns(featuredCount int) int {
	switch {
	case featuredCount >= 4:
		return 4
	case featuredCount == 3:
		return 3
	default:
		return 2
	}
}

// CanFeature reports whether one more product may be featured.
func CanFeature(featuredCount int) bool {
	return featuredCount < FeaturedLimit
}

func BuildFeaturedSection(products []domain.Product) FeaturedSection {
	featured := FeaturedProducts(products)
	if !FeaturedSectionVisible(len(featured)) {
		return FeaturedSection{Visible: false, Products: []domain.Product{}}
	}
	return FeaturedSection{
		Visible:  true,
		Columns:  FeaturedColumns(len(featured)),
		Products: featured,
	}
}
