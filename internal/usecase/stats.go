package usecase

import "catalog_service/internal/domain"

// CatalogStats backs the admin dashboard counters.
type CatalogStats struct {
	Total      int `json:"total"`
	InStock    int `json:"in_stock"`
	OutOfStock int `json:"out_of_stock"`
	OnSale     int `json:"on_sale"`
	Featured   int `json:"featured"`
}

func ComputeStats(products []domain.Product) CatalogStats {
	stats := CatalogStats{Total: len(products)}
	for _, p := range products {
		switch p.Availability {
		case domain.InStock:
			stats.InStock++
		case domain.OutOfStock:
			stats.OutOfStock++
		}
		if p.OnSale() {
			stats.OnSale++
		}
		if p.Featured {
			stats.Featured++
		}
	}
	return stats
}
