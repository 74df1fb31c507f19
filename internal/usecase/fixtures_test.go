package usecase

import (
	"context"
	"io"
	"testing"

	"catalog_service/internal/domain"
	"catalog_service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(id, name, category, price, discount string, availability domain.Availability) domain.Product {
	p := domain.Product{
		ID:           id,
		Name:         name,
		Price:        dec(price),
		Category:     category,
		Image:        "/img/" + id + ".jpg",
		Description:  name + " for the office",
		Availability: availability,
		Specs:        map[string]string{"Model": id},
	}
	if discount != "" {
		p.Discount = dec(discount)
	}
	return p
}

// fixtureProducts is a small mixed catalog: three printers, two of them in
// stock and under 100.
func fixtureProducts() []domain.Product {
	return []domain.Product{
		product("p1", "ThinkPad T14", "Computers", "1349", "", domain.InStock),
		product("p2", "Brother HL-L2350DW", "Printers", "89.99", "", domain.InStock),
		product("p3", "Canon Pixma TS3320", "Printers", "59", "49", domain.InStock),
		product("p4", "Epson EcoTank", "Printers", "499.99", "", domain.OutOfStock),
		product("p5", "Cisco Catalyst 1000", "Networking", "1195", "1049", domain.InStock),
		product("p6", "UniFi U6 Pro", "Networking", "159", "", domain.OutOfStock),
		product("p7", "Microsoft 365", "Software", "150", "", domain.InStock),
		product("p8", "ESET PROTECT", "Software", "239", "199", domain.InStock),
		product("p9", "MX Keys", "Accessories", "99.99", "", domain.InStock),
		product("p10", "Dell P2723DE", "Accessories", "449.99", "379.99", domain.OutOfStock),
		product("p11", "APC Back-UPS", "Accessories", "100", "", domain.InStock),
	}
}

// newTestCatalog returns a loaded catalog backed by in-memory storage that
// already holds products.
func newTestCatalog(t *testing.T, products []domain.Product) (*Catalog, *repository.MemoryCatalogRepository) {
	t.Helper()
	repo := repository.NewMemoryCatalogRepository()
	require.NoError(t, repo.Save(context.Background(), &domain.Snapshot{Products: products}))
	catalog := NewCatalog(repo, nil, testLogger())
	require.NoError(t, catalog.Load(context.Background()))
	return catalog, repo
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
