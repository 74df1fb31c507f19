package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type catalogState struct {
	products   []domain.Product
	categories []domain.Category
	sort       domain.SortState
}

func (s *catalogState) clone() *catalogState {
	c := &catalogState{
		products:   make([]domain.Product, len(s.products)),
		categories: make([]domain.Category, len(s.categories)),
		sort:       s.sort,
	}
	for i, p := range s.products {
		c.products[i] = p.Clone()
	}
	copy(c.categories, s.categories)
	return c
}

func (s *catalogState) snapshot() *domain.Snapshot {
	return &domain.Snapshot{Products: s.products, Categories: s.categories}
}

func (s *catalogState) indexOf(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Catalog is the single owner of the canonical product list. Mutations are
// applied to a copy, persisted as a full snapshot and only then made visible,
// so a failed write leaves memory and storage in agreement.
type Catalog struct {
	mu    sync.RWMutex
	state *catalogState
	repo  domain.CatalogRepository
	seed  []domain.Product
	log   *logrus.Logger
}

func NewCatalog(repo domain.CatalogRepository, seed []domain.Product, logger *logrus.Logger) *Catalog {
	return &Catalog{
		state: &catalogState{},
		repo:  repo,
		seed:  seed,
		log:   logger,
	}
}

// Load replaces the in-memory catalog with the stored snapshot, falling back
// to the seed list when storage is empty. Stored products that fail
// validation are skipped.
func (c *Catalog) Load(ctx context.Context) error {
	snapshot, err := c.repo.Load(ctx)
	if errors.Is(err, domain.ErrStorageEmpty) {
		c.log.Infof("Catalog: Storage is empty, using %d seed products", len(c.seed))
		snapshot = &domain.Snapshot{Products: c.seed}
	} else if err != nil {
		c.log.Errorf("Catalog: Failed to load catalog from storage: %v", err)
		return fmt.Errorf("could not load catalog: %w", err)
	}

	state := &catalogState{
		categories: append([]domain.Category(nil), snapshot.Categories...),
	}
	seen := make(map[string]bool, len(snapshot.Products))
	for _, p := range snapshot.Products {
		if err := p.Validate(); err != nil {
			c.log.Warnf("Catalog: Skipping invalid stored product %q: %v", p.ID, err)
			continue
		}
		p.Availability, _ = domain.ParseAvailability(string(p.Availability))
		if seen[p.ID] {
			c.log.Warnf("Catalog: Skipping duplicate stored product id %q", p.ID)
			continue
		}
		seen[p.ID] = true
		state.products = append(state.products, p.Clone())
	}

	c.mu.Lock()
	c.state = state
	c.mu.Unlock()

	c.log.Infof("Catalog: Loaded %d products and %d managed categories", len(state.products), len(state.categories))
	return nil
}

// view runs fn against the current state under a read lock. fn must not
// retain or modify what it is given.
func (c *Catalog) view(fn func(s *catalogState)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.state)
}

// mutate applies fn to a copy of the state and commits it once the full
// snapshot has been saved.
func (c *Catalog) mutate(ctx context.Context, fn func(s *catalogState) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := c.repo.Save(ctx, next.snapshot()); err != nil {
		c.log.Errorf("Catalog: Failed to persist catalog, changes discarded: %v", err)
		return fmt.Errorf("could not persist catalog: %w", err)
	}
	c.state = next
	return nil
}

// ListProducts lets the local catalog serve as the storefront's product source.
func (c *Catalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.products(), nil
}

// ManagedCategories returns the admin-added categories and display labels.
func (c *Catalog) ManagedCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	c.view(func(s *catalogState) {
		out = make([]domain.Category, len(s.categories))
		copy(out, s.categories)
	})
	return out, nil
}

func (c *Catalog) products() []domain.Product {
	var out []domain.Product
	c.view(func(s *catalogState) {
		out = make([]domain.Product, len(s.products))
		for i, p := range s.products {
			out[i] = p.Clone()
		}
	})
	return out
}
