package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS products (
    id           TEXT PRIMARY KEY,
    position     INTEGER NOT NULL,
    name         TEXT NOT NULL,
    price        NUMERIC(12,2) NOT NULL CHECK (price >= 0),
    discount     NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (discount >= 0),
    category     TEXT NOT NULL,
    image        TEXT NOT NULL DEFAULT '',
    description  TEXT NOT NULL,
    availability TEXT NOT NULL,
    specs        JSONB NOT NULL DEFAULT '{}',
    featured     BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS product_categories (
    name     TEXT PRIMARY KEY,
    label    TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_meta (
    key      TEXT PRIMARY KEY,
    saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// catalogMetaKey marks that the catalog has been written at least once, so an
// admin who deletes every product does not get the seed list back.
const catalogMetaKey = "catalog:products"

type postgresCatalogRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCatalogRepository(db *sql.DB, logger *logrus.Logger) domain.CatalogRepository {
	return &postgresCatalogRepository{
		db:  db,
		log: logger,
	}
}

// EnsurePostgresSchema creates the catalog tables when they are missing.
func EnsurePostgresSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("could not create catalog schema: %w", err)
	}
	return nil
}

func (r *postgresCatalogRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	var savedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `SELECT saved_at FROM catalog_meta WHERE key = $1`, catalogMetaKey).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStorageEmpty
	}
	if err != nil {
		r.log.Errorf("Failed to read catalog marker: %v", err)
		return nil, fmt.Errorf("could not read catalog: %w", err)
	}

	query := `
        SELECT id, name, price, discount, category, image, description, availability, specs, featured
        FROM products
        ORDER BY position ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Errorf("Failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	snapshot := &domain.Snapshot{Products: []domain.Product{}}
	for rows.Next() {
		var (
			p     domain.Product
			specs []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Discount, &p.Category, &p.Image,
			&p.Description, &p.Availability, &specs, &p.Featured); err != nil {
			r.log.Errorf("Failed to scan product row: %v", err)
			return nil, fmt.Errorf("could not read product row: %w", err)
		}
		if err := json.Unmarshal(specs, &p.Specs); err != nil {
			r.log.Warnf("Product %s has unreadable specs: %v", p.ID, err)
		}
		snapshot.Products = append(snapshot.Products, p)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Error during products list iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if snapshot.Categories, err = loadCategories(ctx, r.db); err != nil {
		r.log.Errorf("Failed to list categories: %v", err)
		return nil, err
	}

	r.log.Infof("Retrieved %d products and %d categories from Postgres", len(snapshot.Products), len(snapshot.Categories))
	return snapshot, nil
}

// Save rewrites the stored catalog in one transaction.
func (r *postgresCatalogRepository) Save(ctx context.Context, snapshot *domain.Snapshot) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		r.log.Errorf("Failed to clear products: %v", err)
		return fmt.Errorf("could not clear products: %w", err)
	}

	insert := `
        INSERT INTO products (id, position, name, price, discount, category, image, description, availability, specs, featured)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i, p := range snapshot.Products {
		specs, mErr := json.Marshal(p.Specs)
		if mErr != nil {
			return fmt.Errorf("could not encode specs for product %s: %w", p.ID, mErr)
		}
		_, err = tx.ExecContext(ctx, insert, p.ID, i, p.Name, p.Price, p.Discount, p.Category,
			p.Image, p.Description, string(p.Availability), string(specs), p.Featured)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				r.log.Warnf("Duplicate product id %s in snapshot", p.ID)
				return fmt.Errorf("product with id %s already stored: %w", p.ID, err)
			}
			if errors.As(err, &pqErr) && pqErr.Code == "23514" {
				r.log.Warnf("Check constraint violation for product '%s': %s", p.Name, pqErr.Message)
				return fmt.Errorf("product data constraint violation: %s", pqErr.Message)
			}
			r.log.Errorf("Failed to insert product %s: %v", p.ID, err)
			return fmt.Errorf("could not store product %s: %w", p.ID, err)
		}
	}

	if err = saveCategories(ctx, tx, snapshot.Categories); err != nil {
		r.log.Errorf("Failed to store categories: %v", err)
		return err
	}

	upsert := `
        INSERT INTO catalog_meta (key, saved_at) VALUES ($1, NOW())
        ON CONFLICT (key) DO UPDATE SET saved_at = EXCLUDED.saved_at`
	if _, err = tx.ExecContext(ctx, upsert, catalogMetaKey); err != nil {
		return fmt.Errorf("could not mark catalog saved: %w", err)
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Failed to commit catalog: %v", err)
		return fmt.Errorf("could not commit catalog: %w", err)
	}
	r.log.Debugf("Catalog saved to Postgres (%d products)", len(snapshot.Products))
	return nil
}
