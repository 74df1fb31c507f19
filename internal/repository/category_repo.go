package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/lib/pq"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func loadCategories(ctx context.Context, q queryer) ([]domain.Category, error) {
	query := `SELECT name, label FROM product_categories ORDER BY position ASC`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.Name, &category.Label); err != nil {
			return nil, fmt.Errorf("could not read category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func saveCategories(ctx context.Context, tx *sql.Tx, categories []domain.Category) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_categories`); err != nil {
		return fmt.Errorf("could not clear categories: %w", err)
	}
	query := `INSERT INTO product_categories (name, label, position) VALUES ($1, $2, $3)`
	for i, category := range categories {
		if _, err := tx.ExecContext(ctx, query, category.Name, category.Label, i); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return fmt.Errorf("category '%s': %w", category.Name, domain.ErrCategoryExists)
			}
			return fmt.Errorf("could not store category '%s': %w", category.Name, err)
		}
	}
	return nil
}
