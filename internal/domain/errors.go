package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrFeaturedLimit      = errors.New("cannot exceed 8 featured products")
	ErrInvalidSortField   = errors.New("invalid sort field")
	ErrInvalidDirection   = errors.New("invalid sort direction")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrCategoryExists     = errors.New("category already exists")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrStorageEmpty       = errors.New("catalog storage is empty")
	ErrCatalogUnavailable = errors.New("catalog is temporarily unavailable")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationErrors maps a form field to its user-facing message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
