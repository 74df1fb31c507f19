package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"catalog_service/internal/domain"
)

// MemoryCatalogRepository keeps the encoded snapshot in process memory.
// Nothing survives a restart.
type MemoryCatalogRepository struct {
	mu  sync.Mutex
	raw []byte
	// FailSave, when set, is returned by every Save.
	FailSave error
}

func NewMemoryCatalogRepository() *MemoryCatalogRepository {
	return &MemoryCatalogRepository{}
}

func (r *MemoryCatalogRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.raw == nil {
		return nil, domain.ErrStorageEmpty
	}
	return decodeSnapshot(r.raw)
}

func (r *MemoryCatalogRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSave != nil {
		return r.FailSave
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not encode catalog: %w", err)
	}
	r.raw = raw
	return nil
}

// SetRaw replaces the stored document as-is.
func (r *MemoryCatalogRepository) SetRaw(raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw = raw
}
