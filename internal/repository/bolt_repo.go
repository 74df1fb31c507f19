package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

var (
	boltBucket = []byte("catalog")
	boltKey    = []byte("products")
)

type boltCatalogRepository struct {
	db  *bolt.DB
	log *logrus.Logger
}

// OpenBolt opens (or creates) the local catalog file.
func OpenBolt(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt file %s: %w", path, err)
	}
	return db, nil
}

func NewBoltCatalogRepository(db *bolt.DB, logger *logrus.Logger) domain.CatalogRepository {
	return &boltCatalogRepository{
		db:  db,
		log: logger,
	}
}

func (r *boltCatalogRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	var raw []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket)
		if b == nil {
			return nil
		}
		if v := b.Get(boltKey); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		r.log.Errorf("Failed to read catalog from bolt: %v", err)
		return nil, fmt.Errorf("could not read catalog: %w", err)
	}
	if raw == nil {
		return nil, domain.ErrStorageEmpty
	}
	return decodeSnapshot(raw)
}

func (r *boltCatalogRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not encode catalog: %w", err)
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return b.Put(boltKey, raw)
	})
	if err != nil {
		r.log.Errorf("Failed to write catalog to bolt: %v", err)
		return fmt.Errorf("could not write catalog: %w", err)
	}
	r.log.Debugf("Catalog saved to bolt (%d products)", len(snapshot.Products))
	return nil
}

// decodeSnapshot accepts the snapshot document and, for older data, a bare
// product array.
func decodeSnapshot(raw []byte) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &snapshot.Products); err != nil {
			return nil, fmt.Errorf("could not decode stored products: %w", err)
		}
		return &snapshot, nil
	}
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("could not decode stored catalog: %w", err)
	}
	return &snapshot, nil
}
