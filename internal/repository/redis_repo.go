package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalog_service/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const redisCatalogKey = "catalog:products"

type redisCatalogRepository struct {
	client *redis.Client
	log    *logrus.Logger
}

// NewRedisClient connects and pings the server before returning.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is not set")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewRedisCatalogRepository(client *redis.Client, logger *logrus.Logger) domain.CatalogRepository {
	return &redisCatalogRepository{
		client: client,
		log:    logger,
	}
}

func (r *redisCatalogRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	raw, err := r.client.Get(ctx, redisCatalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrStorageEmpty
	}
	if err != nil {
		r.log.Errorf("Failed to read catalog from Redis: %v", err)
		return nil, fmt.Errorf("could not read catalog: %w", err)
	}
	return decodeSnapshot(raw)
}

func (r *redisCatalogRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not encode catalog: %w", err)
	}
	if err := r.client.Set(ctx, redisCatalogKey, raw, 0).Err(); err != nil {
		r.log.Errorf("Failed to write catalog to Redis: %v", err)
		return fmt.Errorf("could not write catalog: %w", err)
	}
	r.log.Debugf("Catalog saved to Redis (%d products)", len(snapshot.Products))
	return nil
}
