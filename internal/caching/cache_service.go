package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"laundryops/internal/config"
	"laundryops/internal/models"
)

const keyPrefix = "laundryops"

// CacheService caches single inventory items and remembers which low-stock alerts
// were already raised. A nil item with a nil error is a cache miss.
type CacheService interface {
	GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	SetItem(ctx context.Context, item *models.InventoryItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// MarkLowStockAlerted returns true the first time it is called for id within ttl.
	MarkLowStockAlerted(ctx context.Context, id uuid.UUID, ttl time.Duration) (bool, error)
	ClearLowStockAlert(ctx context.Context, id uuid.UUID) error

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client  *redis.Client
	itemTTL time.Duration
}

// NewRedisCacheService accepts either host:port or a redis:// URL.
func NewRedisCacheService(cfg config.RedisConfig) (CacheService, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		parsed, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}

	return &redisCacheService{
		client:  redis.NewClient(opts),
		itemTTL: cfg.ItemTTL,
	}, nil
}

func itemKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:inventory:item:%s", keyPrefix, id.String())
}

func alertKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:inventory:low_stock_alert:%s", keyPrefix, id.String())
}

func (r *redisCacheService) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	data, err := r.client.Get(ctx, itemKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var item models.InventoryItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *redisCacheService) SetItem(ctx context.Context, item *models.InventoryItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, itemKey(item.ID), data, r.itemTTL).Err()
}

func (r *redisCacheService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.client.Del(ctx, itemKey(id)).Err()
}

func (r *redisCacheService) MarkLowStockAlerted(ctx context.Context, id uuid.UUID, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, alertKey(id), time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (r *redisCacheService) ClearLowStockAlert(ctx context.Context, id uuid.UUID) error {
	return r.client.Del(ctx, alertKey(id)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}

// noopCacheService is used when no redis address is configured: every read misses
// and every alert is treated as new.
type noopCacheService struct{}

func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetItem(context.Context, uuid.UUID) (*models.InventoryItem, error) {
	return nil, nil
}
func (noopCacheService) SetItem(context.Context, *models.InventoryItem) error { return nil }
func (noopCacheService) DeleteItem(context.Context, uuid.UUID) error          { return nil }
func (noopCacheService) MarkLowStockAlerted(context.Context, uuid.UUID, time.Duration) (bool, error) {
	return true, nil
}
func (noopCacheService) ClearLowStockAlert(context.Context, uuid.UUID) error { return nil }
func (noopCacheService) Ping(context.Context) error                         { return nil }
func (noopCacheService) Close() error                                       { return nil }
