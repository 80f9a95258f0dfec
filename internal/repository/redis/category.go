package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
)

const categoriesKey = "storefront:categories:all"

// CategoryCache is a read-through cache in front of a CategoryRepository.
// Only the full category list is cached; Redis failures fall back to the
// underlying repository.
type CategoryCache struct {
	next   repository.CategoryRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCategoryCache wraps next with a Redis cache of the given TTL.
func NewCategoryCache(next repository.CategoryRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CategoryCache {
	return &CategoryCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Create inserts the category and drops the cached list.
func (c *CategoryCache) Create(ctx context.Context, category *domain.Category) error {
	if err := c.next.Create(ctx, category); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// GetByID is not cached.
func (c *CategoryCache) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return c.next.GetByID(ctx, id)
}

// ListByNames is not cached.
func (c *CategoryCache) ListByNames(ctx context.Context, names []string) ([]domain.Category, error) {
	return c.next.ListByNames(ctx, names)
}

// ListAll returns the cached category list, loading and caching it on a miss.
func (c *CategoryCache) ListAll(ctx context.Context) ([]domain.Category, error) {
	cached, err := c.get(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "category cache read failed",
			slog.String("error", err.Error()),
		)
	}

	categories, err := c.next.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.set(ctx, categories); err != nil {
		c.logger.WarnContext(ctx, "category cache write failed",
			slog.String("error", err.Error()),
		)
	}

	return categories, nil
}

// Invalidate removes the cached category list.
func (c *CategoryCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, categoriesKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "category cache invalidate failed",
			slog.String("error", err.Error()),
		)
	}
}

func (c *CategoryCache) get(ctx context.Context) ([]domain.Category, error) {
	data, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		return nil, err
	}

	var categories []domain.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("unmarshal categories: %w", err)
	}
	return categories, nil
}

func (c *CategoryCache) set(ctx context.Context, categories []domain.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}

	if err := c.client.Set(ctx, categoriesKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set categories: %w", err)
	}
	return nil
}
