package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/domain"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store"
)

// CategoryFreshness is how long a cached category list counts as fresh.
// Within the window the cache is served without contacting the backend; a
// stale cache is still served, with a refresh kicked off in the background.
const CategoryFreshness = 2 * time.Hour

// CategoryBackend is the subset of the commerce backend the category cache
// reads from.
type CategoryBackend interface {
	ListCategories(ctx context.Context) ([]medusa.ProductCategory, error)
}

// CategoryCache serves the storefront category list with a
// stale-while-revalidate policy backed by the shared store. The list always
// starts with the synthetic "All Products" entry.
type CategoryCache struct {
	backend CategoryBackend
	store   store.SessionStore
	logger  *slog.Logger

	mu         sync.Mutex
	refreshing bool

	nowFunc func() time.Time
}

// NewCategoryCache creates a category cache.
func NewCategoryCache(backend CategoryBackend, st store.SessionStore, logger *slog.Logger) *CategoryCache {
	return &CategoryCache{
		backend: backend,
		store:   st,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Categories returns the category list. A fresh cache is served as is; a
// stale cache is served immediately while one background refresh runs; an
// empty cache forces a synchronous fetch.
func (c *CategoryCache) Categories(ctx context.Context) ([]domain.Category, error) {
	snapshot, err := c.store.Categories(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to read category cache, fetching",
			slog.String("error", err.Error()),
		)
		snapshot = nil
	}

	if snapshot == nil {
		return c.Refresh(ctx)
	}

	if c.nowFunc().Sub(snapshot.FetchedAt) >= CategoryFreshness {
		c.refreshInBackground()
	}

	return snapshot.Categories, nil
}

// Refresh fetches the category list from the backend and replaces the
// cache, regardless of freshness.
func (c *CategoryCache) Refresh(ctx context.Context) ([]domain.Category, error) {
	raw, err := c.backend.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := domain.NormalizeCategories(raw)

	snapshot := store.CategorySnapshot{
		Categories: categories,
		FetchedAt:  c.nowFunc(),
	}
	if err := c.store.SetCategories(ctx, snapshot); err != nil {
		c.logger.WarnContext(ctx, "failed to write category cache",
			slog.String("error", err.Error()),
		)
	}

	return categories, nil
}

// refreshInBackground starts at most one concurrent refresh. The refresh
// runs detached from the request that triggered it.
func (c *CategoryCache) refreshInBackground() {
	c.mu.Lock()
	if c.refreshing {
		c.mu.Unlock()
		return
	}
	c.refreshing = true
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			c.refreshing = false
			c.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := c.Refresh(ctx); err != nil {
			c.logger.Warn("background category refresh failed",
				slog.String("error", err.Error()),
			)
		}
	}()
}
