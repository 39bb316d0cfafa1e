package repository

import (
	"context"
	"time"

	"github.com/mansoorceksport/restshop/internal/domain"
)

const (
	productByIDKeyPrefix = "product:id:"
	productListKey       = "product:list"
	productCacheTTL      = 5 * time.Minute
)

// CachedProductRepository wraps a ProductRepository with Redis read-through caching
type CachedProductRepository struct {
	inner domain.ProductRepository
	cache *RedisCacheRepository
}

// NewCachedProductRepository creates a new cached product repository
func NewCachedProductRepository(inner domain.ProductRepository, cache *RedisCacheRepository) *CachedProductRepository {
	return &CachedProductRepository{
		inner: inner,
		cache: cache,
	}
}

// GetByID retrieves a product with caching
func (r *CachedProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	key := productByIDKeyPrefix + id

	var entry productEntry
	if err := r.cache.Get(ctx, key, &entry); err == nil {
		return entry.product(), nil
	}

	result, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	_ = r.cache.Set(ctx, key, cachedProduct(result), productCacheTTL)

	return result, nil
}

// List retrieves all products with caching
func (r *CachedProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var cached []*productEntry
	if err := r.cache.Get(ctx, productListKey, &cached); err == nil {
		products := make([]*domain.Product, 0, len(cached))
		for _, e := range cached {
			products = append(products, e.product())
		}
		return products, nil
	}

	products, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*productEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, cachedProduct(p))
	}
	_ = r.cache.Set(ctx, productListKey, entries, productCacheTTL)

	return products, nil
}

// Create creates a product and drops the cached list
func (r *CachedProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.inner.Create(ctx, product); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, productListKey)
	return nil
}

// Update updates a product and invalidates caches
func (r *CachedProductRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.inner.Update(ctx, id, fields); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, productByIDKeyPrefix+id, productListKey)
	return nil
}

// Delete deletes a product and invalidates caches
func (r *CachedProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, productByIDKeyPrefix+id, productListKey)
	return nil
}

// === Pass-through methods (no caching) ===

func (r *CachedProductRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	return r.inner.GetByIDs(ctx, ids)
}

// productEntry is the cached form of a Product. Product hides its timestamps
// from JSON, so the cache keeps its own shape.
type productEntry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ProductImage string  `json:"product_image,omitempty"`
}

func cachedProduct(p *domain.Product) *productEntry {
	return &productEntry{ID: p.ID, Name: p.Name, Price: p.Price, ProductImage: p.ProductImage}
}

func (e *productEntry) product() *domain.Product {
	return &domain.Product{ID: e.ID, Name: e.Name, Price: e.Price, ProductImage: e.ProductImage}
}
