package service

import (
	"context"

	"jerseylab-api/internal/cache"
	"jerseylab-api/internal/model"
	"jerseylab-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	categoriesCacheKey  = "categories"
	categoryKeyCachePfx = "category:"
)

// catalogService implements CatalogService with a TTL cache in front of
// category reads, the hottest storefront path.
type catalogService struct {
	catalogRepo repository.CatalogRepository
	cache       *cache.Cache
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalogRepo repository.CatalogRepository, c *cache.Cache, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		cache:       c,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// ListCategories returns all categories, served from cache when fresh.
func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	if v, ok := s.cache.Get(categoriesCacheKey); ok {
		if categories, ok := v.([]model.Category); ok {
			s.logger.Debug().Int("count", len(categories)).Msg("categories served from cache")
			return categories, nil
		}
	}

	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(categoriesCacheKey, categories)
	return categories, nil
}

// GetCategoryByKey returns a single category by its key, served from cache
// when fresh. Misses are not cached.
func (s *catalogService) GetCategoryByKey(ctx context.Context, key string) (*model.Category, error) {
	cacheKey := categoryKeyCachePfx + key
	if v, ok := s.cache.Get(cacheKey); ok {
		if category, ok := v.(*model.Category); ok {
			s.logger.Debug().Str("key", key).Msg("category served from cache")
			return category, nil
		}
	}

	category, err := s.catalogRepo.GetCategoryByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}

	s.cache.Set(cacheKey, category)
	return category, nil
}

// UpdateCategory applies an admin edit and invalidates the category cache so
// the storefront never serves the old copy past the write.
func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, upd model.CategoryUpdate) (*model.Category, error) {
	if upd.Title == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Title is required")
	}

	category, err := s.catalogRepo.UpdateCategory(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}

	s.cache.Clear()
	s.logger.Info().Str("key", category.Key).Msg("category updated")
	return category, nil
}

// ListProducts retrieves products with pagination support.
func (s *catalogService) ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.catalogRepo.ListProducts(ctx, limit, offset)
}

// GetProduct retrieves a single product by its ID.
func (s *catalogService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.catalogRepo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.NewDomainError(model.ErrCodeNotFound, "Product not found")
	}
	return product, nil
}
