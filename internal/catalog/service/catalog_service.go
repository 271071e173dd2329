package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/catalog/cache"
	"storefront/internal/domain"
)

type ProductRepository interface {
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	Count(ctx context.Context, f domain.ProductFilter) (int, error)
	Search(ctx context.Context, s domain.ProductSearch) ([]domain.Product, error)
	CountSearch(ctx context.Context, s domain.ProductSearch) (int, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
}

type CategoryRepository interface {
	ListByParent(ctx context.Context, parentID *int64) ([]domain.Category, error)
}

type CatalogService struct {
	products   ProductRepository
	categories CategoryRepository
	cache      cache.ProductCache
	logger     *zap.Logger
}

func NewCatalogService(products ProductRepository, categories CategoryRepository, productCache cache.ProductCache, logger *zap.Logger) *CatalogService {
	if productCache == nil {
		productCache = cache.NopProductCache{}
	}
	return &CatalogService{
		products:   products,
		categories: categories,
		cache:      productCache,
		logger:     logger,
	}
}

// ListProducts fetches one page and the total match count concurrently.
func (s *CatalogService) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	var (
		products []domain.Product
		total    int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		products, err = s.products.List(egCtx, f)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.products.Count(egCtx, f)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, q domain.ProductSearch) ([]domain.Product, int, error) {
	ctx, span := otel.Tracer("storefront").Start(ctx, "catalog.SearchProducts")
	defer span.End()
	span.SetAttributes(attribute.String("search.term", q.Term))

	var (
		products []domain.Product
		total    int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		products, err = s.products.Search(egCtx, q)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.products.CountSearch(egCtx, q)
		return err
	})
	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("search.results", len(products)))
	return products, total, nil
}

// GetProduct reads through the product cache. Cache failures are logged and fall back to
// the database.
func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	ctx, span := otel.Tracer("storefront").Start(ctx, "catalog.GetProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.slug", slug))

	cached, err := s.cache.Get(ctx, slug)
	if err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("product cache read failed", zap.String("slug", slug), zap.Error(err))
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	p, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, *p); err != nil {
		s.logger.Warn("product cache write failed", zap.String("slug", slug), zap.Error(err))
	}
	return p, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, parentID *int64) ([]domain.Category, error) {
	return s.categories.ListByParent(ctx, parentID)
}

// GetProductsByIDs returns the products found and the ids that matched nothing.
func (s *CatalogService) GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, []int64, error) {
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[int64]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}

	var notFoundIDs []int64
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}
