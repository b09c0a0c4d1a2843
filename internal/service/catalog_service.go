package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/apper"
	"storefront-service/internal/models"
	"storefront-service/internal/query"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/transform"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// DefaultRelatedLimit caps related-product lookups when the caller
// passes no limit.
const DefaultRelatedLimit = 4

var productFields = append(
	apper.Select("Id", "name_c", "description_c", "price_c", "stock_c",
		"featured_c", "sizes_c", "colors_c", "subcategory_c", "images_c"),
	apper.SelectRef("category_c", "Name"),
)

// CatalogService serves the product catalog from the record platform.
// The platform owns the catalog; this service only reads it.
type CatalogService struct {
	api      apper.API
	cache    *redisclient.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service. The cache may be nil,
// in which case every read goes to the record API.
func NewCatalogService(api apper.API, cache *redisclient.Client, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		api:      api,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// GetAll lists products. Category, name search and sorting resolve on
// the platform; size, color and price-bound filters apply afterwards
// over the transformed results.
func (s *CatalogService) GetAll(ctx context.Context, f query.ProductFilter) Result[[]models.Product] {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetAll")
	defer span.End()

	if s.api == nil {
		return failWith([]models.Product{}, "Catalog unavailable")
	}

	params := apper.FetchParams{
		Fields:  productFields,
		Where:   query.ProductWhere(f),
		OrderBy: query.ProductOrder(f),
	}

	resp, err := s.api.FetchRecords(ctx, models.TableProducts, params)
	if ferr := fetchErr(resp, err); ferr != nil {
		s.fetchFailed("get_all", ferr)
		return failWith([]models.Product{}, "Failed to fetch products")
	}

	util.CatalogFetchesTotal.WithLabelValues("get_all").Inc()

	products := make([]models.Product, 0, len(resp.Data))
	for _, raw := range resp.Data {
		products = append(products, transform.Product(raw))
	}

	return ok(query.ApplyProductFilters(products, f))
}

// GetByID fetches a single product, read through the cache.
func (s *CatalogService) GetByID(ctx context.Context, id int) Result[models.Product] {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetByID")
	defer span.End()

	if s.api == nil {
		return fail[models.Product]("Product not found")
	}

	cacheKey := fmt.Sprintf("product:%d", id)
	var cached models.Product
	if s.cacheGet(ctx, cacheKey, &cached) {
		return ok(cached)
	}

	resp, err := s.api.GetRecordByID(ctx, models.TableProducts, id, apper.FetchParams{Fields: productFields})
	if rerr := recordErr(resp, err); rerr != nil {
		s.fetchFailed("get_by_id", rerr)
		return fail[models.Product]("Product not found")
	}

	util.CatalogFetchesTotal.WithLabelValues("get_by_id").Inc()

	product := transform.Product(resp.Data)
	s.cacheSet(ctx, cacheKey, product)
	return ok(product)
}

// GetFeatured lists products flagged as featured. Backend failures
// degrade to an empty success so pages render without a hero section
// instead of erroring.
func (s *CatalogService) GetFeatured(ctx context.Context) Result[[]models.Product] {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetFeatured")
	defer span.End()

	if s.api == nil {
		return ok([]models.Product{})
	}

	cacheKey := "products:featured"
	var cached []models.Product
	if s.cacheGet(ctx, cacheKey, &cached) {
		return ok(cached)
	}

	params := apper.FetchParams{
		Fields: productFields,
		Where: []apper.Where{{
			FieldName: "featured_c",
			Operator:  apper.OpEqualTo,
			Values:    []any{true},
		}},
	}

	resp, err := s.api.FetchRecords(ctx, models.TableProducts, params)
	if ferr := fetchErr(resp, err); ferr != nil {
		s.fetchFailed("get_featured", ferr)
		return ok([]models.Product{})
	}

	util.CatalogFetchesTotal.WithLabelValues("get_featured").Inc()

	featured := make([]models.Product, 0, len(resp.Data))
	for _, raw := range resp.Data {
		featured = append(featured, transform.Product(raw))
	}

	s.cacheSet(ctx, cacheKey, featured)
	return ok(featured)
}

// GetRelated lists up to limit other products sharing the source
// product's category. A source product with no resolvable category
// yields an empty success. A non-positive limit uses the default.
func (s *CatalogService) GetRelated(ctx context.Context, productID, limit int) Result[[]models.Product] {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetRelated")
	defer span.End()

	if s.api == nil {
		return fail[[]models.Product]("Product not found")
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	mainResp, err := s.api.GetRecordByID(ctx, models.TableProducts, productID, apper.FetchParams{
		Fields: []apper.Field{apper.SelectRef("category_c", "Name")},
	})
	if rerr := recordErr(mainResp, err); rerr != nil {
		s.fetchFailed("get_related", rerr)
		return fail[[]models.Product]("Product not found")
	}

	category := transform.Product(mainResp.Data).Category
	if category == "" {
		return ok([]models.Product{})
	}

	params := apper.FetchParams{
		Fields: productFields,
		Where: []apper.Where{{
			FieldName: "category_c",
			Operator:  apper.OpEqualTo,
			Values:    []any{category},
		}},
		// One extra row covers the source product landing in the page.
		Paging: &apper.Paging{Limit: limit + 1, Offset: 0},
	}

	resp, err := s.api.FetchRecords(ctx, models.TableProducts, params)
	if ferr := fetchErr(resp, err); ferr != nil {
		s.fetchFailed("get_related", ferr)
		return ok([]models.Product{})
	}

	util.CatalogFetchesTotal.WithLabelValues("get_related").Inc()

	related := make([]models.Product, 0, limit)
	for _, raw := range resp.Data {
		p := transform.Product(raw)
		if p.ID == productID {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}

	return ok(related)
}

// GetCategories lists distinct category display names, dropping empty
// entries.
func (s *CatalogService) GetCategories(ctx context.Context) Result[[]string] {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetCategories")
	defer span.End()

	if s.api == nil {
		return ok([]string{})
	}

	cacheKey := "categories"
	var cached []string
	if s.cacheGet(ctx, cacheKey, &cached) {
		return ok(cached)
	}

	resp, err := s.api.FetchRecords(ctx, models.TableCategories, apper.FetchParams{
		Fields: apper.Select("Name"),
	})
	if ferr := fetchErr(resp, err); ferr != nil {
		s.fetchFailed("get_categories", ferr)
		return ok([]string{})
	}

	util.CatalogFetchesTotal.WithLabelValues("get_categories").Inc()

	categories := make([]string, 0, len(resp.Data))
	for _, raw := range resp.Data {
		var rec models.CategoryRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		if rec.Name != "" {
			categories = append(categories, rec.Name)
		}
	}

	s.cacheSet(ctx, cacheKey, categories)
	return ok(categories)
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, v any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, v)
	if err != nil {
		s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if hit {
		util.CacheHitsTotal.Inc()
	} else {
		util.CacheMissesTotal.Inc()
	}
	return hit
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, s.cacheTTL); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CatalogService) fetchFailed(op string, err error) {
	util.CatalogFetchFailuresTotal.WithLabelValues(op).Inc()
	s.logger.Error("Catalog fetch failed", zap.String("operation", op), zap.Error(err))
}
