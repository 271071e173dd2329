package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/catalog/repository"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
)

type CatalogService interface {
	ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error)
	SearchProducts(ctx context.Context, q domain.ProductSearch) ([]domain.Product, int, error)
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
	ListCategories(ctx context.Context, parentID *int64) ([]domain.Category, error)
}

type CatalogController struct {
	service CatalogService
	paging  config.CatalogConfig
	logger  *zap.Logger
}

func NewCatalogController(service CatalogService, paging config.CatalogConfig, logger *zap.Logger) *CatalogController {
	return &CatalogController{
		service: service,
		paging:  paging,
		logger:  logger,
	}
}

func (c *CatalogController) Routes(r chi.Router) {
	r.Get("/products", c.ListProducts)
	r.Get("/products/search", c.SearchProducts)
	r.Get("/products/{slug}", c.GetProduct)
	r.Get("/categories", c.ListCategories)
}

func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var details []apperrors.ValidationDetail

	limit, offset, pageDetails := c.parsePage(q.Get("limit"), q.Get("offset"))
	details = append(details, pageDetails...)

	featured, err := parseOptionalBool(q.Get("featured"))
	if err != nil {
		details = append(details, apperrors.ValidationDetail{Field: "featured", Message: "featured must be true or false"})
	}
	inStock, err := parseOptionalBool(q.Get("inStock"))
	if err != nil {
		details = append(details, apperrors.ValidationDetail{Field: "inStock", Message: "inStock must be true or false"})
	}

	sortBy := q.Get("sortBy")
	if sortBy == "" {
		sortBy = "created_at"
	}
	if !repository.IsSortable(sortBy) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "sortBy",
			Message: "sortBy must be one of created_at, price, name, rating, review_count",
		})
	}

	sortOrder := strings.ToLower(q.Get("sortOrder"))
	if sortOrder == "" {
		sortOrder = "desc"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		details = append(details, apperrors.ValidationDetail{Field: "sortOrder", Message: "sortOrder must be asc or desc"})
	}

	if len(details) > 0 {
		httpx.WriteError(w, r, c.logger, apperrors.NewValidationError("validation failed", details...))
		return
	}

	products, total, err := c.service.ListProducts(r.Context(), domain.ProductFilter{
		CategorySlug: q.Get("category"),
		Featured:     featured,
		InStock:      inStock,
		Limit:        limit,
		Offset:       offset,
		SortBy:       sortBy,
		SortOrder:    sortOrder,
	})
	if err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, dto.Response{
		Success:    true,
		Data:       dto.NewProductDTOs(products),
		Pagination: dto.NewPagination(total, limit, offset),
	})
}

func (c *CatalogController) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	term := strings.TrimSpace(q.Get("search"))
	if term == "" {
		term = strings.TrimSpace(q.Get("q"))
	}

	limit, offset, details := c.parsePage(q.Get("limit"), q.Get("offset"))
	if term == "" {
		details = append(details, apperrors.ValidationDetail{Field: "search", Message: "search term is required"})
	}
	if len(details) > 0 {
		httpx.WriteError(w, r, c.logger, apperrors.NewValidationError("validation failed", details...))
		return
	}

	products, total, err := c.service.SearchProducts(r.Context(), domain.ProductSearch{
		Term:   term,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, dto.Response{
		Success:    true,
		Data:       dto.NewProductDTOs(products),
		Pagination: dto.NewPagination(total, limit, offset),
	})
}

func (c *CatalogController) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := c.service.GetProduct(r.Context(), slug)
	if err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, dto.Response{Success: true, Data: dto.NewProductDTO(*p)})
}

func (c *CatalogController) ListCategories(w http.ResponseWriter, r *http.Request) {
	var parentID *int64
	if raw := r.URL.Query().Get("parentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httpx.WriteError(w, r, c.logger, apperrors.NewValidationError("invalid parentId", apperrors.ValidationDetail{
				Field:   "parentId",
				Message: "parentId must be a positive integer",
			}))
			return
		}
		parentID = &id
	}

	categories, err := c.service.ListCategories(r.Context(), parentID)
	if err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, dto.Response{Success: true, Data: dto.NewCategoryDTOs(categories)})
}

// parsePage applies the configured default and ceiling to limit. A negative offset reads as 0.
func (c *CatalogController) parsePage(rawLimit, rawOffset string) (int, int, []apperrors.ValidationDetail) {
	var details []apperrors.ValidationDetail

	limit := c.paging.DefaultLimit
	if rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n < 1 {
			details = append(details, apperrors.ValidationDetail{Field: "limit", Message: "limit must be a positive integer"})
		} else {
			limit = n
		}
	}
	if limit > c.paging.MaxLimit {
		limit = c.paging.MaxLimit
	}

	offset := 0
	if rawOffset != "" {
		n, err := strconv.Atoi(rawOffset)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: "offset", Message: "offset must be an integer"})
		} else if n > 0 {
			offset = n
		}
	}

	return limit, offset, details
}

func parseOptionalBool(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
