package dto

import (
	"time"

	"storefront/internal/domain"
)

type ProductDTO struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice"`
	ImageURL      string    `json:"imageUrl"`
	CategoryID    *int64    `json:"categoryId"`
	Category      string    `json:"category"`
	CategorySlug  string    `json:"categorySlug"`
	Tags          []string  `json:"tags"`
	InStock       bool      `json:"inStock"`
	Rating        *float64  `json:"rating"`
	ReviewCount   *int      `json:"reviewCount"`
	Featured      bool      `json:"featured"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewProductDTO(p domain.Product) ProductDTO {
	out := ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		Price:        p.Price.InexactFloat64(),
		ImageURL:     p.ImageURL,
		CategoryID:   p.CategoryID,
		Category:     p.CategoryName,
		CategorySlug: p.CategorySlug,
		Tags:         p.Tags,
		InStock:      p.InStock,
		Rating:       p.Rating,
		ReviewCount:  p.ReviewCount,
		Featured:     p.Featured,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.OriginalPrice.Valid {
		op := p.OriginalPrice.Decimal.InexactFloat64()
		out.OriginalPrice = &op
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

func NewProductDTOs(products []domain.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductDTO(p))
	}
	return out
}

type CategoryDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parentId"`
	SortOrder   int    `json:"sortOrder"`
}

func NewCategoryDTOs(categories []domain.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryDTO{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			ParentID:    c.ParentID,
			SortOrder:   c.SortOrder,
		})
	}
	return out
}
