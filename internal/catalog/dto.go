package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db/models"
)

// ProductDTO is the public product payload.
type ProductDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Stock           int             `json:"stock"`
	Images          []string        `json:"images"`
	ReviewsQuantity int             `json:"reviewsQuantity"`
	ReviewsAvg      decimal.Decimal `json:"reviewsAvg"`
	IsActive        bool            `json:"isActive"`
	CategoryID      uuid.UUID       `json:"categoryId"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CategoryDTO is the public category payload.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BannerDTO is the public banner payload.
type BannerDTO struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	IsActive bool   `json:"isActive"`
}

func ProductFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return &ProductDTO{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Stock:           p.Stock,
		Images:          images,
		ReviewsQuantity: p.ReviewsQuantity,
		ReviewsAvg:      p.ReviewsAvg,
		IsActive:        p.IsActive,
		CategoryID:      p.CategoryID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func CategoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func BannerFromModel(b *models.Banner) *BannerDTO {
	if b == nil {
		return nil
	}
	return &BannerDTO{
		ID:       b.ID,
		Title:    b.Title,
		ImageURL: b.ImageURL,
		IsActive: b.IsActive,
	}
}

func mapSlice[M any, D any](rows []M, fn func(*M) *D) []D {
	out := make([]D, 0, len(rows))
	for i := range rows {
		out = append(out, *fn(&rows[i]))
	}
	return out
}
