package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jaummdev/nexa-ecommerce-backend/internal/catalog"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db/models"
)

// CartDTO is the cart returned to its owner.
type CartDTO struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Total     decimal.Decimal `json:"total"`
	Items     []CartItemDTO   `json:"items"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type CartItemDTO struct {
	ID        uuid.UUID           `json:"id"`
	CartID    uuid.UUID           `json:"cartId"`
	ProductID uuid.UUID           `json:"productId"`
	Quantity  int                 `json:"quantity"`
	Product   *catalog.ProductDTO `json:"product,omitempty"`
}

func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	items := make([]CartItemDTO, 0, len(c.Items))
	for i := range c.Items {
		item := c.Items[i]
		items = append(items, CartItemDTO{
			ID:        item.ID,
			CartID:    item.CartID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   catalog.ProductFromModel(item.Product),
		})
	}
	return &CartDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		Total:     c.Total,
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
