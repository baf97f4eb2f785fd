package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable catalog entry.
type Product struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	Description     string          `gorm:"column:description;not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock           int             `gorm:"column:stock;not null"`
	Images          pq.StringArray  `gorm:"column:images;type:text[];not null"`
	ReviewsQuantity int             `gorm:"column:reviews_quantity;not null"`
	ReviewsAvg      decimal.Decimal `gorm:"column:reviews_avg;type:numeric(3,2);not null"`
	IsActive        bool            `gorm:"column:is_active;not null"`
	CategoryID      uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	Category        *Category       `gorm:"foreignKey:CategoryID"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}
