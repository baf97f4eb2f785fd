package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db/models"
	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/validate"
)

const (
	msgProductCreateFields = "All fields are required to create a product"
	msgProductUpdateFields = "All fields are required to update a product"
	msgProductNotFound     = "Product not found"
	msgProductNotFoundUpd  = "Product not found to update"
	msgProductNotFoundDel  = "Product not found to delete"
	msgProductInUse        = "Product is referenced by carts or orders"
	msgCategoryMissing     = "Category not found"
)

var reviewsAvgMax = decimal.NewFromInt(5)

// ProductService manages the product catalog.
type ProductService interface {
	List(ctx context.Context) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, input ProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
}

// ProductInput is the full product payload; create and update both require every field.
type ProductInput struct {
	Name            string           `json:"name" validate:"required"`
	Description     string           `json:"description" validate:"required"`
	Price           *decimal.Decimal `json:"price" validate:"required"`
	Stock           *int             `json:"stock" validate:"required"`
	Images          []string         `json:"images" validate:"required"`
	ReviewsQuantity *int             `json:"reviewsQuantity" validate:"required"`
	ReviewsAvg      *decimal.Decimal `json:"reviewsAvg" validate:"required"`
	CategoryID      string           `json:"categoryId" validate:"required"`
	IsActive        *bool            `json:"isActive"`
}

type productService struct {
	repo  *Repository
	db    *db.Client
	limit int
	logg  *logger.Logger
}

// NewProductService builds the product service. limit caps the number of products.
func NewProductService(repo *Repository, dbClient *db.Client, limit int, logg *logger.Logger) (ProductService, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("product limit must be positive")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &productService{repo: repo, db: dbClient, limit: limit, logg: logg}, nil
}

func (s *productService) List(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return mapSlice(rows, ProductFromModel), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return ProductFromModel(product), nil
}

func (s *productService) Create(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	if err := checkProductInput(input, msgProductCreateFields); err != nil {
		return nil, err
	}

	product := &models.Product{IsActive: true}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := enforceLimit(ctx, repo, "products", &models.Product{}, s.limit); err != nil {
			return err
		}
		if err := s.applyInput(ctx, repo, product, input); err != nil {
			return err
		}
		if err := repo.CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "product_id", product.ID.String()), "catalog.product_created")
	return ProductFromModel(product), nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if err := checkProductInput(input, msgProductUpdateFields); err != nil {
		return nil, err
	}

	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFoundUpd)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if err := s.applyInput(ctx, s.repo, product, input); err != nil {
		return nil, err
	}
	if err := s.repo.SaveProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return ProductFromModel(product), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFoundDel)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgProductInUse)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return ProductFromModel(product), nil
}

func (s *productService) applyInput(ctx context.Context, repo *Repository, product *models.Product, input ProductInput) error {
	categoryID, err := uuid.Parse(strings.TrimSpace(input.CategoryID))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, msgCategoryMissing)
	}
	if _, err := repo.FindCategory(ctx, categoryID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, msgCategoryMissing)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price.Round(2)
	product.Stock = *input.Stock
	product.Images = pq.StringArray(append([]string{}, input.Images...))
	product.ReviewsQuantity = *input.ReviewsQuantity
	product.ReviewsAvg = input.ReviewsAvg.Round(2)
	product.CategoryID = categoryID
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return nil
}

func checkProductInput(input ProductInput, message string) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.CategoryID = strings.TrimSpace(input.CategoryID)
	if err := validate.Struct(input, message); err != nil {
		return err
	}
	switch {
	case input.Price.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, "Price must be a non-negative number")
	case *input.Stock < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "Stock must be a non-negative integer")
	case *input.ReviewsQuantity < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "Reviews quantity must be a non-negative integer")
	case input.ReviewsAvg.IsNegative() || input.ReviewsAvg.GreaterThan(reviewsAvgMax):
		return pkgerrors.New(pkgerrors.CodeValidation, "Reviews average must be between 0 and 5")
	}
	return nil
}

// enforceLimit fails with a validation error once table already holds limit rows.
func enforceLimit(ctx context.Context, repo *Repository, table string, model any, limit int) error {
	if err := repo.LockTable(ctx, table); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock "+table)
	}
	count, err := repo.Count(ctx, model)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count "+table)
	}
	if count >= int64(limit) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Maximum limit of %d %s reached", limit, table))
	}
	return nil
}
