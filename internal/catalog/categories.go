package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db/models"
	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/validate"
)

const (
	msgCategoryCreateFields = "Name and slug are required to create a category"
	msgCategoryEmptyField   = "Name and slug cannot be empty"
	msgCategoryNotFoundUpd  = "Category not found to update"
	msgCategoryNotFoundDel  = "Category not found to delete"
	msgCategorySlugTaken    = "Category slug already exists"
	msgCategoryInUse        = "Category still has products"
)

// CategoryService manages product categories.
type CategoryService interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required"`
	Slug        string  `json:"slug" validate:"required"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// UpdateCategoryInput changes only the fields that are present.
type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

type categoryService struct {
	repo  *Repository
	db    *db.Client
	limit int
	logg  *logger.Logger
}

// NewCategoryService builds the category service. limit caps the number of categories.
func NewCategoryService(repo *Repository, dbClient *db.Client, limit int, logg *logger.Logger) (CategoryService, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("category limit must be positive")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &categoryService{repo: repo, db: dbClient, limit: limit, logg: logg}, nil
}

func (s *categoryService) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return mapSlice(rows, CategoryFromModel), nil
}

func (s *categoryService) Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = normalizeSlug(input.Slug)
	if err := validate.Struct(input, msgCategoryCreateFields); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		IsActive:    true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := enforceLimit(ctx, repo, "categories", &models.Category{}, s.limit); err != nil {
			return err
		}
		if err := repo.CreateCategory(ctx, category); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgCategorySlugTaken)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert category")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "category_id", category.ID.String()), "catalog.category_created")
	return CategoryFromModel(category), nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgCategoryNotFoundUpd)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	if input.Name != nil {
		if category.Name = strings.TrimSpace(*input.Name); category.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, msgCategoryEmptyField)
		}
	}
	if input.Slug != nil {
		if category.Slug = normalizeSlug(*input.Slug); category.Slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, msgCategoryEmptyField)
		}
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.repo.SaveCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgCategorySlugTaken)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}
	return CategoryFromModel(category), nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategory(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgCategoryNotFoundDel)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgCategoryInUse)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
