package catalog

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db/models"
	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/validate"
)

const (
	msgBannerCreateFields = "Title and image_url are required to create a banner"
	msgBannerEmptyField   = "Title and image_url cannot be empty"
	msgBannerNotFoundUpd  = "Banner not found to update"
	msgBannerNotFoundDel  = "Banner not found to delete"
)

// BannerService manages storefront banners.
type BannerService interface {
	List(ctx context.Context) ([]BannerDTO, error)
	Create(ctx context.Context, input CreateBannerInput) (*BannerDTO, error)
	Update(ctx context.Context, id int, input UpdateBannerInput) (*BannerDTO, error)
	Delete(ctx context.Context, id int) error
}

type CreateBannerInput struct {
	Title    string `json:"title" validate:"required"`
	ImageURL string `json:"image_url" validate:"required"`
	IsActive *bool  `json:"isActive"`
}

// UpdateBannerInput changes only the fields that are present.
type UpdateBannerInput struct {
	Title    *string `json:"title"`
	ImageURL *string `json:"image_url"`
	IsActive *bool   `json:"isActive"`
}

type bannerService struct {
	repo  *Repository
	db    *db.Client
	limit int
	logg  *logger.Logger
}

// NewBannerService builds the banner service. limit caps the number of banners.
func NewBannerService(repo *Repository, dbClient *db.Client, limit int, logg *logger.Logger) (BannerService, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("banner limit must be positive")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &bannerService{repo: repo, db: dbClient, limit: limit, logg: logg}, nil
}

func (s *bannerService) List(ctx context.Context) ([]BannerDTO, error) {
	rows, err := s.repo.ListBanners(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list banners")
	}
	return mapSlice(rows, BannerFromModel), nil
}

func (s *bannerService) Create(ctx context.Context, input CreateBannerInput) (*BannerDTO, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	if err := validate.Struct(input, msgBannerCreateFields); err != nil {
		return nil, err
	}

	banner := &models.Banner{Title: input.Title, ImageURL: input.ImageURL, IsActive: true}
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := enforceLimit(ctx, repo, "banners", &models.Banner{}, s.limit); err != nil {
			return err
		}
		if err := repo.CreateBanner(ctx, banner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert banner")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "banner_id", banner.ID), "catalog.banner_created")
	return BannerFromModel(banner), nil
}

func (s *bannerService) Update(ctx context.Context, id int, input UpdateBannerInput) (*BannerDTO, error) {
	banner, err := s.repo.FindBanner(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgBannerNotFoundUpd)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load banner")
	}

	if input.Title != nil {
		if banner.Title = strings.TrimSpace(*input.Title); banner.Title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, msgBannerEmptyField)
		}
	}
	if input.ImageURL != nil {
		if banner.ImageURL = strings.TrimSpace(*input.ImageURL); banner.ImageURL == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, msgBannerEmptyField)
		}
	}
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}

	if err := s.repo.SaveBanner(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update banner")
	}
	return BannerFromModel(banner), nil
}

func (s *bannerService) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.FindBanner(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgBannerNotFoundDel)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load banner")
	}
	if err := s.repo.DeleteBanner(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete banner")
	}
	return nil
}
