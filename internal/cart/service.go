package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jaummdev/nexa-ecommerce-backend/pkg/auth"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/checkout"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db/models"
	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
)

const (
	MsgCartNotFound     = "Cart not found"
	MsgItemNotInCart    = "Item not found in cart"
	msgCartBusy         = "Cart was modified concurrently, please retry"
	defaultMaxCartItems = 10
)

// Service manages the caller's cart.
type Service interface {
	Get(ctx context.Context, identity auth.Identity) (*CartDTO, error)
	// SetItems replaces the cart contents, creating the cart when needed. The
	// boolean reports whether a new cart was created.
	SetItems(ctx context.Context, identity auth.Identity, items []checkout.ItemRequest) (*CartDTO, bool, error)
	ReplaceItems(ctx context.Context, identity auth.Identity, items []checkout.ItemRequest) (*CartDTO, error)
	RemoveItem(ctx context.Context, identity auth.Identity, productID uuid.UUID) (*CartDTO, error)
	// Delete removes the caller's cart. A nil cartID resolves the caller's own cart.
	Delete(ctx context.Context, identity auth.Identity, cartID *uuid.UUID) error
}

type ServiceParams struct {
	Repo     *Repository
	DB       *db.Client
	MaxItems int
	Logger   *logger.Logger
}

type service struct {
	repo     *Repository
	db       *db.Client
	maxItems int
	logg     *logger.Logger
}

// NewService builds a cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	maxItems := params.MaxItems
	if maxItems <= 0 {
		maxItems = defaultMaxCartItems
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: params.Repo, db: params.DB, maxItems: maxItems, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, identity auth.Identity) (*CartDTO, error) {
	cart, err := s.repo.FindByUser(ctx, identity.UserID)
	if err != nil {
		return nil, notFoundOr(err, "load cart")
	}
	return FromModel(cart), nil
}

func (s *service) SetItems(ctx context.Context, identity auth.Identity, items []checkout.ItemRequest) (*CartDTO, bool, error) {
	return s.replace(ctx, identity, items, true)
}

func (s *service) ReplaceItems(ctx context.Context, identity auth.Identity, items []checkout.ItemRequest) (*CartDTO, error) {
	cart, _, err := s.replace(ctx, identity, items, false)
	return cart, err
}

func (s *service) replace(ctx context.Context, identity auth.Identity, items []checkout.ItemRequest, createMissing bool) (*CartDTO, bool, error) {
	normalized, err := checkout.NormalizeItems(items, s.maxItems)
	if err != nil {
		return nil, false, err
	}
	ids := make([]uuid.UUID, 0, len(normalized))
	for _, item := range normalized {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, false, pkgerrors.New(pkgerrors.CodeValidation, checkout.MsgProductsMissing)
		}
		ids = append(ids, id)
	}

	created := false
	var total decimal.Decimal
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		products, err := repo.FindProducts(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
		}
		if len(products) != len(ids) {
			return pkgerrors.New(pkgerrors.CodeValidation, checkout.MsgProductsMissing)
		}
		prices := make(map[uuid.UUID]decimal.Decimal, len(products))
		for _, p := range products {
			prices[p.ID] = p.Price
		}

		cart, err := repo.FindByUserForUpdate(ctx, identity.UserID)
		switch {
		case db.IsNotFound(err) && createMissing:
			cart = &models.Cart{UserID: identity.UserID, Total: decimal.Zero}
			if err := repo.Create(ctx, cart); err != nil {
				if db.IsUniqueViolation(err) {
					return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgCartBusy)
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
			}
			created = true
		case err != nil:
			return notFoundOr(err, "load cart")
		}

		lines := make([]checkout.Line, 0, len(ids))
		rows := make([]models.CartItem, 0, len(ids))
		for i, id := range ids {
			qty := normalized[i].Quantity
			lines = append(lines, checkout.Line{ProductID: id, Quantity: qty, UnitPrice: prices[id]})
			rows = append(rows, models.CartItem{ProductID: id, Quantity: qty})
		}
		total = checkout.Total(lines)
		return s.persist(ctx, repo, cart.ID, rows, total)
	})
	if err != nil {
		return nil, false, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"user_id": identity.UserID.String(),
		"items":   len(ids),
		"total":   total.StringFixed(2),
		"created": created,
	})
	s.logg.Info(logCtx, "cart.items_replaced")

	cart, err := s.Get(ctx, identity)
	return cart, created, err
}

func (s *service) RemoveItem(ctx context.Context, identity auth.Identity, productID uuid.UUID) (*CartDTO, error) {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByUserForUpdate(ctx, identity.UserID)
		if err != nil {
			return notFoundOr(err, "load cart")
		}

		found := false
		lines := make([]checkout.Line, 0, len(cart.Items))
		rows := make([]models.CartItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.ProductID == productID {
				found = true
				continue
			}
			price := decimal.Zero
			if item.Product != nil {
				price = item.Product.Price
			}
			lines = append(lines, checkout.Line{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: price})
			rows = append(rows, models.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, MsgItemNotInCart)
		}
		return s.persist(ctx, repo, cart.ID, rows, checkout.Total(lines))
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, identity)
}

func (s *service) Delete(ctx context.Context, identity auth.Identity, cartID *uuid.UUID) error {
	var id uuid.UUID
	if cartID != nil {
		id = *cartID
	} else {
		cart, err := s.repo.FindByUser(ctx, identity.UserID)
		if err != nil {
			return notFoundOr(err, "load cart")
		}
		id = cart.ID
	}

	rows, err := s.repo.Delete(ctx, id, identity.UserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, MsgCartNotFound)
	}
	s.logg.Info(s.logg.WithField(ctx, "cart_id", id.String()), "cart.deleted")
	return nil
}

func (s *service) persist(ctx context.Context, repo *Repository, cartID uuid.UUID, rows []models.CartItem, total decimal.Decimal) error {
	if err := repo.ReplaceItems(ctx, cartID, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace cart items")
	}
	if err := repo.UpdateTotal(ctx, cartID, total); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart total")
	}
	return nil
}

func notFoundOr(err error, action string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, MsgCartNotFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
