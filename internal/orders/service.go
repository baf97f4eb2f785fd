package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jaummdev/nexa-ecommerce-backend/internal/cart"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/auth"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/checkout"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db/models"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/enums"
	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
)

const (
	MsgCartEmpty         = "Cart is empty. Add items to cart before creating an order"
	MsgOrderNotFound     = "Order not found"
	MsgStatusRequired    = "Status is required"
	MsgOnlyPendingDelete = "You can only delete pending orders"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CheckoutRecorder receives checkout outcomes, typically metrics.
type CheckoutRecorder interface {
	OrderCreated(total decimal.Decimal)
	CheckoutFailed(reason string)
}

// Service turns carts into orders and manages the caller's orders.
type Service interface {
	Create(ctx context.Context, identity auth.Identity) (*OrderDTO, error)
	List(ctx context.Context, identity auth.Identity) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, identity auth.Identity, orderID uuid.UUID, status string) (*OrderDTO, error)
	Delete(ctx context.Context, identity auth.Identity, orderID uuid.UUID) error
}

type ServiceParams struct {
	Repo          *Repository
	Carts         *cart.Repository
	TX            txRunner
	OrdersPerUser int
	Recorder      CheckoutRecorder
	Logger        *logger.Logger
}

type service struct {
	repo          *Repository
	carts         *cart.Repository
	tx            txRunner
	ordersPerUser int
	recorder      CheckoutRecorder
	logg          *logger.Logger
}

type nopRecorder struct{}

func (nopRecorder) OrderCreated(decimal.Decimal) {}
func (nopRecorder) CheckoutFailed(string)        {}

// NewService builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.TX == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	limit := params.OrdersPerUser
	if limit < 0 {
		limit = 0
	}
	recorder := params.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:          params.Repo,
		carts:         params.Carts,
		tx:            params.TX,
		ordersPerUser: limit,
		recorder:      recorder,
		logg:          logg,
	}, nil
}

// Create snapshots the caller's cart into a PENDING order and empties the
// cart, all in one transaction. The cart row stays in place with a zero total.
func (s *service) Create(ctx context.Context, identity auth.Identity) (*OrderDTO, error) {
	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		repo := s.repo.WithTx(tx)

		userCart, err := carts.FindByUserForUpdate(ctx, identity.UserID)
		if err != nil {
			if db.IsNotFound(err) {
				s.recorder.CheckoutFailed("cart_not_found")
				return pkgerrors.New(pkgerrors.CodeNotFound, cart.MsgCartNotFound)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(userCart.Items) == 0 {
			s.recorder.CheckoutFailed("cart_empty")
			return pkgerrors.New(pkgerrors.CodeValidation, MsgCartEmpty)
		}

		if err := s.enforceOrderCap(ctx, repo, identity.UserID); err != nil {
			return err
		}

		lines := make([]checkout.Line, 0, len(userCart.Items))
		items := make([]models.OrderItem, 0, len(userCart.Items))
		for _, item := range userCart.Items {
			if item.Product == nil {
				s.recorder.CheckoutFailed("product_missing")
				return pkgerrors.New(pkgerrors.CodeValidation, checkout.MsgProductsMissing)
			}
			line := checkout.Line{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: item.Product.Price}
			lines = append(lines, line)
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		}

		order = &models.Order{
			UserID:      identity.UserID,
			TotalAmount: checkout.Total(lines),
			Status:      enums.OrderStatusPending,
			Items:       items,
		}
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert order")
		}

		if err := carts.ReplaceItems(ctx, userCart.ID, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart items")
		}
		if err := carts.UpdateTotal(ctx, userCart.ID, decimal.Zero); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reset cart total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.OrderCreated(order.TotalAmount)
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":     order.ID.String(),
		"user_id":      identity.UserID.String(),
		"total_amount": order.TotalAmount.StringFixed(2),
		"items":        len(order.Items),
	})
	s.logg.Info(logCtx, "order.created")

	created, err := s.repo.FindForUser(ctx, order.ID, identity.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
	}
	return FromModel(created), nil
}

// enforceOrderCap rejects checkout once the user owns ordersPerUser orders.
// A zero cap disables the check.
func (s *service) enforceOrderCap(ctx context.Context, repo *Repository, userID uuid.UUID) error {
	if s.ordersPerUser == 0 {
		return nil
	}
	placed, err := repo.CountByUser(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}
	if placed >= int64(s.ordersPerUser) {
		s.recorder.CheckoutFailed("order_limit")
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Maximum limit of %d orders per user reached", s.ordersPerUser))
	}
	return nil
}

func (s *service) List(ctx context.Context, identity auth.Identity) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// UpdateStatus overwrites the status of one of the caller's orders. Any known
// status may follow any other.
func (s *service) UpdateStatus(ctx context.Context, identity auth.Identity, orderID uuid.UUID, status string) (*OrderDTO, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgStatusRequired)
	}
	next, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid status. Must be one of: "+enums.OrderStatusList())
	}

	order, err := s.load(ctx, identity, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"from":     order.Status.String(),
		"to":       next.String(),
	})
	s.logg.Info(logCtx, "order.status_updated")

	updated, err := s.load(ctx, identity, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, identity auth.Identity, orderID uuid.UUID) error {
	order, err := s.load(ctx, identity, orderID)
	if err != nil {
		return err
	}
	if order.Status != enums.OrderStatusPending {
		return pkgerrors.New(pkgerrors.CodeValidation, MsgOnlyPendingDelete)
	}
	if err := s.repo.Delete(ctx, order.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID.String()), "order.deleted")
	return nil
}

func (s *service) load(ctx context.Context, identity auth.Identity, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindForUser(ctx, orderID, identity.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, MsgOrderNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}
