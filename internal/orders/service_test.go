package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jaummdev/nexa-ecommerce-backend/internal/cart"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/auth"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/checkout"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db/dbtest"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db/models"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/enums"
	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
)

type recordingRecorder struct {
	created  []decimal.Decimal
	failures []string
}

func (r *recordingRecorder) OrderCreated(total decimal.Decimal) { r.created = append(r.created, total) }
func (r *recordingRecorder) CheckoutFailed(reason string)      { r.failures = append(r.failures, reason) }

type fixture struct {
	conn     *gorm.DB
	carts    cart.Service
	svc      Service
	recorder *recordingRecorder
}

func newFixture(t *testing.T, ordersPerUser int) fixture {
	t.Helper()
	conn := dbtest.Open(t)
	client := db.FromConn(conn)
	cartRepo := cart.NewRepository(conn)

	carts, err := cart.NewService(cart.ServiceParams{Repo: cartRepo, DB: client, MaxItems: 10})
	require.NoError(t, err)

	recorder := &recordingRecorder{}
	svc, err := NewService(ServiceParams{
		Repo:          NewRepository(conn),
		Carts:         cartRepo,
		TX:            client,
		OrdersPerUser: ordersPerUser,
		Recorder:      recorder,
	})
	require.NoError(t, err)
	return fixture{conn: conn, carts: carts, svc: svc, recorder: recorder}
}

func (f fixture) product(t *testing.T, price string) models.Product {
	t.Helper()
	category := models.Category{Name: "General", Slug: "general-" + uuid.NewString(), IsActive: true}
	require.NoError(t, f.conn.Create(&category).Error)
	p := models.Product{
		Name:        "Item",
		Description: "desc",
		Price:       decimal.RequireFromString(price),
		Stock:       10,
		Images:      pq.StringArray{},
		ReviewsAvg:  decimal.Zero,
		IsActive:    true,
		CategoryID:  category.ID,
	}
	require.NoError(t, f.conn.Create(&p).Error)
	return p
}

func (f fixture) fillCart(t *testing.T, identity auth.Identity, items ...checkout.ItemRequest) {
	t.Helper()
	_, _, err := f.carts.SetItems(context.Background(), identity, items)
	require.NoError(t, err)
}

func customer() auth.Identity {
	return auth.Identity{UserID: uuid.New(), Role: enums.RoleCustomer}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code, message string) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
	assert.Equal(t, message, typed.Message())
}

func TestCreateSnapshotsCartAndEmptiesIt(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	user := customer()
	p1 := f.product(t, "10.00")
	p2 := f.product(t, "2.50")
	f.fillCart(t, user,
		checkout.ItemRequest{ProductID: p1.ID.String(), Quantity: 2},
		checkout.ItemRequest{ProductID: p2.ID.String(), Quantity: 2},
	)

	order, err := f.svc.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, "25.00", order.TotalAmount.StringFixed(2))
	require.Len(t, order.Items, 2)
	assert.Equal(t, "10.00", order.Items[0].UnitPrice.StringFixed(2))
	require.NotNil(t, order.Items[0].Product)

	userCart, err := f.carts.Get(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, userCart.Items)
	assert.True(t, userCart.Total.IsZero())

	require.Len(t, f.recorder.created, 1)
	assert.Equal(t, "25.00", f.recorder.created[0].StringFixed(2))
}

func TestUnitPriceFrozenAfterPriceChange(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	user := customer()
	p := f.product(t, "8.00")
	f.fillCart(t, user, checkout.ItemRequest{ProductID: p.ID.String(), Quantity: 3})

	order, err := f.svc.Create(ctx, user)
	require.NoError(t, err)

	require.NoError(t, f.conn.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("price", decimal.RequireFromString("99.00")).Error)

	list, err := f.svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)
	assert.Equal(t, "8.00", list[0].Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "24.00", list[0].TotalAmount.StringFixed(2))
	assert.Equal(t, "99.00", list[0].Items[0].Product.Price.StringFixed(2))
}

func TestCreateRejections(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	user := customer()

	_, err := f.svc.Create(ctx, user)
	requireCode(t, err, pkgerrors.CodeNotFound, cart.MsgCartNotFound)

	p := f.product(t, "1.00")
	f.fillCart(t, user, checkout.ItemRequest{ProductID: p.ID.String(), Quantity: 1})
	_, err = f.svc.Create(ctx, user)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, user)
	requireCode(t, err, pkgerrors.CodeValidation, MsgCartEmpty)

	f.fillCart(t, user, checkout.ItemRequest{ProductID: p.ID.String(), Quantity: 1})
	_, err = f.svc.Create(ctx, user)
	requireCode(t, err, pkgerrors.CodeValidation, "Maximum limit of 1 orders per user reached")

	// the rejected checkout leaves the cart untouched
	userCart, err := f.carts.Get(ctx, user)
	require.NoError(t, err)
	assert.Len(t, userCart.Items, 1)

	assert.Equal(t, []string{"cart_not_found", "cart_empty", "order_limit"}, f.recorder.failures)
}

func TestCreateUncappedByDefault(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	user := customer()
	p := f.product(t, "3.00")

	for i := 0; i < 5; i++ {
		f.fillCart(t, user, checkout.ItemRequest{ProductID: p.ID.String(), Quantity: 1})
		order, err := f.svc.Create(ctx, user)
		require.NoError(t, err)
		_, err = f.svc.UpdateStatus(ctx, user, order.ID, "PAID")
		require.NoError(t, err)
	}

	f.fillCart(t, user, checkout.ItemRequest{ProductID: p.ID.String(), Quantity: 2})
	order, err := f.svc.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "6.00", order.TotalAmount.StringFixed(2))

	list, err := f.svc.List(ctx, user)
	require.NoError(t, err)
	assert.Len(t, list, 6)
	assert.Empty(t, f.recorder.failures)
}

func TestListIsScopedAndNewestFirst(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	user := customer()
	p := f.product(t, "1.00")

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		f.fillCart(t, user, checkout.ItemRequest{ProductID: p.ID.String(), Quantity: i + 1})
		order, err := f.svc.Create(ctx, user)
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}
	// force distinct timestamps regardless of clock resolution
	require.NoError(t, f.conn.Exec("UPDATE orders SET created_at = '2000-01-01 00:00:00' WHERE id = ?", ids[0]).Error)

	list, err := f.svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[1], list[0].ID)
	assert.Equal(t, ids[0], list[1].ID)

	others, err := f.svc.List(ctx, customer())
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	user := customer()
	p := f.product(t, "1.00")
	f.fillCart(t, user, checkout.ItemRequest{ProductID: p.ID.String(), Quantity: 1})
	order, err := f.svc.Create(ctx, user)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, user, order.ID, "")
	requireCode(t, err, pkgerrors.CodeValidation, MsgStatusRequired)

	_, err = f.svc.UpdateStatus(ctx, user, order.ID, "DELIVERED")
	requireCode(t, err, pkgerrors.CodeValidation, "Invalid status. Must be one of: PENDING, PAID, SHIPPED, CANCELLED")

	_, err = f.svc.UpdateStatus(ctx, customer(), order.ID, "PAID")
	requireCode(t, err, pkgerrors.CodeNotFound, MsgOrderNotFound)

	updated, err := f.svc.UpdateStatus(ctx, user, order.ID, "SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)

	// no transition table: a shipped order may go back to pending
	updated, err = f.svc.UpdateStatus(ctx, user, order.ID, "PENDING")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, updated.Status)
}

func TestDeleteOnlyPending(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	user := customer()
	p := f.product(t, "1.00")

	f.fillCart(t, user, checkout.ItemRequest{ProductID: p.ID.String(), Quantity: 1})
	paid, err := f.svc.Create(ctx, user)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, user, paid.ID, "PAID")
	require.NoError(t, err)

	err = f.svc.Delete(ctx, user, paid.ID)
	requireCode(t, err, pkgerrors.CodeValidation, MsgOnlyPendingDelete)

	f.fillCart(t, user, checkout.ItemRequest{ProductID: p.ID.String(), Quantity: 1})
	pending, err := f.svc.Create(ctx, user)
	require.NoError(t, err)

	err = f.svc.Delete(ctx, customer(), pending.ID)
	requireCode(t, err, pkgerrors.CodeNotFound, MsgOrderNotFound)

	require.NoError(t, f.svc.Delete(ctx, user, pending.ID))

	var items int64
	require.NoError(t, f.conn.Model(&models.OrderItem{}).Where("order_id = ?", pending.ID).Count(&items).Error)
	assert.Zero(t, items)

	err = f.svc.Delete(ctx, user, pending.ID)
	requireCode(t, err, pkgerrors.CodeNotFound, MsgOrderNotFound)
}
