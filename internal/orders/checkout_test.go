package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundihub/fundihub-backend/internal/cart"
	"github.com/fundihub/fundihub-backend/pkg/config"
	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
	"github.com/fundihub/fundihub-backend/pkg/outbox"
)

type stubCartSource struct {
	snapshot *cart.Cart
	clearErr error
	cleared  bool
}

func (s *stubCartSource) Snapshot(_ context.Context, _ uuid.UUID) (*cart.Cart, error) {
	return s.snapshot, nil
}

func (s *stubCartSource) Clear(_ context.Context, _ uuid.UUID) error {
	s.cleared = true
	return s.clearErr
}

func setupOrdersTestDB(t *testing.T, name string) *dbpkg.Client {
	t.Helper()

	client, err := dbpkg.New(context.Background(), config.DBConfig{
		Driver: dbpkg.DriverSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  provider_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT,
  price_cents INTEGER NOT NULL,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  image_urls TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	productOrders := `
CREATE TABLE IF NOT EXISTS product_orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  provider_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME
);`
	outboxEvents := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	for _, schema := range []string{products, productOrders, orderItems, outboxEvents} {
		require.NoError(t, client.DB().Exec(schema).Error)
	}
	return client
}

func seedProduct(t *testing.T, client *dbpkg.Client, priceCents int64, stock int) *models.Product {
	t.Helper()

	row := models.Product{
		ID:            uuid.New(),
		ProviderID:    uuid.New(),
		Name:          "Pipe wrench",
		PriceCents:    priceCents,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, client.DB().Create(&row).Error)
	return &row
}

func productStock(t *testing.T, client *dbpkg.Client, id uuid.UUID) int {
	t.Helper()

	var product models.Product
	require.NoError(t, client.DB().First(&product, "id = ?", id).Error)
	return product.StockQuantity
}

func cartWith(product *models.Product, quantity int) *cart.Cart {
	return &cart.Cart{
		UserID: uuid.New(),
		Items: []cart.Item{{
			ProductID:      product.ID,
			ProviderID:     product.ProviderID,
			ProductName:    product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       quantity,
		}},
	}
}

func TestCheckoutSurvivesCartClearFailure(t *testing.T) {
	client := setupOrdersTestDB(t, "orders_clear_failure")
	product := seedProduct(t, client, 2500, 5)
	carts := &stubCartSource{
		snapshot: cartWith(product, 2),
		clearErr: fmt.Errorf("redis unavailable"),
	}

	svc, err := NewService(ServiceParams{
		DB:     client,
		Carts:  carts,
		Outbox: outbox.NewService(outbox.NewRepository(client.DB()), nil),
	})
	require.NoError(t, err)

	result, err := svc.Checkout(context.Background(), uuid.New())
	require.NoError(t, err, "committed orders must not surface a cart clear failure")
	require.NotNil(t, result)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, int64(5000), result.Orders[0].TotalCents)
	assert.True(t, carts.cleared)
	assert.Equal(t, 3, productStock(t, client, product.ID))
}

func TestCheckoutInsufficientStock(t *testing.T) {
	client := setupOrdersTestDB(t, "orders_low_stock")
	product := seedProduct(t, client, 2500, 1)
	carts := &stubCartSource{snapshot: cartWith(product, 3)}

	svc, err := NewService(ServiceParams{
		DB:     client,
		Carts:  carts,
		Outbox: outbox.NewService(outbox.NewRepository(client.DB()), nil),
	})
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.False(t, carts.cleared, "a failed checkout must keep the cart")
	assert.Equal(t, 1, productStock(t, client, product.ID))
}

func TestCheckoutEmptyCart(t *testing.T) {
	client := setupOrdersTestDB(t, "orders_empty_cart")
	carts := &stubCartSource{snapshot: &cart.Cart{UserID: uuid.New()}}

	svc, err := NewService(ServiceParams{
		DB:     client,
		Carts:  carts,
		Outbox: outbox.NewService(outbox.NewRepository(client.DB()), nil),
	})
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
