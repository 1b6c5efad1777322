package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
)

// Service manages the server-side cart document.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartView, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartView, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, userID uuid.UUID) error

	// Snapshot returns the raw cart document for checkout.
	Snapshot(ctx context.Context, userID uuid.UUID) (*Cart, error)
}

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type cartStore interface {
	Load(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, cart *Cart) error
	Clear(ctx context.Context, userID string) error
}

type service struct {
	store    cartStore
	products productLoader
}

// ServiceParams wires cart dependencies.
type ServiceParams struct {
	Store    cartStore
	Products productLoader
}

// NewService constructs a cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: params.Store, products: params.Products}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return View(cart), nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartView, error) {
	product, err := s.loadProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &Cart{UserID: userID}
	}

	quantity := ClampQuantity(req.Quantity, product.StockQuantity)
	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == product.ID {
			cart.Items[i] = itemFromProduct(product, quantity)
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, itemFromProduct(product, quantity))
	}

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return View(cart), nil
}

func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartView, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || !cart.hasItem(productID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	quantity := ClampQuantity(req.Quantity, product.StockQuantity)
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i] = itemFromProduct(product, quantity)
			break
		}
	}

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return View(cart), nil
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || !cart.hasItem(productID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if len(cart.Items) == 0 {
		if err := s.clear(ctx, userID); err != nil {
			return nil, err
		}
		return View(nil), nil
	}

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return View(cart), nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.clear(ctx, userID)
}

func (s *service) Snapshot(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	return s.load(ctx, userID)
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	cart, err := s.store.Load(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) save(ctx context.Context, userID uuid.UUID, cart *Cart) error {
	if err := s.store.Save(ctx, userID.String(), cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *service) clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Clear(ctx, userID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is no longer available")
	}
	if product.StockQuantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is out of stock")
	}
	return product, nil
}

func (c *Cart) hasItem(productID uuid.UUID) bool {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func itemFromProduct(product *models.Product, quantity int) Item {
	item := Item{
		ProductID:      product.ID,
		ProviderID:     product.ProviderID,
		ProductName:    product.Name,
		UnitPriceCents: product.PriceCents,
		Quantity:       quantity,
		StockQuantity:  product.StockQuantity,
	}
	if len(product.ImageURLs) > 0 {
		url := product.ImageURLs[0]
		item.ImageURL = &url
	}
	return item
}
