package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundihub/fundihub-backend/internal/cart"
	"github.com/fundihub/fundihub-backend/internal/catalog"
	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
	"github.com/fundihub/fundihub-backend/pkg/logger"
	"github.com/fundihub/fundihub-backend/pkg/outbox"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// orderTransitions is the allowed lifecycle state table.
var orderTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusCompleted},
	enums.OrderStatusCompleted:  {},
	enums.OrderStatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// restoresStock reports whether cancelling from this status returns the
// reserved quantities to inventory. Shipped goods are already gone.
func restoresStock(from enums.OrderStatus) bool {
	return from == enums.OrderStatusPending || from == enums.OrderStatusProcessing
}

// Actor identifies who is driving a lifecycle move.
type Actor struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	ProviderID *uuid.UUID
}

// Service exposes checkout and order lifecycle operations.
type Service interface {
	Checkout(ctx context.Context, customerID uuid.UUID) (*CheckoutResult, error)
	Transition(ctx context.Context, actor Actor, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
	Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListResult, error)
	ListForProvider(ctx context.Context, providerID uuid.UUID, params pagination.Params) (*ListResult, error)
}

type cartSource interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	db     *dbpkg.Client
	carts  cartSource
	outbox *outbox.Service
	logg   *logger.Logger
}

// ServiceParams wires order dependencies.
type ServiceParams struct {
	DB     *dbpkg.Client
	Carts  cartSource
	Outbox *outbox.Service
	Logger *logger.Logger
}

// NewService constructs an orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &service{db: params.DB, carts: params.Carts, outbox: params.Outbox, logg: params.Logger}, nil
}

// Checkout converts the customer's cart into one order per provider. Stock is
// decremented under row locks so concurrent checkouts cannot oversell.
func (s *service) Checkout(ctx context.Context, customerID uuid.UUID) (*CheckoutResult, error) {
	snapshot, err := s.carts.Snapshot(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil || len(snapshot.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	byProvider := map[uuid.UUID][]cart.Item{}
	for _, item := range snapshot.Items {
		byProvider[item.ProviderID] = append(byProvider[item.ProviderID], item)
	}
	providerIDs := make([]uuid.UUID, 0, len(byProvider))
	for providerID := range byProvider {
		providerIDs = append(providerIDs, providerID)
	}
	// Deterministic provider order keeps lock acquisition stable.
	sort.Slice(providerIDs, func(i, j int) bool {
		return providerIDs[i].String() < providerIDs[j].String()
	})

	result := &CheckoutResult{}
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := catalog.NewRepository(tx)
		repo := NewRepository(tx)

		for _, providerID := range providerIDs {
			items := byProvider[providerID]
			order := &models.ProductOrder{
				CustomerID: customerID,
				ProviderID: providerID,
				Status:     enums.OrderStatusPending,
			}
			for _, line := range items {
				product, err := catalogRepo.FindProductForUpdate(ctx, line.ProductID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeNotFound, "product no longer exists: "+line.ProductName)
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock product")
				}
				if !product.IsActive {
					return pkgerrors.New(pkgerrors.CodeConflict, "product no longer available: "+product.Name)
				}
				if product.StockQuantity < line.Quantity {
					return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for "+product.Name)
				}
				if err := catalogRepo.AdjustProductStock(ctx, product.ID, -line.Quantity); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for "+product.Name)
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
				}
				order.Items = append(order.Items, models.OrderItem{
					ProductID:      product.ID,
					ProductName:    product.Name,
					UnitPriceCents: product.PriceCents,
					Quantity:       line.Quantity,
				})
				order.TotalCents += product.PriceCents * int64(line.Quantity)
			}

			created, err := repo.Create(ctx, order)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
			}

			event := outbox.DomainEvent{
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   created.ID,
				Actor:         &outbox.ActorRef{UserID: customerID, Role: enums.UserRoleCustomer.String()},
				Data: map[string]any{
					"order_id":    created.ID,
					"customer_id": created.CustomerID,
					"provider_id": created.ProviderID,
					"total_cents": created.TotalCents,
					"item_count":  len(created.Items),
				},
				Version: 1,
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue event")
			}

			result.Orders = append(result.Orders, *FromModel(created))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The cart lives in Redis so clearing is outside the transaction. The
	// orders are committed at this point; a failed clear leaves a stale cart,
	// never a failed checkout.
	if err := s.carts.Clear(ctx, customerID); err != nil && s.logg != nil {
		logCtx := s.logg.WithField(ctx, "customer_id", customerID.String())
		s.logg.Warn(logCtx, "cart clear after checkout failed")
	}
	return result, nil
}

func (s *service) Transition(ctx context.Context, actor Actor, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	var dto *OrderDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
		}

		if err := authorizeTransition(order, actor, target); err != nil {
			return err
		}
		if !CanTransition(order.Status, target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
		}

		if target == enums.OrderStatusCancelled && restoresStock(order.Status) {
			catalogRepo := catalog.NewRepository(tx)
			for _, item := range order.Items {
				if err := catalogRepo.AdjustProductStock(ctx, item.ProductID, item.Quantity); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						// Product deleted since checkout, nothing to restore.
						continue
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
				}
			}
		}

		if err := repo.UpdateStatus(ctx, orderID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		order.Status = target

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusMoved,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: actor.UserID, ProviderID: actor.ProviderID, Role: actor.Role.String()},
			Data: map[string]any{
				"order_id":    order.ID,
				"customer_id": order.CustomerID,
				"provider_id": order.ProviderID,
				"status":      target,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue event")
		}

		dto = FromModel(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// authorizeTransition applies the role rules: customers may only cancel their
// own pending orders; providers run the fulfilment lifecycle for orders aimed
// at them.
func authorizeTransition(order *models.ProductOrder, actor Actor, target enums.OrderStatus) error {
	switch actor.Role {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleCustomer:
		if order.CustomerID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
		}
		if target != enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeForbidden, "customers may only cancel orders")
		}
		return nil
	case enums.UserRoleServiceProvider:
		if actor.ProviderID == nil || order.ProviderID != *actor.ProviderID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another provider")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role not allowed")
	}
}

func (s *service) Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := NewRepository(s.db.DB()).FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}
	if err := authorizeRead(order, actor); err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func authorizeRead(order *models.ProductOrder, actor Actor) error {
	switch actor.Role {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleCustomer:
		if order.CustomerID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
		}
		return nil
	case enums.UserRoleServiceProvider:
		if actor.ProviderID == nil || order.ProviderID != *actor.ProviderID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another provider")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role not allowed")
	}
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	return s.page(params, func(cursor *pagination.Cursor, limit int) ([]models.ProductOrder, error) {
		return NewRepository(s.db.DB()).ListForCustomer(ctx, customerID, cursor, limit)
	})
}

func (s *service) ListForProvider(ctx context.Context, providerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	return s.page(params, func(cursor *pagination.Cursor, limit int) ([]models.ProductOrder, error) {
		return NewRepository(s.db.DB()).ListForProvider(ctx, providerID, cursor, limit)
	})
}

func (s *service) page(params pagination.Params, fetch func(*pagination.Cursor, int) ([]models.ProductOrder, error)) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := fetch(cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := &ListResult{Orders: make([]OrderDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			break
		}
		result.Orders = append(result.Orders, *FromModel(&rows[i]))
	}
	if len(rows) > limit {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}
