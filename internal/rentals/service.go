package rentals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundihub/fundihub-backend/internal/catalog"
	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
	"github.com/fundihub/fundihub-backend/pkg/outbox"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

// maxRentalDays bounds a single rental request.
const maxRentalDays = 90

// rentalTransitions is the allowed lifecycle state table.
var rentalTransitions = map[enums.RentalStatus][]enums.RentalStatus{
	enums.RentalStatusPending:   {enums.RentalStatusActive, enums.RentalStatusCancelled},
	enums.RentalStatusActive:    {enums.RentalStatusCompleted},
	enums.RentalStatusCompleted: {},
	enums.RentalStatusCancelled: {},
}

// CanTransition reports whether a rental may move from one status to another.
func CanTransition(from, to enums.RentalStatus) bool {
	for _, allowed := range rentalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// RentalDays counts the billable days over an inclusive date range.
func RentalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// Actor identifies who is driving a lifecycle move.
type Actor struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	ProviderID *uuid.UUID
}

// Service exposes rental request and lifecycle operations.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, req CreateRequest) (*RentalDTO, error)
	Transition(ctx context.Context, actor Actor, rentalID uuid.UUID, target enums.RentalStatus) (*RentalDTO, error)
	Get(ctx context.Context, actor Actor, rentalID uuid.UUID) (*RentalDTO, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListResult, error)
	ListForProvider(ctx context.Context, providerID uuid.UUID, params pagination.Params) (*ListResult, error)
}

type service struct {
	db     *dbpkg.Client
	outbox *outbox.Service
}

// NewService constructs a rentals service.
func NewService(client *dbpkg.Client, outboxSvc *outbox.Service) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &service{db: client, outbox: outboxSvc}, nil
}

// Create records a rental request. The total is the daily rate times the
// inclusive number of days in the range.
func (s *service) Create(ctx context.Context, customerID uuid.UUID, req CreateRequest) (*RentalDTO, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid start date")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid end date")
	}
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must not precede start date")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if start.Before(today) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start date is in the past")
	}
	days := RentalDays(start, end)
	if days > maxRentalDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental period too long")
	}

	var dto *RentalDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := catalog.NewRepository(tx)
		equipment, err := catalogRepo.FindEquipmentByID(ctx, req.EquipmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup equipment")
		}
		if !equipment.IsAvailable {
			return pkgerrors.New(pkgerrors.CodeConflict, "equipment is not available")
		}

		repo := NewRepository(tx)
		rental := &models.EquipmentRental{
			CustomerID:  customerID,
			ProviderID:  equipment.ProviderID,
			EquipmentID: equipment.ID,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			TotalCents:  equipment.DailyRateCents * int64(days),
			Status:      enums.RentalStatusPending,
		}
		created, err := repo.Create(ctx, rental)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rental")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventRentalCreated,
			AggregateType: enums.AggregateRental,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: customerID, Role: enums.UserRoleCustomer.String()},
			Data: map[string]any{
				"rental_id":    created.ID,
				"customer_id":  created.CustomerID,
				"provider_id":  created.ProviderID,
				"equipment_id": created.EquipmentID,
				"start_date":   created.StartDate,
				"end_date":     created.EndDate,
				"total_cents":  created.TotalCents,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue event")
		}

		dto = FromModel(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Transition moves a rental along its lifecycle. Approving to active takes
// the equipment off the shelf; completing puts it back. Cancellation only
// happens while pending, before the equipment was ever reserved.
func (s *service) Transition(ctx context.Context, actor Actor, rentalID uuid.UUID, target enums.RentalStatus) (*RentalDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	var dto *RentalDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		rental, err := repo.FindByID(ctx, rentalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup rental")
		}

		if err := authorizeTransition(rental, actor, target); err != nil {
			return err
		}
		if !CanTransition(rental.Status, target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move rental from %s to %s", rental.Status, target))
		}

		catalogRepo := catalog.NewRepository(tx)
		if target == enums.RentalStatusActive {
			equipment, err := catalogRepo.FindEquipmentForUpdate(ctx, rental.EquipmentID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "equipment no longer exists")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock equipment")
			}
			if !equipment.IsAvailable {
				return pkgerrors.New(pkgerrors.CodeConflict, "equipment is already rented out")
			}
			if err := catalogRepo.SetEquipmentAvailability(ctx, rental.EquipmentID, false); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve equipment")
			}
		}
		if target == enums.RentalStatusCompleted {
			if err := catalogRepo.SetEquipmentAvailability(ctx, rental.EquipmentID, true); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release equipment")
			}
		}

		if err := repo.UpdateStatus(ctx, rentalID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rental")
		}
		rental.Status = target

		event := outbox.DomainEvent{
			EventType:     enums.EventRentalStatusMoved,
			AggregateType: enums.AggregateRental,
			AggregateID:   rental.ID,
			Actor:         &outbox.ActorRef{UserID: actor.UserID, ProviderID: actor.ProviderID, Role: actor.Role.String()},
			Data: map[string]any{
				"rental_id":    rental.ID,
				"customer_id":  rental.CustomerID,
				"provider_id":  rental.ProviderID,
				"equipment_id": rental.EquipmentID,
				"status":       target,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue event")
		}

		dto = FromModel(rental)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// authorizeTransition applies the role rules: customers may only cancel their
// own pending rentals; providers run approval and completion for rentals of
// their equipment.
func authorizeTransition(rental *models.EquipmentRental, actor Actor, target enums.RentalStatus) error {
	switch actor.Role {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleCustomer:
		if rental.CustomerID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "rental belongs to another customer")
		}
		if target != enums.RentalStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeForbidden, "customers may only cancel rentals")
		}
		return nil
	case enums.UserRoleServiceProvider:
		if actor.ProviderID == nil || rental.ProviderID != *actor.ProviderID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "rental belongs to another provider")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role not allowed")
	}
}

func (s *service) Get(ctx context.Context, actor Actor, rentalID uuid.UUID) (*RentalDTO, error) {
	rental, err := NewRepository(s.db.DB()).FindByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup rental")
	}
	switch actor.Role {
	case enums.UserRoleAdmin:
	case enums.UserRoleCustomer:
		if rental.CustomerID != actor.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "rental belongs to another customer")
		}
	case enums.UserRoleServiceProvider:
		if actor.ProviderID == nil || rental.ProviderID != *actor.ProviderID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "rental belongs to another provider")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role not allowed")
	}
	return FromModel(rental), nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	return s.page(params, func(cursor *pagination.Cursor, limit int) ([]models.EquipmentRental, error) {
		return NewRepository(s.db.DB()).ListForCustomer(ctx, customerID, cursor, limit)
	})
}

func (s *service) ListForProvider(ctx context.Context, providerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	return s.page(params, func(cursor *pagination.Cursor, limit int) ([]models.EquipmentRental, error) {
		return NewRepository(s.db.DB()).ListForProvider(ctx, providerID, cursor, limit)
	})
}

func (s *service) page(params pagination.Params, fetch func(*pagination.Cursor, int) ([]models.EquipmentRental, error)) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := fetch(cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rentals")
	}

	result := &ListResult{Rentals: make([]RentalDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			break
		}
		result.Rentals = append(result.Rentals, *FromModel(&rows[i]))
	}
	if len(rows) > limit {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}
