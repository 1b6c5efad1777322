package bookings

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

const slotTakenMessage = "this time slot was just taken, please choose another"

// bookingTransitions is the allowed lifecycle state table.
var bookingTransitions = map[enums.BookingStatus][]enums.BookingStatus{
	enums.BookingStatusPending:   {enums.BookingStatusConfirmed, enums.BookingStatusCancelled},
	enums.BookingStatusConfirmed: {enums.BookingStatusCompleted, enums.BookingStatusCancelled},
	enums.BookingStatusCompleted: {},
	enums.BookingStatusCancelled: {},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to enums.BookingStatus) bool {
	for _, allowed := range bookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Service exposes the booking operations.
type Service interface {
	Availability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error)
	Create(ctx context.Context, customerID uuid.UUID, req CreateRequest) (*BookingDTO, error)
	Transition(ctx context.Context, actor Actor, bookingID uuid.UUID, target enums.BookingStatus) (*BookingDTO, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListResult, error)
	ListForProvider(ctx context.Context, providerID uuid.UUID, params pagination.Params) (*ListResult, error)
}

type service struct {
	db           *dbpkg.Client
	grid         *SlotGrid
	outbox       *outbox.Service
	maxDaysAhead int
}

// NewService constructs a booking service.
func NewService(client *dbpkg.Client, grid *SlotGrid, outboxSvc *outbox.Service, maxDaysAhead int) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	if grid == nil {
		return nil, fmt.Errorf("slot grid required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if maxDaysAhead <= 0 {
		return nil, fmt.Errorf("max days ahead must be positive")
	}
	return &service{db: client, grid: grid, outbox: outboxSvc, maxDaysAhead: maxDaysAhead}, nil
}

func (s *service) Availability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error) {
	from, err := ParseDate(req.From)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid from date")
	}
	to, err := ParseDate(req.To)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid to date")
	}
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must not precede from")
	}
	if int(to.Sub(from).Hours()/24) > s.maxDaysAhead {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range too wide")
	}

	repo := NewRepository(s.db.DB())
	taken, err := repo.TakenSlots(ctx, req.ProviderID, req.From, req.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load taken slots")
	}

	byDate := map[string][]string{}
	for _, slot := range taken {
		byDate[slot.BookingDate] = append(byDate[slot.BookingDate], slot.StartTime)
	}

	resp := &AvailabilityResponse{Slots: s.grid.Slots()}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		takenSlots := byDate[date]
		if takenSlots == nil {
			takenSlots = []string{}
		}
		resp.Days = append(resp.Days, DayAvailability{
			Date:        date,
			TakenSlots:  takenSlots,
			FullyBooked: len(takenSlots) >= s.grid.Size(),
		})
	}
	return resp, nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, req CreateRequest) (*BookingDTO, error) {
	if !s.grid.Contains(req.StartTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start time is not on the booking grid")
	}
	date, err := ParseDate(req.BookingDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid booking date")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking date is in the past")
	}
	if date.After(today.AddDate(0, 0, s.maxDaysAhead)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking date too far ahead")
	}

	var dto *BookingDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := catalog.NewRepository(tx)
		svc, err := catalogRepo.FindServiceByID(ctx, req.ServiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup service")
		}
		if svc.ProviderID != req.ProviderID {
			return pkgerrors.New(pkgerrors.CodeValidation, "service does not belong to provider")
		}
		if !svc.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "service is not active")
		}

		repo := NewRepository(tx)
		booking := &models.Booking{
			CustomerID:  customerID,
			ProviderID:  req.ProviderID,
			ServiceID:   req.ServiceID,
			BookingDate: req.BookingDate,
			StartTime:   req.StartTime,
			Status:      enums.BookingStatusPending,
			Notes:       req.Notes,
		}
		created, err := repo.Create(ctx, booking)
		if err != nil {
			if dbpkg.IsUniqueViolation(err, models.UniqueBookingSlotConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, slotTakenMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventBookingCreated,
			AggregateType: enums.AggregateBooking,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: customerID, Role: enums.UserRoleCustomer.String()},
			Data: map[string]any{
				"booking_id":   created.ID,
				"customer_id":  created.CustomerID,
				"provider_id":  created.ProviderID,
				"service_id":   created.ServiceID,
				"booking_date": created.BookingDate,
				"start_time":   created.StartTime,
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

// Actor identifies who is driving a lifecycle move.
type Actor struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	ProviderID *uuid.UUID
}

func (s *service) Transition(ctx context.Context, actor Actor, bookingID uuid.UUID, target enums.BookingStatus) (*BookingDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	var dto *BookingDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		booking, err := repo.FindByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup booking")
		}

		if err := authorizeTransition(booking, actor, target); err != nil {
			return err
		}
		if !CanTransition(booking.Status, target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move booking from %s to %s", booking.Status, target))
		}

		if err := repo.UpdateStatus(ctx, bookingID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking")
		}
		booking.Status = target

		event := outbox.DomainEvent{
			EventType:     enums.EventBookingStatusMoved,
			AggregateType: enums.AggregateBooking,
			AggregateID:   booking.ID,
			Actor:         &outbox.ActorRef{UserID: actor.UserID, ProviderID: actor.ProviderID, Role: actor.Role.String()},
			Data: map[string]any{
				"booking_id":  booking.ID,
				"customer_id": booking.CustomerID,
				"provider_id": booking.ProviderID,
				"status":      target,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue event")
		}

		dto = FromModel(booking)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// authorizeTransition applies the role rules: customers may only cancel their
// own bookings; providers confirm/complete/cancel bookings aimed at them.
func authorizeTransition(booking *models.Booking, actor Actor, target enums.BookingStatus) error {
	switch actor.Role {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleCustomer:
		if booking.CustomerID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another customer")
		}
		if target != enums.BookingStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeForbidden, "customers may only cancel bookings")
		}
		return nil
	case enums.UserRoleServiceProvider:
		if actor.ProviderID == nil || booking.ProviderID != *actor.ProviderID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another provider")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role not allowed")
	}
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	return s.page(ctx, params, func(cursor *pagination.Cursor, limit int) ([]models.Booking, error) {
		return NewRepository(s.db.DB()).ListForCustomer(ctx, customerID, cursor, limit)
	})
}

func (s *service) ListForProvider(ctx context.Context, providerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	return s.page(ctx, params, func(cursor *pagination.Cursor, limit int) ([]models.Booking, error) {
		return NewRepository(s.db.DB()).ListForProvider(ctx, providerID, cursor, limit)
	})
}

func (s *service) page(_ context.Context, params pagination.Params, fetch func(*pagination.Cursor, int) ([]models.Booking, error)) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := fetch(cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}

	result := &ListResult{Bookings: make([]BookingDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			break
		}
		result.Bookings = append(result.Bookings, *FromModel(&rows[i]))
	}
	if len(rows) > limit {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}
