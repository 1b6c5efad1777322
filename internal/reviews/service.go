package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundihub/fundihub-backend/internal/providers"
	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
	"github.com/fundihub/fundihub-backend/pkg/outbox"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// Service exposes review creation and the public review listing.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, req CreateRequest) (*ReviewDTO, error)
	ListForProvider(ctx context.Context, providerID uuid.UUID, params pagination.Params) (*ListResult, error)
}

type service struct {
	db     *dbpkg.Client
	outbox *outbox.Service
}

// NewService constructs a reviews service.
func NewService(client *dbpkg.Client, outboxSvc *outbox.Service) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &service{db: client, outbox: outboxSvc}, nil
}

// Create records a review and folds it into the provider's rating aggregate
// in the same transaction. A customer may review a provider once, and only
// after completing a booking with them.
func (s *service) Create(ctx context.Context, customerID uuid.UUID, req CreateRequest) (*ReviewDTO, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	var dto *ReviewDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		providerRepo := providers.NewRepository(tx)
		provider, err := providerRepo.FindByID(ctx, req.ProviderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "provider not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup provider")
		}

		repo := NewRepository(tx)
		completed, err := repo.HasCompletedBooking(ctx, customerID, provider.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check bookings")
		}
		if !completed {
			return pkgerrors.New(pkgerrors.CodeValidation, "a completed booking with this provider is required to review")
		}

		review := &models.Review{
			CustomerID: customerID,
			ProviderID: provider.ID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}
		created, err := repo.Create(ctx, review)
		if err != nil {
			if dbpkg.IsUniqueViolation(err, models.UniqueReviewConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this provider")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
		}

		average, count, err := repo.RatingAggregate(ctx, provider.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute rating")
		}
		if err := providerRepo.ApplyRating(ctx, provider.ID, average, count); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply rating")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventReviewCreated,
			AggregateType: enums.AggregateReview,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: customerID, Role: enums.UserRoleCustomer.String()},
			Data: map[string]any{
				"review_id":   created.ID,
				"customer_id": created.CustomerID,
				"provider_id": created.ProviderID,
				"rating":      created.Rating,
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

func (s *service) ListForProvider(ctx context.Context, providerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := NewRepository(s.db.DB()).ListForProvider(ctx, providerID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	result := &ListResult{Reviews: make([]ReviewDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			break
		}
		result.Reviews = append(result.Reviews, *FromModel(&rows[i]))
	}
	if len(rows) > limit {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}
