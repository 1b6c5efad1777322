package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundihub/fundihub-backend/internal/roles"
	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
	"github.com/fundihub/fundihub-backend/pkg/outbox"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// Service exposes provider profile semantics.
type Service interface {
	Apply(ctx context.Context, userID uuid.UUID, req ApplyRequest) (*ProviderDTO, error)
	GetMine(ctx context.Context, userID uuid.UUID) (*ProviderDTO, error)
	UpdateMine(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*ProviderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProviderDTO, error)
	List(ctx context.Context, city string, params pagination.Params) (*ListResult, error)
	SetActive(ctx context.Context, actorID, providerID uuid.UUID, active bool) (*ProviderDTO, error)
}

type service struct {
	db     *dbpkg.Client
	outbox *outbox.Service
}

// NewService constructs a provider service.
func NewService(client *dbpkg.Client, outboxSvc *outbox.Service) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &service{db: client, outbox: outboxSvc}, nil
}

func (s *service) Apply(ctx context.Context, userID uuid.UUID, req ApplyRequest) (*ProviderDTO, error) {
	var dto *ProviderDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		roleRepo := roles.NewRepository(tx)

		provider := &models.Provider{
			UserID:       userID,
			BusinessName: strings.TrimSpace(req.BusinessName),
			Description:  req.Description,
			Phone:        req.Phone,
			AddressLine:  strings.TrimSpace(req.AddressLine),
			City:         strings.TrimSpace(req.City),
		}
		created, err := repo.Create(ctx, provider)
		if err != nil {
			if dbpkg.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "provider profile already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create provider")
		}

		if err := roleRepo.Grant(ctx, userID, enums.UserRoleServiceProvider, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "grant provider role")
		}

		dto = FromModel(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) GetMine(ctx context.Context, userID uuid.UUID) (*ProviderDTO, error) {
	repo := NewRepository(s.db.DB())
	provider, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "provider profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup provider")
	}
	return FromModel(provider), nil
}

func (s *service) UpdateMine(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*ProviderDTO, error) {
	repo := NewRepository(s.db.DB())
	provider, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "provider profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup provider")
	}

	updates := map[string]any{}
	if req.BusinessName != nil {
		updates["business_name"] = strings.TrimSpace(*req.BusinessName)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.AddressLine != nil {
		updates["address_line"] = strings.TrimSpace(*req.AddressLine)
	}
	if req.City != nil {
		updates["city"] = strings.TrimSpace(*req.City)
	}
	if req.PaymentQRMedia != nil {
		updates["payment_qr_media_id"] = *req.PaymentQRMedia
	}

	if err := repo.Update(ctx, provider.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update provider")
	}

	refreshed, err := repo.FindByID(ctx, provider.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload provider")
	}
	return FromModel(refreshed), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProviderDTO, error) {
	repo := NewRepository(s.db.DB())
	provider, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "provider not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup provider")
	}
	return FromModel(provider), nil
}

func (s *service) List(ctx context.Context, city string, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	repo := NewRepository(s.db.DB())
	rows, err := repo.ListActive(ctx, city, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list providers")
	}

	result := &ListResult{Providers: make([]ProviderDTO, 0, len(rows))}
	for i, row := range rows {
		if i == limit {
			break
		}
		result.Providers = append(result.Providers, *FromModel(&row))
	}
	if len(rows) > limit {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

func (s *service) SetActive(ctx context.Context, actorID, providerID uuid.UUID, active bool) (*ProviderDTO, error) {
	var dto *ProviderDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		provider, err := repo.FindByID(ctx, providerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "provider not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup provider")
		}

		wasActive := provider.IsActive
		if err := repo.SetActive(ctx, providerID, active); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update provider")
		}
		provider.IsActive = active

		if active && !wasActive {
			event := outbox.DomainEvent{
				EventType:     enums.EventProviderApproved,
				AggregateType: enums.AggregateProvider,
				AggregateID:   provider.ID,
				Actor:         &outbox.ActorRef{UserID: actorID, Role: enums.UserRoleAdmin.String()},
				Data: map[string]any{
					"provider_id": provider.ID,
					"user_id":     provider.UserID,
				},
				Version: 1,
			}
			// First approval only. Re-approving after a deactivation
			// must not queue a second event.
			if err := s.outbox.EmitIfNotExists(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue event")
			}
		}

		dto = FromModel(provider)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
