package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// Service exposes catalog management plus the public browse surface.
type Service interface {
	CreateService(ctx context.Context, providerID uuid.UUID, req CreateServiceRequest) (*ServiceDTO, error)
	UpdateService(ctx context.Context, providerID, serviceID uuid.UUID, req UpdateServiceRequest) (*ServiceDTO, error)
	DeleteService(ctx context.Context, providerID, serviceID uuid.UUID) error
	GetService(ctx context.Context, serviceID uuid.UUID) (*ServiceDTO, error)
	ListServices(ctx context.Context, providerID *uuid.UUID, publicOnly bool, params pagination.Params) (*ServiceListResult, error)

	CreateProduct(ctx context.Context, providerID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, providerID, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, providerID, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, providerID *uuid.UUID, publicOnly bool, params pagination.Params) (*ProductListResult, error)

	CreateEquipment(ctx context.Context, providerID uuid.UUID, req CreateEquipmentRequest) (*EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, providerID, equipmentID uuid.UUID, req UpdateEquipmentRequest) (*EquipmentDTO, error)
	DeleteEquipment(ctx context.Context, providerID, equipmentID uuid.UUID) error
	GetEquipment(ctx context.Context, equipmentID uuid.UUID) (*EquipmentDTO, error)
	ListEquipment(ctx context.Context, providerID *uuid.UUID, publicOnly bool, params pagination.Params) (*EquipmentListResult, error)
}

type service struct {
	db *dbpkg.Client
}

// NewService constructs a catalog service.
func NewService(client *dbpkg.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	return &service{db: client}, nil
}

func (s *service) repo() *Repository {
	return NewRepository(s.db.DB())
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, what+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup "+what)
}

// --- services ---

func (s *service) CreateService(ctx context.Context, providerID uuid.UUID, req CreateServiceRequest) (*ServiceDTO, error) {
	svc := &models.Service{
		ProviderID:  providerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		IsActive:    true,
		ImageURLs:   req.ImageURLs,
	}
	created, err := s.repo().CreateService(ctx, svc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service")
	}
	return ServiceFromModel(created), nil
}

func (s *service) UpdateService(ctx context.Context, providerID, serviceID uuid.UUID, req UpdateServiceRequest) (*ServiceDTO, error) {
	repo := s.repo()
	existing, err := repo.FindServiceByID(ctx, serviceID)
	if err != nil {
		return nil, notFound(err, "service")
	}
	if existing.ProviderID != providerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "service belongs to another provider")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.PriceCents != nil {
		updates["price_cents"] = *req.PriceCents
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.ImageURLs != nil {
		updates["image_urls"] = toStringArray(req.ImageURLs)
	}

	if err := repo.UpdateService(ctx, serviceID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update service")
	}
	refreshed, err := repo.FindServiceByID(ctx, serviceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload service")
	}
	return ServiceFromModel(refreshed), nil
}

func (s *service) DeleteService(ctx context.Context, providerID, serviceID uuid.UUID) error {
	repo := s.repo()
	existing, err := repo.FindServiceByID(ctx, serviceID)
	if err != nil {
		return notFound(err, "service")
	}
	if existing.ProviderID != providerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "service belongs to another provider")
	}
	if err := repo.DeleteService(ctx, serviceID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete service")
	}
	return nil
}

func (s *service) GetService(ctx context.Context, serviceID uuid.UUID) (*ServiceDTO, error) {
	svc, err := s.repo().FindServiceByID(ctx, serviceID)
	if err != nil {
		return nil, notFound(err, "service")
	}
	return ServiceFromModel(svc), nil
}

func (s *service) ListServices(ctx context.Context, providerID *uuid.UUID, publicOnly bool, params pagination.Params) (*ServiceListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo().ListServices(ctx, providerID, publicOnly, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list services")
	}

	result := &ServiceListResult{Services: make([]ServiceDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			break
		}
		result.Services = append(result.Services, *ServiceFromModel(&rows[i]))
	}
	if len(rows) > limit {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

// --- products ---

func (s *service) CreateProduct(ctx context.Context, providerID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	product := &models.Product{
		ProviderID:    providerID,
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Category:      req.Category,
		PriceCents:    req.PriceCents,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
		ImageURLs:     req.ImageURLs,
	}
	created, err := s.repo().CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return ProductFromModel(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, providerID, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	repo := s.repo()
	existing, err := repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if existing.ProviderID != providerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another provider")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.PriceCents != nil {
		updates["price_cents"] = *req.PriceCents
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.ImageURLs != nil {
		updates["image_urls"] = toStringArray(req.ImageURLs)
	}

	if err := repo.UpdateProduct(ctx, productID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	refreshed, err := repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return ProductFromModel(refreshed), nil
}

func (s *service) DeleteProduct(ctx context.Context, providerID, productID uuid.UUID) error {
	repo := s.repo()
	existing, err := repo.FindProductByID(ctx, productID)
	if err != nil {
		return notFound(err, "product")
	}
	if existing.ProviderID != providerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another provider")
	}
	if err := repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo().FindProductByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return ProductFromModel(product), nil
}

func (s *service) ListProducts(ctx context.Context, providerID *uuid.UUID, publicOnly bool, params pagination.Params) (*ProductListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo().ListProducts(ctx, providerID, publicOnly, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result := &ProductListResult{Products: make([]ProductDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			break
		}
		result.Products = append(result.Products, *ProductFromModel(&rows[i]))
	}
	if len(rows) > limit {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

// --- equipment ---

func (s *service) CreateEquipment(ctx context.Context, providerID uuid.UUID, req CreateEquipmentRequest) (*EquipmentDTO, error) {
	equipment := &models.Equipment{
		ProviderID:     providerID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		DailyRateCents: req.DailyRateCents,
		IsAvailable:    true,
		ImageURLs:      req.ImageURLs,
	}
	created, err := s.repo().CreateEquipment(ctx, equipment)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create equipment")
	}
	return EquipmentFromModel(created), nil
}

func (s *service) UpdateEquipment(ctx context.Context, providerID, equipmentID uuid.UUID, req UpdateEquipmentRequest) (*EquipmentDTO, error) {
	repo := s.repo()
	existing, err := repo.FindEquipmentByID(ctx, equipmentID)
	if err != nil {
		return nil, notFound(err, "equipment")
	}
	if existing.ProviderID != providerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "equipment belongs to another provider")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DailyRateCents != nil {
		updates["daily_rate_cents"] = *req.DailyRateCents
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.ImageURLs != nil {
		updates["image_urls"] = toStringArray(req.ImageURLs)
	}

	if err := repo.UpdateEquipment(ctx, equipmentID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update equipment")
	}
	refreshed, err := repo.FindEquipmentByID(ctx, equipmentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload equipment")
	}
	return EquipmentFromModel(refreshed), nil
}

func (s *service) DeleteEquipment(ctx context.Context, providerID, equipmentID uuid.UUID) error {
	repo := s.repo()
	existing, err := repo.FindEquipmentByID(ctx, equipmentID)
	if err != nil {
		return notFound(err, "equipment")
	}
	if existing.ProviderID != providerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "equipment belongs to another provider")
	}
	if err := repo.DeleteEquipment(ctx, equipmentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete equipment")
	}
	return nil
}

func (s *service) GetEquipment(ctx context.Context, equipmentID uuid.UUID) (*EquipmentDTO, error) {
	equipment, err := s.repo().FindEquipmentByID(ctx, equipmentID)
	if err != nil {
		return nil, notFound(err, "equipment")
	}
	return EquipmentFromModel(equipment), nil
}

func (s *service) ListEquipment(ctx context.Context, providerID *uuid.UUID, publicOnly bool, params pagination.Params) (*EquipmentListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo().ListEquipment(ctx, providerID, publicOnly, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list equipment")
	}

	result := &EquipmentListResult{Equipment: make([]EquipmentDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			break
		}
		result.Equipment = append(result.Equipment, *EquipmentFromModel(&rows[i]))
	}
	if len(rows) > limit {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

func toStringArray(values []string) pq.StringArray {
	return pq.StringArray(append([]string{}, values...))
}
