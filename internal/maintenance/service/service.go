package service

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	maintenanceerrors "hangarhub/internal/maintenance/errors"
	"hangarhub/internal/maintenance/repository"
	"hangarhub/internal/maintenance/validator"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	"hangarhub/pkg/model"
)

// Actor is the authenticated caller as seen by the service layer.
type Actor struct {
	ID   string
	Role string
}

type MaintenanceService interface {
	Create(ctx context.Context, providerID string, svc *model.Service) (*model.Service, error)
	GetByID(ctx context.Context, id string) (*model.Service, error)
	List(ctx context.Context, filter model.ServiceFilter, limit int, offset int64) ([]*model.Service, int64, error)
	ListByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Service, int64, error)
	Update(ctx context.Context, actor Actor, id string, update *model.ServiceUpdate) (*model.Service, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type maintenanceService struct {
	repo      repository.ServiceRepository
	validator *validator.ServiceValidator
	cfg       *config.Config
}

func NewMaintenanceService(repo repository.ServiceRepository, serviceValidator *validator.ServiceValidator, cfg *config.Config) MaintenanceService {
	return &maintenanceService{
		repo:      repo,
		validator: serviceValidator,
		cfg:       cfg,
	}
}

func (s *maintenanceService) Create(ctx context.Context, providerID string, svc *model.Service) (*model.Service, error) {
	if providerID == "" {
		return nil, apperrors.InvalidInput("Provider ID cannot be empty")
	}

	svc.ID = ""
	svc.ProviderID = providerID
	if svc.Status == "" {
		svc.Status = model.ServicePendingApproval
	}

	if err := s.validator.Validate(svc); err != nil {
		s.cfg.Log.Warn("Service validation failed", "error", err)
		return nil, apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		s.cfg.Log.Error("Failed to create service", "provider_id", providerID, "error", err)
		return nil, apperrors.Internal("Failed to create service", err)
	}

	s.cfg.Log.Info("Service created", "id", svc.ID, "provider_id", svc.ProviderID, "category", svc.Category)
	return svc, nil
}

func (s *maintenanceService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	return s.findService(ctx, id)
}

func (s *maintenanceService) List(ctx context.Context, filter model.ServiceFilter, limit int, offset int64) ([]*model.Service, int64, error) {
	var count int64
	var services []*model.Service
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
	}()

	go func() {
		defer wg.Done()
		services, errFind = s.repo.Find(ctx, filter, limit, offset)
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, apperrors.Internal("Failed to count services", errCount)
	}
	if errFind != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve services", errFind)
	}

	return services, count, nil
}

func (s *maintenanceService) ListByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Service, int64, error) {
	if providerID == "" {
		return nil, 0, apperrors.InvalidInput("Provider ID cannot be empty")
	}

	var count int64
	var services []*model.Service
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByProvider(ctx, providerID)
	}()

	go func() {
		defer wg.Done()
		services, errFind = s.repo.FindByProvider(ctx, providerID, limit, offset)
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, apperrors.Internal("Failed to count services", errCount)
	}
	if errFind != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve services", errFind)
	}

	return services, count, nil
}

func (s *maintenanceService) Update(ctx context.Context, actor Actor, id string, update *model.ServiceUpdate) (*model.Service, error) {
	svc, err := s.findService(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != svc.ProviderID && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("Only the provider can update this service")
	}
	// Providers cannot self-approve; only admins move a service out of
	// pending_approval.
	if update.Status != "" && update.Status != svc.Status && actor.Role != model.RoleAdmin && svc.Status == model.ServicePendingApproval {
		return nil, apperrors.Forbidden("Only admins can change the approval status")
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}

	fields := updateFields(update)
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("No updatable fields in request")
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, maintenanceerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Service", id)
		}
		return nil, apperrors.Internal("Failed to update service", err)
	}

	s.cfg.Log.Info("Service updated", "id", id, "actor_id", actor.ID)
	return updated, nil
}

func updateFields(update *model.ServiceUpdate) bson.M {
	fields := bson.M{}

	if update.Name != "" {
		fields["name"] = update.Name
	}
	if update.Description != "" {
		fields["description"] = update.Description
	}
	if update.Category != "" {
		fields["category"] = update.Category
	}
	if update.Duration != nil {
		fields["duration"] = update.Duration
	}
	if update.Pricing != nil {
		fields["pricing"] = update.Pricing
	}
	if update.Availability != nil {
		fields["availability"] = *update.Availability
	}
	if update.Requirements != nil {
		fields["requirements"] = update.Requirements
	}
	if update.SupportedAircraftTypes != nil {
		fields["supported_aircraft_types"] = update.SupportedAircraftTypes
	}
	if update.Status != "" {
		fields["status"] = update.Status
	}

	return fields
}

func (s *maintenanceService) Delete(ctx context.Context, actor Actor, id string) error {
	svc, err := s.findService(ctx, id)
	if err != nil {
		return err
	}
	if actor.ID != svc.ProviderID && actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("Only the provider can delete this service")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, maintenanceerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Service", id)
		}
		return apperrors.Internal("Failed to delete service", err)
	}

	s.cfg.Log.Info("Service deleted", "id", id, "actor_id", actor.ID)
	return nil
}

func (s *maintenanceService) findService(ctx context.Context, id string) (*model.Service, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, maintenanceerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Service", id)
		}
		if errors.Is(err, maintenanceerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid service ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve service", err)
	}
	return svc, nil
}
