package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	hangarserrors "hangarhub/internal/hangars/errors"
	"hangarhub/internal/hangars/repository"
	"hangarhub/internal/hangars/validator"
	userserrors "hangarhub/internal/users/errors"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	"hangarhub/pkg/model"
)

// Actor is the authenticated caller as seen by the service layer.
type Actor struct {
	ID   string
	Role string
}

// BookingReader is the slice of the bookings repository the hangar side
// needs: counting active bookings for delete protection and reading
// overlapping ones for the details view.
type BookingReader interface {
	CountActiveByHangar(ctx context.Context, hangarID string) (int64, error)
	FindOverlapping(ctx context.Context, hangarID string, rng model.DateRange, excludeID string) ([]*model.Booking, error)
}

// UserReader resolves owner summaries for the details view.
type UserReader interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type HangarService interface {
	Create(ctx context.Context, ownerID string, hangar *model.Hangar) (*model.Hangar, error)
	GetByID(ctx context.Context, id string) (*model.HangarDetails, error)
	List(ctx context.Context, filter model.HangarFilter, limit int, offset int64) ([]*model.Hangar, int64, error)
	ListByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Hangar, int64, error)
	Update(ctx context.Context, actor Actor, id string, update *model.HangarUpdate) (*model.Hangar, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Availability(ctx context.Context, id string) (*model.HangarAvailability, error)
	AddAvailability(ctx context.Context, actor Actor, id string, slots []model.AvailabilitySlot) (*model.HangarAvailability, error)
}

type hangarService struct {
	repo      repository.HangarRepository
	bookings  BookingReader
	users     UserReader
	validator *validator.HangarValidator
	cfg       *config.Config
}

func NewHangarService(
	repo repository.HangarRepository,
	bookings BookingReader,
	users UserReader,
	hangarValidator *validator.HangarValidator,
	cfg *config.Config,
) HangarService {
	return &hangarService{
		repo:      repo,
		bookings:  bookings,
		users:     users,
		validator: hangarValidator,
		cfg:       cfg,
	}
}

func (s *hangarService) Create(ctx context.Context, ownerID string, hangar *model.Hangar) (*model.Hangar, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	hangar.ID = ""
	hangar.OwnerID = ownerID
	if hangar.Status == "" {
		hangar.Status = model.HangarAvailable
	}

	if err := s.validator.Validate(hangar); err != nil {
		s.cfg.Log.Warn("Hangar validation failed", "error", err)
		return nil, apperrors.Validation("Hangar validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, hangar); err != nil {
		s.cfg.Log.Error("Failed to create hangar", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to create hangar", err)
	}

	s.cfg.Log.Info("Hangar created successfully",
		"id", hangar.ID,
		"owner_id", hangar.OwnerID,
		"city", hangar.Location.City,
	)
	return hangar, nil
}

// GetByID assembles the details view: the hangar, its owner summary, and the
// non-cancelled bookings that have not yet ended. Owner lookup failures
// degrade to an absent owner rather than failing the read.
func (s *hangarService) GetByID(ctx context.Context, id string) (*model.HangarDetails, error) {
	hangar, err := s.findHangar(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	active, err := s.bookings.FindOverlapping(ctx, hangar.ID, model.DateRange{
		Start: now,
		End:   now.AddDate(10, 0, 0),
	}, "")
	if err != nil {
		return nil, apperrors.Internal("Failed to load hangar bookings", err)
	}
	if active == nil {
		active = []*model.Booking{}
	}

	details := &model.HangarDetails{
		Hangar:         hangar,
		ActiveBookings: active,
		IsAvailable:    hangar.Status == model.HangarAvailable && !occupiedAt(active, now),
	}

	owner, err := s.users.FindByID(ctx, hangar.OwnerID)
	if err != nil {
		if !errors.Is(err, userserrors.ErrNotFound) {
			s.cfg.Log.Warn("Failed to load hangar owner", "hangar_id", hangar.ID, "owner_id", hangar.OwnerID, "error", err)
		}
	} else {
		details.Owner = owner
	}

	return details, nil
}

func occupiedAt(bookings []*model.Booking, at time.Time) bool {
	for _, b := range bookings {
		if b.StartDate.Before(at) && b.EndDate.After(at) {
			return true
		}
	}
	return false
}

func (s *hangarService) List(ctx context.Context, filter model.HangarFilter, limit int, offset int64) ([]*model.Hangar, int64, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, 0, apperrors.Validation("minPrice cannot exceed maxPrice", nil)
	}

	var count int64
	var hangars []*model.Hangar
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count hangars", "error", errCount)
			errCount = apperrors.Internal("Failed to count hangars", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		hangars, errFind = s.repo.Find(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list hangars", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve hangars", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return hangars, count, nil
}

func (s *hangarService) ListByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Hangar, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	var count int64
	var hangars []*model.Hangar
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByOwner(ctx, ownerID)
		if errCount != nil {
			errCount = apperrors.Internal("Failed to count hangars", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		hangars, errFind = s.repo.FindByOwner(ctx, ownerID, limit, offset)
		if errFind != nil {
			errFind = apperrors.Internal("Failed to retrieve hangars", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return hangars, count, nil
}

func (s *hangarService) Update(ctx context.Context, actor Actor, id string, update *model.HangarUpdate) (*model.Hangar, error) {
	hangar, err := s.findHangar(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != hangar.OwnerID && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("Only the hangar owner can update this hangar")
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Hangar update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Hangar validation failed", map[string]any{"error": err.Error()})
	}

	fields := updateFields(update)
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("No updatable fields in request")
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, hangarserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Hangar", id)
		}
		return nil, apperrors.Internal("Failed to update hangar", err)
	}

	s.cfg.Log.Info("Hangar updated", "id", id, "actor_id", actor.ID)
	return updated, nil
}

// updateFields maps the owner-mutable field set onto Mongo paths. Absent
// fields stay untouched; OwnerID and timestamps are never client-writable.
func updateFields(update *model.HangarUpdate) bson.M {
	fields := bson.M{}

	if update.Name != "" {
		fields["name"] = update.Name
	}
	if update.Description != "" {
		fields["description"] = update.Description
	}
	if update.Size != "" {
		fields["size"] = update.Size
	}
	if update.Status != "" {
		fields["status"] = update.Status
	}
	if update.PricePerDay != nil {
		fields["price_per_day"] = *update.PricePerDay
	}
	if update.Amenities != nil {
		fields["amenities"] = update.Amenities
	}
	if update.Location != nil {
		fields["location"] = update.Location
	}
	if update.Availability != nil {
		fields["availability"] = update.Availability
	}

	return fields
}

// Delete removes a hangar unless bookings are still pending or confirmed
// against it.
func (s *hangarService) Delete(ctx context.Context, actor Actor, id string) error {
	hangar, err := s.findHangar(ctx, id)
	if err != nil {
		return err
	}
	if actor.ID != hangar.OwnerID && actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("Only the hangar owner can delete this hangar")
	}

	active, err := s.bookings.CountActiveByHangar(ctx, id)
	if err != nil {
		return apperrors.Internal("Failed to check hangar bookings", err)
	}
	if active > 0 {
		return apperrors.Conflict("Cannot delete a hangar with active bookings")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, hangarserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Hangar", id)
		}
		return apperrors.Internal("Failed to delete hangar", err)
	}

	s.cfg.Log.Info("Hangar deleted", "id", id, "actor_id", actor.ID)
	return nil
}

// Availability returns the owner-declared slots that have not fully elapsed,
// sorted by start date.
func (s *hangarService) Availability(ctx context.Context, id string) (*model.HangarAvailability, error) {
	hangar, err := s.findHangar(ctx, id)
	if err != nil {
		return nil, err
	}
	return availabilityView(hangar), nil
}

func availabilityView(hangar *model.Hangar) *model.HangarAvailability {
	now := time.Now().UTC()
	slots := make([]model.AvailabilitySlot, 0, len(hangar.Availability))
	for _, slot := range hangar.Availability {
		if slot.EndDate.After(now) {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartDate.Before(slots[j].StartDate)
	})

	return &model.HangarAvailability{
		HangarID:      hangar.ID,
		CurrentStatus: hangar.Status,
		Availability:  slots,
		TotalSlots:    len(slots),
	}
}

// AddAvailability appends owner-declared slots to the hangar. Existing slots
// are kept as-is; the public view filters and sorts, so storage order does
// not matter.
func (s *hangarService) AddAvailability(ctx context.Context, actor Actor, id string, slots []model.AvailabilitySlot) (*model.HangarAvailability, error) {
	if len(slots) == 0 {
		return nil, apperrors.InvalidInput("At least one availability slot is required")
	}

	hangar, err := s.findHangar(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != hangar.OwnerID && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("Only the hangar owner can declare availability")
	}

	if err := s.validator.ValidateUpdate(&model.HangarUpdate{Availability: slots}); err != nil {
		s.cfg.Log.Warn("Availability validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Availability validation failed", map[string]any{"error": err.Error()})
	}

	merged := append(hangar.Availability, slots...)
	updated, err := s.repo.Update(ctx, id, bson.M{"availability": merged})
	if err != nil {
		if errors.Is(err, hangarserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Hangar", id)
		}
		return nil, apperrors.Internal("Failed to update availability", err)
	}

	s.cfg.Log.Info("Availability slots added", "id", id, "actor_id", actor.ID, "slots", len(slots))
	return availabilityView(updated), nil
}

func (s *hangarService) findHangar(ctx context.Context, id string) (*model.Hangar, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Hangar ID cannot be empty")
	}

	hangar, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, hangarserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Hangar", id)
		}
		if errors.Is(err, hangarserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid hangar ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve hangar", err)
	}
	return hangar, nil
}
