package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "hangarhub/internal/bookings/errors"
	"hangarhub/internal/bookings/repository"
	"hangarhub/internal/bookings/validator"
	hangarserrors "hangarhub/internal/hangars/errors"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	"hangarhub/pkg/kafka"
	"hangarhub/pkg/model"
)

// Actor is the authenticated caller as seen by the service layer.
type Actor struct {
	ID   string
	Role string
}

// HangarReader is the slice of the hangars repository the booking lifecycle
// needs: resolving a booking's hangar and enumerating an owner's hangars.
type HangarReader interface {
	FindByID(ctx context.Context, id string) (*model.Hangar, error)
	FindIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
}

// EventSink receives booking lifecycle events after successful state changes.
// Publishing is best-effort: failures are logged, never surfaced to callers.
type EventSink interface {
	Publish(ctx context.Context, event kafka.BookingEvent) error
}

type BookingService interface {
	Create(ctx context.Context, customerID string, req *model.BookingRequest) (*model.Booking, error)
	HasConflict(ctx context.Context, hangarID string, rng model.DateRange, excludeID string) (bool, error)
	GetByID(ctx context.Context, actor Actor, id string) (*model.Booking, error)
	ListForCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, int64, error)
	ListForOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Confirm(ctx context.Context, actor Actor, id string) (*model.Booking, error)
	Cancel(ctx context.Context, actor Actor, id string) (*model.Booking, error)
	Complete(ctx context.Context, actor Actor, id string) (*model.Booking, error)
	SetPaymentStatus(ctx context.Context, actor Actor, id, paymentStatus string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	hangars   HangarReader
	validator *validator.BookingValidator
	events    EventSink
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	hangars HangarReader,
	bookingValidator *validator.BookingValidator,
	events EventSink,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		hangars:   hangars,
		validator: bookingValidator,
		events:    events,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, customerID string, req *model.BookingRequest) (*model.Booking, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	hangar, err := s.findHangar(ctx, req.HangarID)
	if err != nil {
		return nil, err
	}

	rng := model.DateRange{Start: req.StartDate, End: req.EndDate}
	booking := &model.Booking{
		HangarID:        hangar.ID,
		CustomerID:      customerID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalPrice:      hangar.PricePerDay * float64(rng.Days()),
		Aircraft:        req.Aircraft,
		Status:          model.BookingPending,
		PaymentStatus:   model.PaymentPending,
		SpecialRequests: req.SpecialRequests,
	}

	// Advisory lock serializes conflict-check-then-insert per hangar so two
	// concurrent creates for overlapping ranges cannot both pass the check.
	lockID, err := s.acquireHangarLock(ctx, hangar.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseHangarLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, hangar.ID, rng, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "hangar_id", hangar.ID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"hangar_id", booking.HangarID,
		"customer_id", booking.CustomerID,
		"start_date", booking.StartDate,
		"end_date", booking.EndDate,
		"total_price", booking.TotalPrice,
	)
	s.publishEvent(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

// HasConflict reports whether any non-cancelled booking on the hangar
// overlaps rng under half-open semantics. Pure read; excludeID supports
// re-checks when moving an existing booking.
func (s *bookingService) HasConflict(ctx context.Context, hangarID string, rng model.DateRange, excludeID string) (bool, error) {
	if !rng.Valid() {
		return false, apperrors.Validation("endDate must be after startDate", nil)
	}

	existing, err := s.repo.FindOverlapping(ctx, hangarID, rng, excludeID)
	if err != nil {
		return false, apperrors.Internal("Failed to check existing bookings", err)
	}
	return len(existing) > 0, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkReadScope(ctx, actor, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListForCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if customerID == "" {
		return nil, 0, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByCustomer(ctx, customerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count customer bookings", "customer_id", customerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByCustomer(ctx, customerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list customer bookings", "customer_id", customerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) ListForOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	hangarIDs, err := s.hangars.FindIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to resolve owned hangars", err)
	}
	if len(hangarIDs) == 0 {
		return []*model.Booking{}, 0, nil
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByHangars(ctx, hangarIDs)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count owner bookings", "owner_id", ownerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByHangars(ctx, hangarIDs, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list owner bookings", "owner_id", ownerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Confirm(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	return s.transition(ctx, actor, id, model.BookingConfirmed)
}

func (s *bookingService) Cancel(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	return s.transition(ctx, actor, id, model.BookingCancelled)
}

func (s *bookingService) Complete(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	return s.transition(ctx, actor, id, model.BookingCompleted)
}

// transition enforces the booking state machine:
//
//	pending -> confirmed -> completed
//	pending|confirmed -> cancelled
//
// cancelled and completed are terminal. Confirm and complete belong to the
// hangar owner; cancel belongs to the customer while pending, or the owner
// while pending or confirmed.
func (s *bookingService) transition(ctx context.Context, actor Actor, id, target string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	hangar, err := s.findHangar(ctx, booking.HangarID)
	if err != nil {
		return nil, err
	}
	isOwner := actor.ID == hangar.OwnerID
	isCustomer := actor.ID == booking.CustomerID

	switch target {
	case model.BookingConfirmed:
		if !isOwner {
			return nil, apperrors.Forbidden("Only the hangar owner can confirm a booking")
		}
		if booking.Status != model.BookingPending {
			return nil, apperrors.Conflict(fmt.Sprintf("Cannot confirm a booking in status %q", booking.Status))
		}

	case model.BookingCancelled:
		if !isOwner && !isCustomer {
			return nil, apperrors.Forbidden("Only the customer or the hangar owner can cancel a booking")
		}
		if booking.IsTerminal() {
			return nil, apperrors.Conflict(fmt.Sprintf("Cannot cancel a booking in status %q", booking.Status))
		}
		if isCustomer && !isOwner && booking.Status != model.BookingPending {
			return nil, apperrors.Conflict("Customers can only cancel bookings that are still pending")
		}

	case model.BookingCompleted:
		if !isOwner {
			return nil, apperrors.Forbidden("Only the hangar owner can complete a booking")
		}
		if booking.Status != model.BookingConfirmed {
			return nil, apperrors.Conflict(fmt.Sprintf("Cannot complete a booking in status %q", booking.Status))
		}
		if s.cfg.CompleteRequiresElapsed && booking.EndDate.After(time.Now().UTC()) {
			return nil, apperrors.Conflict("Cannot complete a booking before its end date")
		}

	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown target status %q", target))
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, booking.Status, target); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			// The status filter no longer matched: a concurrent transition won.
			return nil, apperrors.Conflict("Booking status changed concurrently, please retry")
		}
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	booking.Status = target
	s.cfg.Log.Info("Booking status updated",
		"id", booking.ID,
		"status", target,
		"actor_id", actor.ID,
	)
	s.publishEvent(ctx, eventTypeFor(target), booking)
	return booking, nil
}

// SetPaymentStatus moves the payment axis independently of the booking
// status: pending -> paid -> refunded. Owner only.
func (s *bookingService) SetPaymentStatus(ctx context.Context, actor Actor, id, paymentStatus string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	hangar, err := s.findHangar(ctx, booking.HangarID)
	if err != nil {
		return nil, err
	}
	if actor.ID != hangar.OwnerID {
		return nil, apperrors.Forbidden("Only the hangar owner can update payment status")
	}

	valid := map[string]string{
		model.PaymentPaid:     model.PaymentPending,
		model.PaymentRefunded: model.PaymentPaid,
	}
	requiredFrom, ok := valid[paymentStatus]
	if !ok {
		return nil, apperrors.Validation(fmt.Sprintf("Invalid payment status %q", paymentStatus), nil)
	}
	if booking.PaymentStatus != requiredFrom {
		return nil, apperrors.Conflict(fmt.Sprintf("Cannot move payment status from %q to %q", booking.PaymentStatus, paymentStatus))
	}

	if err := s.repo.UpdatePaymentStatus(ctx, booking.ID, paymentStatus); err != nil {
		return nil, apperrors.Internal("Failed to update payment status", err)
	}

	booking.PaymentStatus = paymentStatus
	s.publishEvent(ctx, kafka.EventBookingPayment, booking)
	return booking, nil
}

// --- Helpers ---

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) findHangar(ctx context.Context, id string) (*model.Hangar, error) {
	hangar, err := s.hangars.FindByID(ctx, id)
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

func (s *bookingService) checkReadScope(ctx context.Context, actor Actor, booking *model.Booking) error {
	if actor.Role == model.RoleAdmin || actor.ID == booking.CustomerID {
		return nil
	}

	hangar, err := s.findHangar(ctx, booking.HangarID)
	if err != nil {
		return err
	}
	if actor.ID != hangar.OwnerID {
		// Out-of-scope reads 404 rather than 403 so booking ids are not
		// probeable by other users.
		return apperrors.NotFoundWithID("Booking", booking.ID)
	}
	return nil
}

func (s *bookingService) verifyNoConflict(ctx context.Context, hangarID string, rng model.DateRange, excludeID string) error {
	existing, err := s.repo.FindOverlapping(ctx, hangarID, rng, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.Range().Overlaps(rng) {
			return apperrors.Conflict(fmt.Sprintf(
				"Hangar is not available for these dates (booked %s - %s)",
				b.StartDate.Format(time.RFC3339),
				b.EndDate.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// acquireHangarLock creates the per-hangar advisory lock. Contention maps to
// a conflict so clients retry instead of double-booking.
func (s *bookingService) acquireHangarLock(ctx context.Context, hangarID string) (string, error) {
	lockID := fmt.Sprintf("hangar_lock_%s", hangarID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This hangar is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseHangarLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.events == nil {
		return
	}

	err := s.events.Publish(ctx, kafka.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		HangarID:      booking.HangarID,
		CustomerID:    booking.CustomerID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		StartDate:     booking.StartDate,
		EndDate:       booking.EndDate,
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func eventTypeFor(status string) string {
	switch status {
	case model.BookingConfirmed:
		return kafka.EventBookingConfirmed
	case model.BookingCancelled:
		return kafka.EventBookingCancelled
	case model.BookingCompleted:
		return kafka.EventBookingCompleted
	default:
		return kafka.EventBookingCreated
	}
}
