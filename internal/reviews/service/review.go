package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	bookingserrors "hangarhub/internal/bookings/errors"
	hangarserrors "hangarhub/internal/hangars/errors"
	reviewserrors "hangarhub/internal/reviews/errors"
	"hangarhub/internal/reviews/repository"
	"hangarhub/internal/reviews/validator"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	"hangarhub/pkg/model"
)

// Actor is the authenticated caller as seen by the service layer.
type Actor struct {
	ID   string
	Role string
}

// BookingReader resolves the booking a review is gated on.
type BookingReader interface {
	FindByID(ctx context.Context, id string) (*model.Booking, error)
}

// HangarReader resolves hangar ownership for review responses.
type HangarReader interface {
	FindByID(ctx context.Context, id string) (*model.Hangar, error)
}

// HangarReviews is the listing plus its aggregate rating, returned together
// so clients render both from one request.
type HangarReviews struct {
	Reviews []*model.Review      `json:"reviews"`
	Summary *model.RatingSummary `json:"summary"`
}

type ReviewService interface {
	Submit(ctx context.Context, userID string, req *model.ReviewRequest) (*model.Review, error)
	GetByID(ctx context.Context, id string) (*model.Review, error)
	ListByHangar(ctx context.Context, hangarID string, limit int, offset int64) (*HangarReviews, int64, error)
	ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Review, int64, error)
	Summary(ctx context.Context, hangarID string) (*model.RatingSummary, error)
	Update(ctx context.Context, actor Actor, id string, update *model.ReviewUpdate) (*model.Review, error)
	Respond(ctx context.Context, actor Actor, id, comment string) (*model.Review, error)
	Report(ctx context.Context, actor Actor, id string) (*model.Review, error)
	Hide(ctx context.Context, actor Actor, id string) (*model.Review, error)
}

type reviewService struct {
	repo      repository.ReviewRepository
	bookings  BookingReader
	hangars   HangarReader
	validator *validator.ReviewValidator
	cfg       *config.Config
}

func NewReviewService(
	repo repository.ReviewRepository,
	bookings BookingReader,
	hangars HangarReader,
	reviewValidator *validator.ReviewValidator,
	cfg *config.Config,
) ReviewService {
	return &reviewService{
		repo:      repo,
		bookings:  bookings,
		hangars:   hangars,
		validator: reviewValidator,
		cfg:       cfg,
	}
}

// Submit creates a review for a completed booking. The reviewer must be the
// booking's customer, and the hangar reference is copied from the booking
// rather than taken from the request. Uniqueness per (user, booking) is
// enforced by the store's index, so a duplicate submit maps to a conflict.
func (s *reviewService) Submit(ctx context.Context, userID string, req *model.ReviewRequest) (*model.Review, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Review validation failed", "error", err)
		return nil, apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}

	booking, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", req.BookingID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	// A booking that is not the caller's own completed booking reads as
	// missing, so submitters cannot probe other customers' bookings.
	if booking.CustomerID != userID || booking.Status != model.BookingCompleted {
		return nil, apperrors.NotFoundWithID("Booking", req.BookingID)
	}

	review := &model.Review{
		UserID:    userID,
		HangarID:  booking.HangarID,
		BookingID: booking.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Status:    model.ReviewActive,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, reviewserrors.ErrDuplicate) {
			return nil, apperrors.Conflict("This booking has already been reviewed")
		}
		s.cfg.Log.Error("Failed to create review", "booking_id", booking.ID, "error", err)
		return nil, apperrors.Internal("Failed to create review", err)
	}

	s.cfg.Log.Info("Review submitted",
		"id", review.ID,
		"hangar_id", review.HangarID,
		"booking_id", review.BookingID,
		"rating", review.Rating,
	)
	return review, nil
}

func (s *reviewService) GetByID(ctx context.Context, id string) (*model.Review, error) {
	return s.findReview(ctx, id)
}

func (s *reviewService) ListByHangar(ctx context.Context, hangarID string, limit int, offset int64) (*HangarReviews, int64, error) {
	if hangarID == "" {
		return nil, 0, apperrors.InvalidInput("Hangar ID cannot be empty")
	}

	var count int64
	var reviews []*model.Review
	var summary *model.RatingSummary
	var errCount, errFind, errSummary error
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByHangar(ctx, hangarID)
	}()

	go func() {
		defer wg.Done()
		reviews, errFind = s.repo.FindByHangar(ctx, hangarID, limit, offset)
	}()

	go func() {
		defer wg.Done()
		summary, errSummary = s.repo.RatingSummary(ctx, hangarID)
	}()

	wg.Wait()
	for _, err := range []error{errCount, errFind, errSummary} {
		if err != nil {
			s.cfg.Log.Error("Failed to list hangar reviews", "hangar_id", hangarID, "error", err)
			return nil, 0, apperrors.Internal("Failed to retrieve reviews", err)
		}
	}

	if reviews == nil {
		reviews = []*model.Review{}
	}
	return &HangarReviews{Reviews: reviews, Summary: summary}, count, nil
}

func (s *reviewService) ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Review, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var count int64
	var reviews []*model.Review
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
	}()

	go func() {
		defer wg.Done()
		reviews, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, apperrors.Internal("Failed to count reviews", errCount)
	}
	if errFind != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve reviews", errFind)
	}

	return reviews, count, nil
}

func (s *reviewService) Summary(ctx context.Context, hangarID string) (*model.RatingSummary, error) {
	if hangarID == "" {
		return nil, apperrors.InvalidInput("Hangar ID cannot be empty")
	}

	summary, err := s.repo.RatingSummary(ctx, hangarID)
	if err != nil {
		return nil, apperrors.Internal("Failed to aggregate ratings", err)
	}
	return summary, nil
}

func (s *reviewService) Update(ctx context.Context, actor Actor, id string, update *model.ReviewUpdate) (*model.Review, error) {
	review, err := s.findReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != review.UserID {
		return nil, apperrors.Forbidden("Only the reviewer can edit this review")
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}

	fields := bson.M{}
	if update.Rating != 0 {
		fields["rating"] = update.Rating
	}
	if update.Comment != "" {
		fields["comment"] = update.Comment
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Review", id)
		}
		return nil, apperrors.Internal("Failed to update review", err)
	}

	return updated, nil
}

// Respond sets the owner's reply. Responding again overwrites the previous
// reply: the response is a single slot, not a thread.
func (s *reviewService) Respond(ctx context.Context, actor Actor, id, comment string) (*model.Review, error) {
	if comment == "" || len(comment) > 500 {
		return nil, apperrors.Validation("Response comment must be 1-500 characters", nil)
	}

	review, err := s.findReview(ctx, id)
	if err != nil {
		return nil, err
	}
	// Reported and hidden reviews are out of the owner's reach until
	// moderation restores them.
	if review.Status != model.ReviewActive {
		return nil, apperrors.NotFoundWithID("Review", id)
	}

	hangar, err := s.hangars.FindByID(ctx, review.HangarID)
	if err != nil {
		if errors.Is(err, hangarserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Hangar", review.HangarID)
		}
		return nil, apperrors.Internal("Failed to retrieve hangar", err)
	}
	if actor.ID != hangar.OwnerID {
		return nil, apperrors.Forbidden("Only the hangar owner can respond to reviews")
	}

	updated, err := s.repo.Update(ctx, id, bson.M{
		"response": &model.ReviewResponse{
			Comment: comment,
			Date:    time.Now().UTC().Truncate(time.Millisecond),
		},
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to save response", err)
	}

	s.cfg.Log.Info("Review response saved", "id", id, "owner_id", actor.ID)
	return updated, nil
}

// Report flags a review for moderation. Reporting an already reported review
// is a no-op success.
func (s *reviewService) Report(ctx context.Context, actor Actor, id string) (*model.Review, error) {
	review, err := s.findReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.Status == model.ReviewReported {
		return review, nil
	}
	if review.Status == model.ReviewHidden {
		return nil, apperrors.Conflict("Hidden reviews cannot be reported")
	}

	updated, err := s.repo.Update(ctx, id, bson.M{"status": model.ReviewReported})
	if err != nil {
		return nil, apperrors.Internal("Failed to report review", err)
	}

	s.cfg.Log.Info("Review reported", "id", id, "reporter_id", actor.ID)
	return updated, nil
}

// Hide takes a review out of listings and rating aggregates. Reviewer or
// admin only; used instead of hard deletion so moderation can be audited.
func (s *reviewService) Hide(ctx context.Context, actor Actor, id string) (*model.Review, error) {
	review, err := s.findReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != review.UserID && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("Only the reviewer or an admin can hide this review")
	}
	if review.Status == model.ReviewHidden {
		return review, nil
	}

	updated, err := s.repo.Update(ctx, id, bson.M{"status": model.ReviewHidden})
	if err != nil {
		return nil, apperrors.Internal("Failed to hide review", err)
	}

	s.cfg.Log.Info("Review hidden", "id", id, "actor_id", actor.ID)
	return updated, nil
}

func (s *reviewService) findReview(ctx context.Context, id string) (*model.Review, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Review ID cannot be empty")
	}

	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Review", id)
		}
		if errors.Is(err, reviewserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid review ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve review", err)
	}
	return review, nil
}
