package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	bookingserrors "hangarhub/internal/bookings/errors"
	hangarserrors "hangarhub/internal/hangars/errors"
	reviewserrors "hangarhub/internal/reviews/errors"
	"hangarhub/internal/reviews/validator"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	"hangarhub/pkg/logger"
	"hangarhub/pkg/model"
)

const (
	testReviewID   = "507f1f77bcf86cd799439021"
	testBookingID  = "507f1f77bcf86cd799439012"
	testHangarID   = "507f1f77bcf86cd799439011"
	testCustomerID = "507f1f77bcf86cd799439013"
	testOwnerID    = "507f1f77bcf86cd799439014"
	testStrangerID = "507f1f77bcf86cd799439015"
)

type mockReviewRepo struct {
	createFn        func(ctx context.Context, review *model.Review) error
	findByIDFn      func(ctx context.Context, id string) (*model.Review, error)
	findByHangarFn  func(ctx context.Context, hangarID string, limit int, offset int64) ([]*model.Review, error)
	countByHangarFn func(ctx context.Context, hangarID string) (int64, error)
	findByUserFn    func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Review, error)
	countByUserFn   func(ctx context.Context, userID string) (int64, error)
	updateFn        func(ctx context.Context, id string, fields bson.M) (*model.Review, error)
	ratingSummaryFn func(ctx context.Context, hangarID string) (*model.RatingSummary, error)
}

func (m *mockReviewRepo) Create(ctx context.Context, review *model.Review) error {
	return m.createFn(ctx, review)
}

func (m *mockReviewRepo) FindByID(ctx context.Context, id string) (*model.Review, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockReviewRepo) FindByHangar(ctx context.Context, hangarID string, limit int, offset int64) ([]*model.Review, error) {
	if m.findByHangarFn != nil {
		return m.findByHangarFn(ctx, hangarID, limit, offset)
	}
	return nil, nil
}

func (m *mockReviewRepo) CountByHangar(ctx context.Context, hangarID string) (int64, error) {
	if m.countByHangarFn != nil {
		return m.countByHangarFn(ctx, hangarID)
	}
	return 0, nil
}

func (m *mockReviewRepo) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Review, error) {
	if m.findByUserFn != nil {
		return m.findByUserFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *mockReviewRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	if m.countByUserFn != nil {
		return m.countByUserFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockReviewRepo) Update(ctx context.Context, id string, fields bson.M) (*model.Review, error) {
	return m.updateFn(ctx, id, fields)
}

func (m *mockReviewRepo) RatingSummary(ctx context.Context, hangarID string) (*model.RatingSummary, error) {
	if m.ratingSummaryFn != nil {
		return m.ratingSummaryFn(ctx, hangarID)
	}
	return &model.RatingSummary{}, nil
}

type mockBookingReader struct {
	findByIDFn func(ctx context.Context, id string) (*model.Booking, error)
}

func (m *mockBookingReader) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.findByIDFn(ctx, id)
}

type mockHangarReader struct {
	findByIDFn func(ctx context.Context, id string) (*model.Hangar, error)
}

func (m *mockHangarReader) FindByID(ctx context.Context, id string) (*model.Hangar, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, hangarserrors.ErrNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
}

func completedBookingReader() *mockBookingReader {
	return bookingReaderWithStatus(model.BookingCompleted)
}

func bookingReaderWithStatus(status string) *mockBookingReader {
	return &mockBookingReader{
		findByIDFn: func(_ context.Context, id string) (*model.Booking, error) {
			if id != testBookingID {
				return nil, bookingserrors.ErrNotFound
			}
			return &model.Booking{
				ID:         testBookingID,
				HangarID:   testHangarID,
				CustomerID: testCustomerID,
				Status:     status,
			}, nil
		},
	}
}

func ownerHangarReader() *mockHangarReader {
	return &mockHangarReader{
		findByIDFn: func(_ context.Context, id string) (*model.Hangar, error) {
			return &model.Hangar{ID: id, OwnerID: testOwnerID}, nil
		},
	}
}

func newTestService(repo *mockReviewRepo, bookings *mockBookingReader, hangars *mockHangarReader) ReviewService {
	if bookings == nil {
		bookings = completedBookingReader()
	}
	if hangars == nil {
		hangars = ownerHangarReader()
	}
	return NewReviewService(repo, bookings, hangars, validator.NewReviewValidator(), testConfig())
}

func assertAppError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.IsAppError(err), "expected AppError, got %v", err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.HTTPStatus)
}

func validRequest() *model.ReviewRequest {
	return &model.ReviewRequest{
		BookingID: testBookingID,
		Rating:    4,
		Comment:   "Clean hangar, easy access",
	}
}

func TestSubmit_Success(t *testing.T) {
	repo := &mockReviewRepo{
		createFn: func(_ context.Context, review *model.Review) error {
			review.ID = testReviewID
			return nil
		},
	}
	svc := newTestService(repo, nil, nil)

	review, err := svc.Submit(context.Background(), testCustomerID, validRequest())

	require.NoError(t, err)
	assert.Equal(t, testReviewID, review.ID)
	assert.Equal(t, testHangarID, review.HangarID, "hangar reference copied from the booking")
	assert.Equal(t, model.ReviewActive, review.Status)
}

// A booking that is not the caller's own completed booking must read as
// missing, never as forbidden or conflicted, so submitters cannot learn
// about other customers' bookings.
func TestSubmit_BookingNotCompleted(t *testing.T) {
	for _, status := range []string{model.BookingPending, model.BookingConfirmed, model.BookingCancelled} {
		t.Run(status, func(t *testing.T) {
			svc := newTestService(&mockReviewRepo{}, bookingReaderWithStatus(status), nil)

			_, err := svc.Submit(context.Background(), testCustomerID, validRequest())

			assertAppError(t, err, apperrors.CodeNotFound, 404)
		})
	}
}

func TestSubmit_NotBookingCustomer(t *testing.T) {
	svc := newTestService(&mockReviewRepo{}, nil, nil)

	_, err := svc.Submit(context.Background(), testStrangerID, validRequest())

	assertAppError(t, err, apperrors.CodeNotFound, 404)
}

func TestSubmit_BookingNotFound(t *testing.T) {
	svc := newTestService(&mockReviewRepo{}, nil, nil)

	req := validRequest()
	req.BookingID = "507f1f77bcf86cd799439088"
	_, err := svc.Submit(context.Background(), testCustomerID, req)

	assertAppError(t, err, apperrors.CodeNotFound, 404)
}

func TestSubmit_Duplicate(t *testing.T) {
	repo := &mockReviewRepo{
		createFn: func(_ context.Context, _ *model.Review) error {
			return reviewserrors.ErrDuplicate
		},
	}
	svc := newTestService(repo, nil, nil)

	_, err := svc.Submit(context.Background(), testCustomerID, validRequest())

	assertAppError(t, err, apperrors.CodeConflict, 409)
}

func TestSubmit_RatingOutOfRange(t *testing.T) {
	svc := newTestService(&mockReviewRepo{}, nil, nil)

	req := validRequest()
	req.Rating = 6
	_, err := svc.Submit(context.Background(), testCustomerID, req)

	assertAppError(t, err, apperrors.CodeValidation, 400)
}

func storedReview(status string) *model.Review {
	return &model.Review{
		ID:        testReviewID,
		UserID:    testCustomerID,
		HangarID:  testHangarID,
		BookingID: testBookingID,
		Rating:    4,
		Comment:   "Clean hangar, easy access",
		Status:    status,
	}
}

func findRepo(status string) *mockReviewRepo {
	return &mockReviewRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Review, error) {
			if id != testReviewID {
				return nil, reviewserrors.ErrNotFound
			}
			return storedReview(status), nil
		},
		updateFn: func(_ context.Context, id string, fields bson.M) (*model.Review, error) {
			review := storedReview(status)
			if s, ok := fields["status"].(string); ok {
				review.Status = s
			}
			if resp, ok := fields["response"].(*model.ReviewResponse); ok {
				review.Response = resp
			}
			if rating, ok := fields["rating"].(int); ok {
				review.Rating = rating
			}
			return review, nil
		},
	}
}

func TestUpdate_ReviewerOnly(t *testing.T) {
	svc := newTestService(findRepo(model.ReviewActive), nil, nil)

	_, err := svc.Update(context.Background(), Actor{ID: testStrangerID, Role: model.RoleCustomer}, testReviewID, &model.ReviewUpdate{Rating: 5})

	assertAppError(t, err, apperrors.CodeForbidden, 403)
}

func TestUpdate_Success(t *testing.T) {
	svc := newTestService(findRepo(model.ReviewActive), nil, nil)

	review, err := svc.Update(context.Background(), Actor{ID: testCustomerID, Role: model.RoleCustomer}, testReviewID, &model.ReviewUpdate{Rating: 5})

	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
}

func TestUpdate_EmptyUpdate(t *testing.T) {
	svc := newTestService(findRepo(model.ReviewActive), nil, nil)

	_, err := svc.Update(context.Background(), Actor{ID: testCustomerID, Role: model.RoleCustomer}, testReviewID, &model.ReviewUpdate{})

	assertAppError(t, err, apperrors.CodeValidation, 400)
}

func TestRespond_OwnerOverwrites(t *testing.T) {
	repo := findRepo(model.ReviewActive)
	var savedResponse *model.ReviewResponse
	repo.updateFn = func(_ context.Context, _ string, fields bson.M) (*model.Review, error) {
		savedResponse = fields["response"].(*model.ReviewResponse)
		review := storedReview(model.ReviewActive)
		review.Response = savedResponse
		return review, nil
	}
	svc := newTestService(repo, nil, nil)

	review, err := svc.Respond(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testReviewID, "Thanks for the feedback")

	require.NoError(t, err)
	require.NotNil(t, review.Response)
	assert.Equal(t, "Thanks for the feedback", review.Response.Comment)
	assert.WithinDuration(t, time.Now(), savedResponse.Date, time.Minute)
}

func TestRespond_NonOwnerForbidden(t *testing.T) {
	svc := newTestService(findRepo(model.ReviewActive), nil, nil)

	_, err := svc.Respond(context.Background(), Actor{ID: testStrangerID, Role: model.RoleProvider}, testReviewID, "Thanks")

	assertAppError(t, err, apperrors.CodeForbidden, 403)
}

func TestRespond_NonActiveReviewNotFound(t *testing.T) {
	for _, status := range []string{model.ReviewReported, model.ReviewHidden} {
		t.Run(status, func(t *testing.T) {
			repo := findRepo(status)
			repo.updateFn = func(_ context.Context, _ string, _ bson.M) (*model.Review, error) {
				t.Fatal("responding to a non-active review must not write")
				return nil, nil
			}
			svc := newTestService(repo, nil, nil)

			_, err := svc.Respond(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testReviewID, "Thanks")

			assertAppError(t, err, apperrors.CodeNotFound, 404)
		})
	}
}

func TestRespond_EmptyComment(t *testing.T) {
	svc := newTestService(findRepo(model.ReviewActive), nil, nil)

	_, err := svc.Respond(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testReviewID, "")

	assertAppError(t, err, apperrors.CodeValidation, 400)
}

func TestReport_SetsStatus(t *testing.T) {
	svc := newTestService(findRepo(model.ReviewActive), nil, nil)

	review, err := svc.Report(context.Background(), Actor{ID: testStrangerID, Role: model.RoleCustomer}, testReviewID)

	require.NoError(t, err)
	assert.Equal(t, model.ReviewReported, review.Status)
}

func TestReport_Idempotent(t *testing.T) {
	repo := findRepo(model.ReviewReported)
	repo.updateFn = func(_ context.Context, _ string, _ bson.M) (*model.Review, error) {
		t.Fatal("reporting an already reported review must not write")
		return nil, nil
	}
	svc := newTestService(repo, nil, nil)

	review, err := svc.Report(context.Background(), Actor{ID: testStrangerID, Role: model.RoleCustomer}, testReviewID)

	require.NoError(t, err)
	assert.Equal(t, model.ReviewReported, review.Status)
}

func TestHide_AdminAllowed(t *testing.T) {
	svc := newTestService(findRepo(model.ReviewActive), nil, nil)

	review, err := svc.Hide(context.Background(), Actor{ID: testStrangerID, Role: model.RoleAdmin}, testReviewID)

	require.NoError(t, err)
	assert.Equal(t, model.ReviewHidden, review.Status)
}

func TestHide_StrangerForbidden(t *testing.T) {
	svc := newTestService(findRepo(model.ReviewActive), nil, nil)

	_, err := svc.Hide(context.Background(), Actor{ID: testStrangerID, Role: model.RoleCustomer}, testReviewID)

	assertAppError(t, err, apperrors.CodeForbidden, 403)
}

func TestListByHangar_IncludesSummary(t *testing.T) {
	repo := &mockReviewRepo{
		findByHangarFn: func(_ context.Context, hangarID string, _ int, _ int64) ([]*model.Review, error) {
			assert.Equal(t, testHangarID, hangarID)
			return []*model.Review{storedReview(model.ReviewActive)}, nil
		},
		countByHangarFn: func(_ context.Context, _ string) (int64, error) {
			return 1, nil
		},
		ratingSummaryFn: func(_ context.Context, _ string) (*model.RatingSummary, error) {
			return &model.RatingSummary{Average: 4.0, Count: 1}, nil
		},
	}
	svc := newTestService(repo, nil, nil)

	result, total, err := svc.ListByHangar(context.Background(), testHangarID, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, result.Reviews, 1)
	assert.Equal(t, 4.0, result.Summary.Average)
}

func TestSummary_NoReviews(t *testing.T) {
	svc := newTestService(&mockReviewRepo{}, nil, nil)

	summary, err := svc.Summary(context.Background(), testHangarID)

	require.NoError(t, err)
	assert.Zero(t, summary.Average)
	assert.Zero(t, summary.Count)
}
