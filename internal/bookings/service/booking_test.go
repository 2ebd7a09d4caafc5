package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "hangarhub/internal/bookings/errors"
	"hangarhub/internal/bookings/validator"
	hangarserrors "hangarhub/internal/hangars/errors"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	"hangarhub/pkg/kafka"
	"hangarhub/pkg/logger"
	"hangarhub/pkg/model"
	mongotx "hangarhub/pkg/db/mongo"
)

const (
	testHangarID   = "507f1f77bcf86cd799439011"
	testBookingID  = "507f1f77bcf86cd799439012"
	testCustomerID = "507f1f77bcf86cd799439013"
	testOwnerID    = "507f1f77bcf86cd799439014"
	testStrangerID = "507f1f77bcf86cd799439015"
)

type mockBookingRepo struct {
	createFn              func(ctx context.Context, booking *model.Booking) error
	findByIDFn            func(ctx context.Context, id string) (*model.Booking, error)
	findByCustomerFn      func(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error)
	countByCustomerFn     func(ctx context.Context, customerID string) (int64, error)
	findByHangarsFn       func(ctx context.Context, hangarIDs []string, limit int, offset int64) ([]*model.Booking, error)
	countByHangarsFn      func(ctx context.Context, hangarIDs []string) (int64, error)
	findOverlappingFn     func(ctx context.Context, hangarID string, rng model.DateRange, excludeID string) ([]*model.Booking, error)
	countActiveByHangarFn func(ctx context.Context, hangarID string) (int64, error)
	updateStatusFn        func(ctx context.Context, id, fromStatus, toStatus string) error
	updatePaymentFn       func(ctx context.Context, id, paymentStatus string) error
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	return m.createFn(ctx, booking)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockBookingRepo) FindByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error) {
	return m.findByCustomerFn(ctx, customerID, limit, offset)
}

func (m *mockBookingRepo) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	return m.countByCustomerFn(ctx, customerID)
}

func (m *mockBookingRepo) FindByHangars(ctx context.Context, hangarIDs []string, limit int, offset int64) ([]*model.Booking, error) {
	return m.findByHangarsFn(ctx, hangarIDs, limit, offset)
}

func (m *mockBookingRepo) CountByHangars(ctx context.Context, hangarIDs []string) (int64, error) {
	return m.countByHangarsFn(ctx, hangarIDs)
}

func (m *mockBookingRepo) FindOverlapping(ctx context.Context, hangarID string, rng model.DateRange, excludeID string) ([]*model.Booking, error) {
	return m.findOverlappingFn(ctx, hangarID, rng, excludeID)
}

func (m *mockBookingRepo) CountActiveByHangar(ctx context.Context, hangarID string) (int64, error) {
	return m.countActiveByHangarFn(ctx, hangarID)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	return m.updateStatusFn(ctx, id, fromStatus, toStatus)
}

func (m *mockBookingRepo) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error {
	return m.updatePaymentFn(ctx, id, paymentStatus)
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepo struct {
	createFn func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	deleteFn func(ctx context.Context, lockID string) error
}

func (m *mockLockRepo) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFn != nil {
		return m.createFn(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepo) Delete(ctx context.Context, lockID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, lockID)
	}
	return nil
}

type mockHangarReader struct {
	findByIDFn       func(ctx context.Context, id string) (*model.Hangar, error)
	findIDsByOwnerFn func(ctx context.Context, ownerID string) ([]string, error)
}

func (m *mockHangarReader) FindByID(ctx context.Context, id string) (*model.Hangar, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockHangarReader) FindIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return m.findIDsByOwnerFn(ctx, ownerID)
}

type mockEventSink struct {
	events []kafka.BookingEvent
}

func (m *mockEventSink) Publish(_ context.Context, event kafka.BookingEvent) error {
	m.events = append(m.events, event)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log:            logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
		BookingLockTTL: 10 * time.Second,
	}
}

func testHangar() *model.Hangar {
	return &model.Hangar{
		ID:          testHangarID,
		OwnerID:     testOwnerID,
		PricePerDay: 100,
		Status:      model.HangarAvailable,
	}
}

func defaultHangarReader() *mockHangarReader {
	return &mockHangarReader{
		findByIDFn: func(_ context.Context, id string) (*model.Hangar, error) {
			if id == testHangarID {
				return testHangar(), nil
			}
			return nil, hangarserrors.ErrNotFound
		},
	}
}

func testAircraft() model.Aircraft {
	return model.Aircraft{
		Type:               "Cessna 172",
		RegistrationNumber: "N12345",
		Size:               "small",
	}
}

func newTestService(repo *mockBookingRepo, locks *mockLockRepo, hangars *mockHangarReader, events EventSink) BookingService {
	if locks == nil {
		locks = &mockLockRepo{}
	}
	if hangars == nil {
		hangars = defaultHangarReader()
	}
	return NewBookingService(repo, locks, hangars, validator.NewBookingValidator(), events, testConfig())
}

func assertAppError(t *testing.T, err error, code string, status int) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.IsAppError(err), "expected AppError, got %v", err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.HTTPStatus)
	return appErr
}

func TestCreateBooking_Success(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	repo := &mockBookingRepo{
		findOverlappingFn: func(_ context.Context, hangarID string, _ model.DateRange, _ string) ([]*model.Booking, error) {
			assert.Equal(t, testHangarID, hangarID)
			return nil, nil
		},
		createFn: func(_ context.Context, booking *model.Booking) error {
			booking.ID = testBookingID
			return nil
		},
	}
	events := &mockEventSink{}
	svc := newTestService(repo, nil, nil, events)

	booking, err := svc.Create(context.Background(), testCustomerID, &model.BookingRequest{
		HangarID:  testHangarID,
		StartDate: start,
		EndDate:   end,
		Aircraft:  testAircraft(),
	})

	require.NoError(t, err)
	assert.Equal(t, testBookingID, booking.ID)
	assert.Equal(t, model.BookingPending, booking.Status)
	assert.Equal(t, model.PaymentPending, booking.PaymentStatus)
	assert.Equal(t, 200.0, booking.TotalPrice)

	require.Len(t, events.events, 1)
	assert.Equal(t, kafka.EventBookingCreated, events.events[0].Type)
	assert.Equal(t, testHangarID, events.events[0].HangarID)
}

func TestCreateBooking_PartialDayRoundsUp(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(36 * time.Hour)

	repo := &mockBookingRepo{
		findOverlappingFn: func(_ context.Context, _ string, _ model.DateRange, _ string) ([]*model.Booking, error) {
			return nil, nil
		},
		createFn: func(_ context.Context, booking *model.Booking) error {
			booking.ID = testBookingID
			return nil
		},
	}
	svc := newTestService(repo, nil, nil, nil)

	booking, err := svc.Create(context.Background(), testCustomerID, &model.BookingRequest{
		HangarID:  testHangarID,
		StartDate: start,
		EndDate:   end,
		Aircraft:  testAircraft(),
	})

	require.NoError(t, err)
	assert.Equal(t, 200.0, booking.TotalPrice, "1.5 days bills as 2")
}

func TestCreateBooking_OverlapConflict(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)

	existing := &model.Booking{
		ID:        "507f1f77bcf86cd799439099",
		HangarID:  testHangarID,
		StartDate: start.AddDate(0, 0, 2),
		EndDate:   start.AddDate(0, 0, 7),
		Status:    model.BookingConfirmed,
	}
	repo := &mockBookingRepo{
		findOverlappingFn: func(_ context.Context, _ string, _ model.DateRange, _ string) ([]*model.Booking, error) {
			return []*model.Booking{existing}, nil
		},
		createFn: func(_ context.Context, _ *model.Booking) error {
			t.Fatal("create must not run when the range conflicts")
			return nil
		},
	}
	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), testCustomerID, &model.BookingRequest{
		HangarID:  testHangarID,
		StartDate: start,
		EndDate:   end,
		Aircraft:  testAircraft(),
	})

	assertAppError(t, err, apperrors.CodeConflict, 409)
}

func TestCreateBooking_AdjacentRangesDoNotConflict(t *testing.T) {
	start := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	// Ends exactly when the new range starts: half-open intervals do not touch.
	adjacent := &model.Booking{
		ID:        "507f1f77bcf86cd799439099",
		HangarID:  testHangarID,
		StartDate: start.AddDate(0, 0, -3),
		EndDate:   start,
		Status:    model.BookingConfirmed,
	}
	repo := &mockBookingRepo{
		findOverlappingFn: func(_ context.Context, _ string, _ model.DateRange, _ string) ([]*model.Booking, error) {
			return []*model.Booking{adjacent}, nil
		},
		createFn: func(_ context.Context, booking *model.Booking) error {
			booking.ID = testBookingID
			return nil
		},
	}
	svc := newTestService(repo, nil, nil, nil)

	booking, err := svc.Create(context.Background(), testCustomerID, &model.BookingRequest{
		HangarID:  testHangarID,
		StartDate: start,
		EndDate:   end,
		Aircraft:  testAircraft(),
	})

	require.NoError(t, err)
	assert.Equal(t, testBookingID, booking.ID)
}

func TestCreateBooking_InvalidDateRange(t *testing.T) {
	start := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	svc := newTestService(&mockBookingRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), testCustomerID, &model.BookingRequest{
		HangarID:  testHangarID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, -1),
		Aircraft:  testAircraft(),
	})

	assertAppError(t, err, apperrors.CodeValidation, 400)
}

func TestCreateBooking_HangarNotFound(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	svc := newTestService(&mockBookingRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), testCustomerID, &model.BookingRequest{
		HangarID:  "507f1f77bcf86cd799439088",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
		Aircraft:  testAircraft(),
	})

	assertAppError(t, err, apperrors.CodeNotFound, 404)
}

func TestCreateBooking_LockContention(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	locks := &mockLockRepo{
		createFn: func(_ context.Context, _ *model.BookingLock) (*model.BookingLock, error) {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
	}
	svc := newTestService(&mockBookingRepo{}, locks, nil, nil)

	_, err := svc.Create(context.Background(), testCustomerID, &model.BookingRequest{
		HangarID:  testHangarID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
		Aircraft:  testAircraft(),
	})

	assertAppError(t, err, apperrors.CodeConflict, 409)
}

func TestCreateBooking_LockReleasedAfterFailure(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	released := ""
	locks := &mockLockRepo{
		deleteFn: func(_ context.Context, lockID string) error {
			released = lockID
			return nil
		},
	}
	repo := &mockBookingRepo{
		findOverlappingFn: func(_ context.Context, _ string, _ model.DateRange, _ string) ([]*model.Booking, error) {
			return []*model.Booking{{
				StartDate: start,
				EndDate:   start.AddDate(0, 0, 2),
			}}, nil
		},
	}
	svc := newTestService(repo, locks, nil, nil)

	_, err := svc.Create(context.Background(), testCustomerID, &model.BookingRequest{
		HangarID:  testHangarID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
		Aircraft:  testAircraft(),
	})

	require.Error(t, err)
	assert.Equal(t, "hangar_lock_"+testHangarID, released)
}

func transitionRepo(status, paymentStatus string) *mockBookingRepo {
	return &mockBookingRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Booking, error) {
			if id != testBookingID {
				return nil, bookingserrors.ErrNotFound
			}
			return &model.Booking{
				ID:            testBookingID,
				HangarID:      testHangarID,
				CustomerID:    testCustomerID,
				StartDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				EndDate:       time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
				Status:        status,
				PaymentStatus: paymentStatus,
			}, nil
		},
		updateStatusFn: func(_ context.Context, _, _, _ string) error {
			return nil
		},
		updatePaymentFn: func(_ context.Context, _, _ string) error {
			return nil
		},
	}
}

func TestConfirm_OwnerFromPending(t *testing.T) {
	events := &mockEventSink{}
	svc := newTestService(transitionRepo(model.BookingPending, model.PaymentPending), nil, nil, events)

	booking, err := svc.Confirm(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testBookingID)

	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, booking.Status)
	require.Len(t, events.events, 1)
	assert.Equal(t, kafka.EventBookingConfirmed, events.events[0].Type)
}

func TestConfirm_CustomerForbidden(t *testing.T) {
	svc := newTestService(transitionRepo(model.BookingPending, model.PaymentPending), nil, nil, nil)

	_, err := svc.Confirm(context.Background(), Actor{ID: testCustomerID, Role: model.RoleCustomer}, testBookingID)

	assertAppError(t, err, apperrors.CodeForbidden, 403)
}

func TestConfirm_AlreadyConfirmed(t *testing.T) {
	svc := newTestService(transitionRepo(model.BookingConfirmed, model.PaymentPending), nil, nil, nil)

	_, err := svc.Confirm(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testBookingID)

	assertAppError(t, err, apperrors.CodeConflict, 409)
}

func TestCancel_CustomerWhilePending(t *testing.T) {
	svc := newTestService(transitionRepo(model.BookingPending, model.PaymentPending), nil, nil, nil)

	booking, err := svc.Cancel(context.Background(), Actor{ID: testCustomerID, Role: model.RoleCustomer}, testBookingID)

	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, booking.Status)
}

func TestCancel_CustomerAfterConfirmation(t *testing.T) {
	svc := newTestService(transitionRepo(model.BookingConfirmed, model.PaymentPending), nil, nil, nil)

	_, err := svc.Cancel(context.Background(), Actor{ID: testCustomerID, Role: model.RoleCustomer}, testBookingID)

	assertAppError(t, err, apperrors.CodeConflict, 409)
}

func TestCancel_OwnerWhileConfirmed(t *testing.T) {
	svc := newTestService(transitionRepo(model.BookingConfirmed, model.PaymentPending), nil, nil, nil)

	booking, err := svc.Cancel(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testBookingID)

	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, booking.Status)
}

func TestCancel_TerminalStates(t *testing.T) {
	for _, status := range []string{model.BookingCompleted, model.BookingCancelled} {
		t.Run(status, func(t *testing.T) {
			svc := newTestService(transitionRepo(status, model.PaymentPending), nil, nil, nil)

			_, err := svc.Cancel(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testBookingID)

			assertAppError(t, err, apperrors.CodeConflict, 409)
		})
	}
}

func TestCancel_StrangerForbidden(t *testing.T) {
	svc := newTestService(transitionRepo(model.BookingPending, model.PaymentPending), nil, nil, nil)

	_, err := svc.Cancel(context.Background(), Actor{ID: testStrangerID, Role: model.RoleCustomer}, testBookingID)

	assertAppError(t, err, apperrors.CodeForbidden, 403)
}

func TestComplete_OwnerFromConfirmed(t *testing.T) {
	events := &mockEventSink{}
	svc := newTestService(transitionRepo(model.BookingConfirmed, model.PaymentPaid), nil, nil, events)

	booking, err := svc.Complete(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testBookingID)

	require.NoError(t, err)
	assert.Equal(t, model.BookingCompleted, booking.Status)
	require.Len(t, events.events, 1)
	assert.Equal(t, kafka.EventBookingCompleted, events.events[0].Type)
}

func TestComplete_FromPending(t *testing.T) {
	svc := newTestService(transitionRepo(model.BookingPending, model.PaymentPending), nil, nil, nil)

	_, err := svc.Complete(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testBookingID)

	assertAppError(t, err, apperrors.CodeConflict, 409)
}

func TestComplete_BeforeEndDateWhenGated(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Booking, error) {
			return &model.Booking{
				ID:         testBookingID,
				HangarID:   testHangarID,
				CustomerID: testCustomerID,
				StartDate:  time.Now().UTC().Add(-24 * time.Hour),
				EndDate:    time.Now().UTC().Add(48 * time.Hour),
				Status:     model.BookingConfirmed,
			}, nil
		},
	}
	cfg := testConfig()
	cfg.CompleteRequiresElapsed = true
	svc := NewBookingService(repo, &mockLockRepo{}, defaultHangarReader(), validator.NewBookingValidator(), nil, cfg)

	_, err := svc.Complete(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testBookingID)

	assertAppError(t, err, apperrors.CodeConflict, 409)
}

func TestTransition_LostRace(t *testing.T) {
	repo := transitionRepo(model.BookingPending, model.PaymentPending)
	repo.updateStatusFn = func(_ context.Context, _, _, _ string) error {
		return bookingserrors.ErrNotFound
	}
	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.Confirm(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testBookingID)

	assertAppError(t, err, apperrors.CodeConflict, 409)
}

func TestSetPaymentStatus_OwnerMarksPaid(t *testing.T) {
	events := &mockEventSink{}
	svc := newTestService(transitionRepo(model.BookingConfirmed, model.PaymentPending), nil, nil, events)

	booking, err := svc.SetPaymentStatus(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testBookingID, model.PaymentPaid)

	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, booking.PaymentStatus)
	require.Len(t, events.events, 1)
	assert.Equal(t, kafka.EventBookingPayment, events.events[0].Type)
}

func TestSetPaymentStatus_RefundRequiresPaid(t *testing.T) {
	svc := newTestService(transitionRepo(model.BookingConfirmed, model.PaymentPending), nil, nil, nil)

	_, err := svc.SetPaymentStatus(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testBookingID, model.PaymentRefunded)

	assertAppError(t, err, apperrors.CodeConflict, 409)
}

func TestSetPaymentStatus_InvalidValue(t *testing.T) {
	svc := newTestService(transitionRepo(model.BookingConfirmed, model.PaymentPending), nil, nil, nil)

	_, err := svc.SetPaymentStatus(context.Background(), Actor{ID: testOwnerID, Role: model.RoleProvider}, testBookingID, "comped")

	assertAppError(t, err, apperrors.CodeValidation, 400)
}

func TestSetPaymentStatus_CustomerForbidden(t *testing.T) {
	svc := newTestService(transitionRepo(model.BookingConfirmed, model.PaymentPending), nil, nil, nil)

	_, err := svc.SetPaymentStatus(context.Background(), Actor{ID: testCustomerID, Role: model.RoleCustomer}, testBookingID, model.PaymentPaid)

	assertAppError(t, err, apperrors.CodeForbidden, 403)
}

func TestGetByID_Scope(t *testing.T) {
	cases := []struct {
		name    string
		actor   Actor
		wantErr bool
	}{
		{"customer sees own booking", Actor{ID: testCustomerID, Role: model.RoleCustomer}, false},
		{"owner sees hangar booking", Actor{ID: testOwnerID, Role: model.RoleProvider}, false},
		{"admin sees any booking", Actor{ID: testStrangerID, Role: model.RoleAdmin}, false},
		{"stranger gets not found", Actor{ID: testStrangerID, Role: model.RoleCustomer}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(transitionRepo(model.BookingPending, model.PaymentPending), nil, nil, nil)

			booking, err := svc.GetByID(context.Background(), tc.actor, testBookingID)
			if tc.wantErr {
				assertAppError(t, err, apperrors.CodeNotFound, 404)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testBookingID, booking.ID)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Booking, error) {
			return nil, bookingserrors.ErrNotFound
		},
	}
	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.GetByID(context.Background(), Actor{ID: testCustomerID, Role: model.RoleCustomer}, "507f1f77bcf86cd799439088")

	assertAppError(t, err, apperrors.CodeNotFound, 404)
}

func TestListForCustomer(t *testing.T) {
	repo := &mockBookingRepo{
		findByCustomerFn: func(_ context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error) {
			assert.Equal(t, testCustomerID, customerID)
			assert.Equal(t, 10, limit)
			assert.Equal(t, int64(10), offset)
			return []*model.Booking{{ID: testBookingID}}, nil
		},
		countByCustomerFn: func(_ context.Context, _ string) (int64, error) {
			return 11, nil
		},
	}
	svc := newTestService(repo, nil, nil, nil)

	bookings, total, err := svc.ListForCustomer(context.Background(), testCustomerID, 10, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, bookings, 1)
}

func TestListForOwner_NoHangars(t *testing.T) {
	hangars := defaultHangarReader()
	hangars.findIDsByOwnerFn = func(_ context.Context, _ string) ([]string, error) {
		return nil, nil
	}
	svc := newTestService(&mockBookingRepo{}, nil, hangars, nil)

	bookings, total, err := svc.ListForOwner(context.Background(), testOwnerID, 10, 0)

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, bookings)
}

func TestListForOwner(t *testing.T) {
	hangars := defaultHangarReader()
	hangars.findIDsByOwnerFn = func(_ context.Context, ownerID string) ([]string, error) {
		assert.Equal(t, testOwnerID, ownerID)
		return []string{testHangarID}, nil
	}
	repo := &mockBookingRepo{
		findByHangarsFn: func(_ context.Context, hangarIDs []string, _ int, _ int64) ([]*model.Booking, error) {
			assert.Equal(t, []string{testHangarID}, hangarIDs)
			return []*model.Booking{{ID: testBookingID}}, nil
		},
		countByHangarsFn: func(_ context.Context, _ []string) (int64, error) {
			return 1, nil
		},
	}
	svc := newTestService(repo, nil, hangars, nil)

	bookings, total, err := svc.ListForOwner(context.Background(), testOwnerID, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, bookings, 1)
}

func TestHasConflict(t *testing.T) {
	repo := &mockBookingRepo{
		findOverlappingFn: func(_ context.Context, _ string, _ model.DateRange, _ string) ([]*model.Booking, error) {
			return []*model.Booking{{ID: testBookingID}}, nil
		},
	}
	svc := newTestService(repo, nil, nil, nil)

	conflict, err := svc.HasConflict(context.Background(), testHangarID, model.DateRange{
		Start: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
	}, "")

	require.NoError(t, err)
	assert.True(t, conflict)
}
