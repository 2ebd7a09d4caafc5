package service

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"hangarhub/internal/dashboard/cache"
	"hangarhub/pkg/config"
	"hangarhub/pkg/logger"
	"hangarhub/pkg/model"
)

const (
	testCustomerID = "507f1f77bcf86cd799439013"
	testOwnerID    = "507f1f77bcf86cd799439014"
	testHangarID   = "507f1f77bcf86cd799439011"
)

type mockMetricsRepo struct {
	statusCountsFn     func(ctx context.Context, filter bson.M) (map[string]int64, error)
	revenueFn          func(ctx context.Context, filter bson.M) (*model.RevenueSummary, error)
	recentBookingsFn   func(ctx context.Context, filter bson.M, limit int64) ([]*model.Booking, error)
	countHangarsFn     func(ctx context.Context, filter bson.M) (int64, error)
	hangarIDsByOwnerFn func(ctx context.Context, ownerID string) ([]string, error)
	userRoleCountsFn   func(ctx context.Context) (map[string]int64, error)
	ratingFn           func(ctx context.Context, hangarIDs []string) (*model.RatingSummary, error)
}

func (m *mockMetricsRepo) BookingStatusCounts(ctx context.Context, filter bson.M) (map[string]int64, error) {
	if m.statusCountsFn != nil {
		return m.statusCountsFn(ctx, filter)
	}
	return map[string]int64{}, nil
}

func (m *mockMetricsRepo) Revenue(ctx context.Context, filter bson.M) (*model.RevenueSummary, error) {
	if m.revenueFn != nil {
		return m.revenueFn(ctx, filter)
	}
	return &model.RevenueSummary{}, nil
}

func (m *mockMetricsRepo) RecentBookings(ctx context.Context, filter bson.M, limit int64) ([]*model.Booking, error) {
	if m.recentBookingsFn != nil {
		return m.recentBookingsFn(ctx, filter, limit)
	}
	return nil, nil
}

func (m *mockMetricsRepo) CountHangars(ctx context.Context, filter bson.M) (int64, error) {
	if m.countHangarsFn != nil {
		return m.countHangarsFn(ctx, filter)
	}
	return 0, nil
}

func (m *mockMetricsRepo) HangarIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	if m.hangarIDsByOwnerFn != nil {
		return m.hangarIDsByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockMetricsRepo) UserRoleCounts(ctx context.Context) (map[string]int64, error) {
	if m.userRoleCountsFn != nil {
		return m.userRoleCountsFn(ctx)
	}
	return map[string]int64{}, nil
}

func (m *mockMetricsRepo) RatingForHangars(ctx context.Context, hangarIDs []string) (*model.RatingSummary, error) {
	if m.ratingFn != nil {
		return m.ratingFn(ctx, hangarIDs)
	}
	return &model.RatingSummary{}, nil
}

func newTestService(repo *mockMetricsRepo) DashboardService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
	// Nil redis client: caching disabled, every call recomputes.
	return NewDashboardService(repo, cache.NewMetricsCache(nil, 0, cfg.Log), cfg)
}

func TestCustomerDashboard(t *testing.T) {
	repo := &mockMetricsRepo{
		statusCountsFn: func(_ context.Context, filter bson.M) (map[string]int64, error) {
			assert.Equal(t, testCustomerID, filter["customer_id"])
			return map[string]int64{
				model.BookingPending:   1,
				model.BookingCompleted: 3,
			}, nil
		},
		revenueFn: func(_ context.Context, _ bson.M) (*model.RevenueSummary, error) {
			return &model.RevenueSummary{Total: 900, Average: 300, Count: 3}, nil
		},
		recentBookingsFn: func(_ context.Context, _ bson.M, limit int64) ([]*model.Booking, error) {
			assert.Equal(t, int64(5), limit)
			return []*model.Booking{{ID: "507f1f77bcf86cd799439012"}}, nil
		},
	}
	svc := newTestService(repo)

	dashboard, err := svc.ForCustomer(context.Background(), testCustomerID)

	require.NoError(t, err)
	assert.Equal(t, int64(4), dashboard.TotalBookings)
	assert.Equal(t, 900.0, dashboard.TotalSpent)
	require.Len(t, dashboard.RecentBookings, 1)
}

func TestOwnerDashboard_NoHangars(t *testing.T) {
	svc := newTestService(&mockMetricsRepo{})

	dashboard, err := svc.ForOwner(context.Background(), testOwnerID)

	require.NoError(t, err)
	assert.Zero(t, dashboard.HangarCount)
	assert.Zero(t, dashboard.TotalBookings)
	assert.Empty(t, dashboard.RecentBookings)
}

func TestOwnerDashboard(t *testing.T) {
	repo := &mockMetricsRepo{
		hangarIDsByOwnerFn: func(_ context.Context, ownerID string) ([]string, error) {
			assert.Equal(t, testOwnerID, ownerID)
			return []string{testHangarID}, nil
		},
		statusCountsFn: func(_ context.Context, filter bson.M) (map[string]int64, error) {
			return map[string]int64{model.BookingConfirmed: 2}, nil
		},
		revenueFn: func(_ context.Context, _ bson.M) (*model.RevenueSummary, error) {
			return &model.RevenueSummary{Total: 1200, Average: 600, Count: 2}, nil
		},
		ratingFn: func(_ context.Context, hangarIDs []string) (*model.RatingSummary, error) {
			assert.Equal(t, []string{testHangarID}, hangarIDs)
			return &model.RatingSummary{Average: 4.5, Count: 2}, nil
		},
	}
	svc := newTestService(repo)

	dashboard, err := svc.ForOwner(context.Background(), testOwnerID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), dashboard.HangarCount)
	assert.Equal(t, int64(2), dashboard.TotalBookings)
	assert.Equal(t, 1200.0, dashboard.Revenue.Total)
	assert.Equal(t, 4.5, dashboard.Rating.Average)
}

func TestAdminDashboard_CompletionRate(t *testing.T) {
	repo := &mockMetricsRepo{
		userRoleCountsFn: func(_ context.Context) (map[string]int64, error) {
			return map[string]int64{model.RoleCustomer: 10, model.RoleProvider: 3}, nil
		},
		statusCountsFn: func(_ context.Context, _ bson.M) (map[string]int64, error) {
			return map[string]int64{
				model.BookingCompleted: 3,
				model.BookingPending:   1,
			}, nil
		},
		countHangarsFn: func(_ context.Context, _ bson.M) (int64, error) {
			return 7, nil
		},
	}
	svc := newTestService(repo)

	dashboard, err := svc.ForAdmin(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), dashboard.TotalHangars)
	assert.Equal(t, int64(4), dashboard.TotalBookings)
	assert.InDelta(t, 0.75, dashboard.CompletionRate, 1e-9)
	assert.Equal(t, int64(10), dashboard.UsersByRole[model.RoleCustomer])
}

func TestAdminDashboard_EmptyPlatform(t *testing.T) {
	svc := newTestService(&mockMetricsRepo{})

	dashboard, err := svc.ForAdmin(context.Background())

	require.NoError(t, err)
	assert.Zero(t, dashboard.TotalBookings)
	assert.Zero(t, dashboard.CompletionRate)
}
