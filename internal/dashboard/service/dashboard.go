package service

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"hangarhub/internal/dashboard/cache"
	"hangarhub/internal/dashboard/repository"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	"hangarhub/pkg/model"
)

const recentBookingsLimit = 5

// DashboardService renders the role-scoped dashboard. Each dashboard fans
// its aggregations out concurrently and is cached for a short TTL.
type DashboardService interface {
	ForCustomer(ctx context.Context, customerID string) (*model.CustomerDashboard, error)
	ForOwner(ctx context.Context, ownerID string) (*model.OwnerDashboard, error)
	ForAdmin(ctx context.Context) (*model.AdminDashboard, error)
}

type dashboardService struct {
	repo  repository.MetricsRepository
	cache *cache.MetricsCache
	cfg   *config.Config
}

func NewDashboardService(repo repository.MetricsRepository, metricsCache *cache.MetricsCache, cfg *config.Config) DashboardService {
	return &dashboardService{
		repo:  repo,
		cache: metricsCache,
		cfg:   cfg,
	}
}

func (s *dashboardService) ForCustomer(ctx context.Context, customerID string) (*model.CustomerDashboard, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	var cached model.CustomerDashboard
	if s.cache.Get(ctx, model.RoleCustomer, customerID, &cached) {
		return &cached, nil
	}

	filter := bson.M{"customer_id": customerID}

	var statusCounts map[string]int64
	var revenue *model.RevenueSummary
	var recent []*model.Booking
	var errStatus, errRevenue, errRecent error
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		statusCounts, errStatus = s.repo.BookingStatusCounts(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		revenue, errRevenue = s.repo.Revenue(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		recent, errRecent = s.repo.RecentBookings(ctx, filter, recentBookingsLimit)
	}()

	wg.Wait()
	if err := firstError(errStatus, errRevenue, errRecent); err != nil {
		s.cfg.Log.Error("Failed to build customer dashboard", "customer_id", customerID, "error", err)
		return nil, apperrors.Internal("Failed to build dashboard", err)
	}

	dashboard := &model.CustomerDashboard{
		TotalBookings:    sumCounts(statusCounts),
		BookingsByStatus: statusCounts,
		TotalSpent:       revenue.Total,
		RecentBookings:   emptyIfNil(recent),
	}

	s.cache.Set(ctx, model.RoleCustomer, customerID, dashboard)
	return dashboard, nil
}

func (s *dashboardService) ForOwner(ctx context.Context, ownerID string) (*model.OwnerDashboard, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	var cached model.OwnerDashboard
	if s.cache.Get(ctx, model.RoleProvider, ownerID, &cached) {
		return &cached, nil
	}

	// Hangar ids scope every other query, so resolve them first.
	hangarIDs, err := s.repo.HangarIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve owned hangars", err)
	}

	dashboard := &model.OwnerDashboard{
		HangarCount:      int64(len(hangarIDs)),
		BookingsByStatus: map[string]int64{},
		Revenue:          model.RevenueSummary{},
		Rating:           model.RatingSummary{},
		RecentBookings:   []*model.Booking{},
	}
	if len(hangarIDs) == 0 {
		s.cache.Set(ctx, model.RoleProvider, ownerID, dashboard)
		return dashboard, nil
	}

	filter := bson.M{"hangar_id": bson.M{"$in": hangarIDs}}

	var statusCounts map[string]int64
	var revenue *model.RevenueSummary
	var rating *model.RatingSummary
	var recent []*model.Booking
	var errStatus, errRevenue, errRating, errRecent error
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		statusCounts, errStatus = s.repo.BookingStatusCounts(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		revenue, errRevenue = s.repo.Revenue(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		rating, errRating = s.repo.RatingForHangars(ctx, hangarIDs)
	}()
	go func() {
		defer wg.Done()
		recent, errRecent = s.repo.RecentBookings(ctx, filter, recentBookingsLimit)
	}()

	wg.Wait()
	if err := firstError(errStatus, errRevenue, errRating, errRecent); err != nil {
		s.cfg.Log.Error("Failed to build owner dashboard", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to build dashboard", err)
	}

	dashboard.TotalBookings = sumCounts(statusCounts)
	dashboard.BookingsByStatus = statusCounts
	dashboard.Revenue = *revenue
	dashboard.Rating = *rating
	dashboard.RecentBookings = emptyIfNil(recent)

	s.cache.Set(ctx, model.RoleProvider, ownerID, dashboard)
	return dashboard, nil
}

func (s *dashboardService) ForAdmin(ctx context.Context) (*model.AdminDashboard, error) {
	var cached model.AdminDashboard
	if s.cache.Get(ctx, model.RoleAdmin, "platform", &cached) {
		return &cached, nil
	}

	var roleCounts, statusCounts map[string]int64
	var totalHangars int64
	var revenue *model.RevenueSummary
	var recent []*model.Booking
	var errRoles, errStatus, errHangars, errRevenue, errRecent error
	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		roleCounts, errRoles = s.repo.UserRoleCounts(ctx)
	}()
	go func() {
		defer wg.Done()
		statusCounts, errStatus = s.repo.BookingStatusCounts(ctx, bson.M{})
	}()
	go func() {
		defer wg.Done()
		totalHangars, errHangars = s.repo.CountHangars(ctx, bson.M{})
	}()
	go func() {
		defer wg.Done()
		revenue, errRevenue = s.repo.Revenue(ctx, bson.M{})
	}()
	go func() {
		defer wg.Done()
		recent, errRecent = s.repo.RecentBookings(ctx, bson.M{}, recentBookingsLimit)
	}()

	wg.Wait()
	if err := firstError(errRoles, errStatus, errHangars, errRevenue, errRecent); err != nil {
		s.cfg.Log.Error("Failed to build admin dashboard", "error", err)
		return nil, apperrors.Internal("Failed to build dashboard", err)
	}

	total := sumCounts(statusCounts)
	dashboard := &model.AdminDashboard{
		UsersByRole:      roleCounts,
		TotalHangars:     totalHangars,
		TotalBookings:    total,
		BookingsByStatus: statusCounts,
		Revenue:          *revenue,
		CompletionRate:   completionRate(statusCounts, total),
		RecentBookings:   emptyIfNil(recent),
	}

	s.cache.Set(ctx, model.RoleAdmin, "platform", dashboard)
	return dashboard, nil
}

func completionRate(counts map[string]int64, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(counts[model.BookingCompleted]) / float64(total)
}

func sumCounts(counts map[string]int64) int64 {
	var total int64
	for _, c := range counts {
		total += c
	}
	return total
}

func emptyIfNil(bookings []*model.Booking) []*model.Booking {
	if bookings == nil {
		return []*model.Booking{}
	}
	return bookings
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
