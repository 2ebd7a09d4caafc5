package service

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	maintenanceerrors "hangarhub/internal/maintenance/errors"
	"hangarhub/internal/maintenance/validator"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	"hangarhub/pkg/logger"
	"hangarhub/pkg/model"
)

const (
	testServiceID  = "507f1f77bcf86cd799439031"
	testProviderID = "507f1f77bcf86cd799439014"
	testStrangerID = "507f1f77bcf86cd799439015"
)

type mockServiceRepo struct {
	createFn          func(ctx context.Context, svc *model.Service) error
	findByIDFn        func(ctx context.Context, id string) (*model.Service, error)
	findFn            func(ctx context.Context, filter model.ServiceFilter, limit int, offset int64) ([]*model.Service, error)
	countFn           func(ctx context.Context, filter model.ServiceFilter) (int64, error)
	findByProviderFn  func(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Service, error)
	countByProviderFn func(ctx context.Context, providerID string) (int64, error)
	updateFn          func(ctx context.Context, id string, fields bson.M) (*model.Service, error)
	deleteFn          func(ctx context.Context, id string) error
}

func (m *mockServiceRepo) Create(ctx context.Context, svc *model.Service) error {
	return m.createFn(ctx, svc)
}

func (m *mockServiceRepo) FindByID(ctx context.Context, id string) (*model.Service, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockServiceRepo) Find(ctx context.Context, filter model.ServiceFilter, limit int, offset int64) ([]*model.Service, error) {
	return m.findFn(ctx, filter, limit, offset)
}

func (m *mockServiceRepo) Count(ctx context.Context, filter model.ServiceFilter) (int64, error) {
	return m.countFn(ctx, filter)
}

func (m *mockServiceRepo) FindByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Service, error) {
	return m.findByProviderFn(ctx, providerID, limit, offset)
}

func (m *mockServiceRepo) CountByProvider(ctx context.Context, providerID string) (int64, error) {
	return m.countByProviderFn(ctx, providerID)
}

func (m *mockServiceRepo) Update(ctx context.Context, id string, fields bson.M) (*model.Service, error) {
	return m.updateFn(ctx, id, fields)
}

func (m *mockServiceRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
}

func newTestService(repo *mockServiceRepo) MaintenanceService {
	return NewMaintenanceService(repo, validator.NewServiceValidator(), testConfig())
}

func validService() *model.Service {
	return &model.Service{
		Name:        "Annual Inspection",
		Description: "FAA annual airworthiness inspection",
		Category:    "inspection",
		Duration:    model.Duration{Value: 3, Unit: "day"},
		Pricing:     model.Pricing{Value: 1200, Unit: "flat_rate"},
	}
}

func storedService() *model.Service {
	svc := validService()
	svc.ID = testServiceID
	svc.ProviderID = testProviderID
	svc.Status = model.ServiceActive
	return svc
}

func assertAppError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.IsAppError(err), "expected AppError, got %v", err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.HTTPStatus)
}

func TestCreateService_Success(t *testing.T) {
	repo := &mockServiceRepo{
		createFn: func(_ context.Context, svc *model.Service) error {
			svc.ID = testServiceID
			return nil
		},
	}
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), testProviderID, validService())

	require.NoError(t, err)
	assert.Equal(t, testServiceID, created.ID)
	assert.Equal(t, testProviderID, created.ProviderID)
	assert.Equal(t, model.ServicePendingApproval, created.Status, "new services await approval")
}

func TestCreateService_BadCategory(t *testing.T) {
	svc := newTestService(&mockServiceRepo{})

	input := validService()
	input.Category = "detailing"
	_, err := svc.Create(context.Background(), testProviderID, input)

	assertAppError(t, err, apperrors.CodeValidation, 400)
}

func TestUpdateService_ProviderOnly(t *testing.T) {
	repo := &mockServiceRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Service, error) {
			return storedService(), nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), Actor{ID: testStrangerID, Role: model.RoleProvider}, testServiceID, &model.ServiceUpdate{Name: "New name"})

	assertAppError(t, err, apperrors.CodeForbidden, 403)
}

func TestUpdateService_ProviderCannotSelfApprove(t *testing.T) {
	repo := &mockServiceRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Service, error) {
			s := storedService()
			s.Status = model.ServicePendingApproval
			return s, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), Actor{ID: testProviderID, Role: model.RoleProvider}, testServiceID, &model.ServiceUpdate{Status: model.ServiceActive})

	assertAppError(t, err, apperrors.CodeForbidden, 403)
}

func TestUpdateService_AdminApproves(t *testing.T) {
	repo := &mockServiceRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Service, error) {
			s := storedService()
			s.Status = model.ServicePendingApproval
			return s, nil
		},
		updateFn: func(_ context.Context, _ string, fields bson.M) (*model.Service, error) {
			assert.Equal(t, model.ServiceActive, fields["status"])
			s := storedService()
			s.Status = model.ServiceActive
			return s, nil
		},
	}
	svc := newTestService(repo)

	updated, err := svc.Update(context.Background(), Actor{ID: testStrangerID, Role: model.RoleAdmin}, testServiceID, &model.ServiceUpdate{Status: model.ServiceActive})

	require.NoError(t, err)
	assert.Equal(t, model.ServiceActive, updated.Status)
}

func TestDeleteService_Success(t *testing.T) {
	deleted := false
	repo := &mockServiceRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Service, error) {
			return storedService(), nil
		},
		deleteFn: func(_ context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.Delete(context.Background(), Actor{ID: testProviderID, Role: model.RoleProvider}, testServiceID)

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestGetService_NotFound(t *testing.T) {
	repo := &mockServiceRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Service, error) {
			return nil, maintenanceerrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	_, err := svc.GetByID(context.Background(), testServiceID)

	assertAppError(t, err, apperrors.CodeNotFound, 404)
}

func TestListServices_Filtered(t *testing.T) {
	repo := &mockServiceRepo{
		findFn: func(_ context.Context, filter model.ServiceFilter, _ int, _ int64) ([]*model.Service, error) {
			assert.Equal(t, "inspection", filter.Category)
			return []*model.Service{storedService()}, nil
		},
		countFn: func(_ context.Context, _ model.ServiceFilter) (int64, error) {
			return 1, nil
		},
	}
	svc := newTestService(repo)

	services, total, err := svc.List(context.Background(), model.ServiceFilter{Category: "inspection"}, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, services, 1)
}
