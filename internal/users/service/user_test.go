package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	userserrors "hangarhub/internal/users/errors"
	"hangarhub/internal/users/validator"
	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
	"hangarhub/pkg/logger"
	"hangarhub/pkg/model"
)

const testUserID = "507f1f77bcf86cd799439013"

type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFn(ctx, email)
}

func testConfig() *config.Config {
	return &config.Config{
		Log:       logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
	}
}

func newTestService(repo *mockUserRepo) UserService {
	return NewUserService(repo, validator.NewUserValidator(), testConfig())
}

func assertAppError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.IsAppError(err), "expected AppError, got %v", err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.HTTPStatus)
}

func TestRegister_Success(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(_ context.Context, user *model.User) error {
			user.ID = testUserID
			created = user
			return nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Pat Avery",
		Email:    "Pat@Example.com",
		Password: "correct-horse",
		Role:     model.RoleProvider,
	})

	require.NoError(t, err)
	assert.Equal(t, testUserID, user.ID)
	assert.Equal(t, "pat@example.com", created.Email, "email stored lowercased")
	assert.NotEqual(t, "correct-horse", created.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct-horse")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(_ context.Context, _ *model.User) error {
			return userserrors.ErrDuplicateEmail
		},
	}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Pat Avery",
		Email:    "pat@example.com",
		Password: "correct-horse",
		Role:     model.RoleCustomer,
	})

	assertAppError(t, err, apperrors.CodeConflict, 409)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	svc := newTestService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Pat Avery",
		Email:    "pat@example.com",
		Password: "correct-horse",
		Role:     model.RoleAdmin,
	})

	assertAppError(t, err, apperrors.CodeValidation, 400)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newTestService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Pat Avery",
		Email:    "pat@example.com",
		Password: "short",
		Role:     model.RoleCustomer,
	})

	assertAppError(t, err, apperrors.CodeValidation, 400)
}

func loginRepo(t *testing.T) *mockUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	return &mockUserRepo{
		findByEmailFn: func(_ context.Context, email string) (*model.User, error) {
			if email != "pat@example.com" {
				return nil, userserrors.ErrNotFound
			}
			return &model.User{
				ID:           testUserID,
				Name:         "Pat Avery",
				Email:        email,
				PasswordHash: string(hash),
				Role:         model.RoleProvider,
			}, nil
		},
	}
}

func TestLogin_Success(t *testing.T) {
	svc := newTestService(loginRepo(t))

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "pat@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, testUserID, resp.User.ID)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	tok, err := jwt.Parse(resp.Token, func(_ *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, testUserID, claims["sub"])
	assert.Equal(t, model.RoleProvider, claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(loginRepo(t))

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "pat@example.com",
		Password: "wrong-horse",
	})

	assertAppError(t, err, apperrors.CodeUnauthorized, 401)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestService(loginRepo(t))

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})

	// Same error as a wrong password: no account enumeration.
	assertAppError(t, err, apperrors.CodeUnauthorized, 401)
	assert.Equal(t, "Invalid email or password", apperrors.AsAppError(err).Message)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.User, error) {
			return nil, userserrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	_, err := svc.GetByID(context.Background(), testUserID)

	assertAppError(t, err, apperrors.CodeNotFound, 404)
}
