package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// MockAdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, a *entity.Admin) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Admin), args.Error(1)
}

// MockHasher
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// MockTokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Generate(subject, email string) (string, error) {
	args := m.Called(subject, email)
	return args.String(0), args.Error(1)
}

// TestLogin - Testa o fluxo de login do admin
func TestLogin(t *testing.T) {
	ctx := context.Background()
	admin := &entity.Admin{ID: "a1", Email: "admin@x.com", Password: "hash"}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockAdminRepository)
		hasher := new(MockHasher)
		tokens := new(MockTokenIssuer)
		repo.On("FindByEmail", ctx, "admin@x.com").Return(admin, nil)
		hasher.On("Compare", "hash", "secret").Return(nil)
		tokens.On("Generate", "a1", "admin@x.com").Return("jwt-token", nil)

		uc := usecase.NewLoginUseCase(repo, hasher, tokens, nil)
		out, err := uc.Execute(ctx, usecase.LoginInput{Email: " admin@x.com ", Password: "secret"})

		require.NoError(t, err)
		assert.Equal(t, "jwt-token", out.AccessToken)
		repo.AssertExpectations(t)
		hasher.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		repo := new(MockAdminRepository)
		uc := usecase.NewLoginUseCase(repo, new(MockHasher), new(MockTokenIssuer), nil)

		_, err := uc.Execute(ctx, usecase.LoginInput{Email: "admin@x.com"})

		assert.True(t, errors.Is(err, usecase.ErrValidation))
		repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Unknown Admin", func(t *testing.T) {
		repo := new(MockAdminRepository)
		repo.On("FindByEmail", ctx, "nobody@x.com").Return(nil, entity.ErrNotFound)
		uc := usecase.NewLoginUseCase(repo, new(MockHasher), new(MockTokenIssuer), nil)

		_, err := uc.Execute(ctx, usecase.LoginInput{Email: "nobody@x.com", Password: "secret"})

		assert.True(t, errors.Is(err, usecase.ErrAuthNotFound))
	})

	t.Run("Wrong Password", func(t *testing.T) {
		repo := new(MockAdminRepository)
		hasher := new(MockHasher)
		tokens := new(MockTokenIssuer)
		repo.On("FindByEmail", ctx, "admin@x.com").Return(admin, nil)
		hasher.On("Compare", "hash", "wrong").Return(errors.New("mismatch"))

		uc := usecase.NewLoginUseCase(repo, hasher, tokens, nil)
		_, err := uc.Execute(ctx, usecase.LoginInput{Email: "admin@x.com", Password: "wrong"})

		assert.True(t, errors.Is(err, usecase.ErrAuthFailed))
		tokens.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("Store Failure", func(t *testing.T) {
		repo := new(MockAdminRepository)
		repo.On("FindByEmail", ctx, "admin@x.com").Return(nil, errors.New("connection reset"))
		uc := usecase.NewLoginUseCase(repo, new(MockHasher), new(MockTokenIssuer), nil)

		_, err := uc.Execute(ctx, usecase.LoginInput{Email: "admin@x.com", Password: "secret"})

		assert.True(t, usecase.IsTechnicalError(err))
	})
}

// TestEnsureAdmin - Testa o seed idempotente do admin
func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates When Missing", func(t *testing.T) {
		repo := new(MockAdminRepository)
		hasher := new(MockHasher)
		repo.On("FindByEmail", ctx, "admin@x.com").Return(nil, entity.ErrNotFound)
		hasher.On("Hash", "secret").Return("hash", nil)
		repo.On("Create", ctx, mock.MatchedBy(func(a *entity.Admin) bool {
			return a.Email == "admin@x.com" && a.Password == "hash"
		})).Return(nil)

		uc := usecase.NewLoginUseCase(repo, hasher, new(MockTokenIssuer), nil)
		created, err := uc.EnsureAdmin(ctx, "admin@x.com", "secret")

		require.NoError(t, err)
		assert.True(t, created)
		repo.AssertExpectations(t)
	})

	t.Run("Keeps Existing", func(t *testing.T) {
		repo := new(MockAdminRepository)
		hasher := new(MockHasher)
		repo.On("FindByEmail", ctx, "admin@x.com").Return(&entity.Admin{ID: "a1"}, nil)

		uc := usecase.NewLoginUseCase(repo, hasher, new(MockTokenIssuer), nil)
		created, err := uc.EnsureAdmin(ctx, "admin@x.com", "secret")

		require.NoError(t, err)
		assert.False(t, created)
		hasher.AssertNotCalled(t, "Hash", mock.Anything)
	})

	t.Run("Lost Race", func(t *testing.T) {
		repo := new(MockAdminRepository)
		hasher := new(MockHasher)
		repo.On("FindByEmail", ctx, "admin@x.com").Return(nil, entity.ErrNotFound)
		hasher.On("Hash", "secret").Return("hash", nil)
		repo.On("Create", ctx, mock.Anything).Return(entity.ErrEmailAlreadyExists)

		uc := usecase.NewLoginUseCase(repo, hasher, new(MockTokenIssuer), nil)
		created, err := uc.EnsureAdmin(ctx, "admin@x.com", "secret")

		require.NoError(t, err)
		assert.False(t, created)
	})
}
