package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockPortfolioRepository is a mock implementation of PortfolioRepository
type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) Create(ctx context.Context, portfolio *domain.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

func TestSystemSeeder_Seed_NothingExists(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileRepository)
	portfolios := new(MockPortfolioRepository)
	seeder := NewSystemSeeder(profiles, portfolios)
	userID := uuid.New()

	profiles.On("GetByID", ctx, userID).Return(nil, domain.ErrNotFound)
	profiles.On("Create", ctx, mock.MatchedBy(func(p *domain.Profile) bool {
		return p.ID == userID
	})).Return(nil)
	portfolios.On("ListByUser", ctx, userID).Return([]*domain.Portfolio{}, nil)
	portfolios.On("Create", ctx, mock.MatchedBy(func(p *domain.Portfolio) bool {
		return p.UserID == userID && p.IsDefault && p.Name == DefaultPortfolioName
	})).Return(nil)

	// Execute
	portfolio, err := seeder.Seed(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.True(t, portfolio.IsDefault)
	assert.Equal(t, userID, portfolio.UserID)
	profiles.AssertExpectations(t)
	portfolios.AssertExpectations(t)
}

func TestSystemSeeder_Seed_EverythingExists(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileRepository)
	portfolios := new(MockPortfolioRepository)
	seeder := NewSystemSeeder(profiles, portfolios)
	userID := uuid.New()

	existing := &domain.Portfolio{ID: uuid.New(), UserID: userID, Name: "Retirement", IsDefault: true}
	other := &domain.Portfolio{ID: uuid.New(), UserID: userID, Name: "Trading"}

	profiles.On("GetByID", ctx, userID).Return(&domain.Profile{ID: userID}, nil)
	portfolios.On("ListByUser", ctx, userID).Return([]*domain.Portfolio{other, existing}, nil)

	portfolio, err := seeder.Seed(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, portfolio.ID)
	// Verify Create was NOT called (rows already exist)
	profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	portfolios.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSystemSeeder_Seed_ProfileRaceIsTolerated(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileRepository)
	portfolios := new(MockPortfolioRepository)
	seeder := NewSystemSeeder(profiles, portfolios)
	userID := uuid.New()
	existing := &domain.Portfolio{ID: uuid.New(), UserID: userID, Name: "Main", IsDefault: true}

	profiles.On("GetByID", ctx, userID).Return(nil, domain.ErrNotFound)
	profiles.On("Create", ctx, mock.Anything).Return(domain.ErrPersistenceConflict)
	portfolios.On("ListByUser", ctx, userID).Return([]*domain.Portfolio{existing}, nil)

	portfolio, err := seeder.Seed(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, portfolio.ID)
}

func TestSystemSeeder_Seed_Errors(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	boom := errors.New("connection refused")

	t.Run("no user", func(t *testing.T) {
		seeder := NewSystemSeeder(new(MockProfileRepository), new(MockPortfolioRepository))
		_, err := seeder.Seed(ctx, uuid.Nil)
		assert.ErrorIs(t, err, domain.ErrNotReady)
	})

	t.Run("profile lookup fails", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		seeder := NewSystemSeeder(profiles, new(MockPortfolioRepository))
		profiles.On("GetByID", ctx, userID).Return(nil, boom)

		_, err := seeder.Seed(ctx, userID)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("portfolio create fails", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		portfolios := new(MockPortfolioRepository)
		seeder := NewSystemSeeder(profiles, portfolios)
		profiles.On("GetByID", ctx, userID).Return(&domain.Profile{ID: userID}, nil)
		portfolios.On("ListByUser", ctx, userID).Return(nil, nil)
		portfolios.On("Create", ctx, mock.Anything).Return(boom)

		_, err := seeder.Seed(ctx, userID)
		assert.ErrorIs(t, err, boom)
	})
}
