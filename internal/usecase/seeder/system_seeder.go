package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// DefaultPortfolioName is the name of the portfolio created on first activation
const DefaultPortfolioName = "My Portfolio"

// SystemSeeder ensures a user has a profile and a default portfolio
type SystemSeeder struct {
	profiles   domain.ProfileRepository
	portfolios domain.PortfolioRepository
	now        func() time.Time
}

// NewSystemSeeder creates a new SystemSeeder instance
func NewSystemSeeder(profiles domain.ProfileRepository, portfolios domain.PortfolioRepository) *SystemSeeder {
	return &SystemSeeder{
		profiles:   profiles,
		portfolios: portfolios,
		now:        time.Now,
	}
}

// Seed ensures the profile of userID and its default portfolio exist
// If either is missing, it creates it. Returns the default portfolio.
func (s *SystemSeeder) Seed(ctx context.Context, userID uuid.UUID) (*domain.Portfolio, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("cannot seed without a user: %w", domain.ErrNotReady)
	}
	now := s.now().UTC()

	// Try to get the profile by ID
	_, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}

		// Profile doesn't exist, create it
		profile := &domain.Profile{
			ID:        userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := profile.Validate(); err != nil {
			return nil, err
		}
		if err := s.profiles.Create(ctx, profile); err != nil && !errors.Is(err, domain.ErrPersistenceConflict) {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
	}

	portfolios, err := s.portfolios.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	for _, p := range portfolios {
		if p.IsDefault {
			return p, nil
		}
	}
	// A user with portfolios but none flagged default keeps using the first one
	if len(portfolios) > 0 {
		return portfolios[0], nil
	}

	portfolio := &domain.Portfolio{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      DefaultPortfolioName,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := portfolio.Validate(); err != nil {
		return nil, err
	}
	if err := s.portfolios.Create(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to create default portfolio: %w", err)
	}

	return portfolio, nil
}
