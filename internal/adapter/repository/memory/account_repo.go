package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// profileRepository implements domain.ProfileRepository
type profileRepository struct {
	db *DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB) domain.ProfileRepository {
	return &profileRepository{db: db}
}

// GetByID retrieves a profile by its ID
func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

// Create creates a new profile
func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.profiles[profile.ID]; ok {
		return fmt.Errorf("profile %s: %w", profile.ID, domain.ErrPersistenceConflict)
	}
	r.db.profiles[profile.ID] = *profile
	return nil
}

// portfolioRepository implements domain.PortfolioRepository
type portfolioRepository struct {
	db *DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *DB) domain.PortfolioRepository {
	return &portfolioRepository{db: db}
}

// GetByID retrieves a portfolio by its ID
func (r *portfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.portfolios[id]
	if !ok {
		return nil, fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

// ListByUser retrieves all portfolios of a user, default portfolio first, then by creation time
func (r *portfolioRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Portfolio, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*domain.Portfolio, 0)
	for _, p := range r.db.portfolios {
		if p.UserID == userID {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Create creates a new portfolio
func (r *portfolioRepository) Create(ctx context.Context, portfolio *domain.Portfolio) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.portfolios[portfolio.ID]; ok {
		return fmt.Errorf("portfolio %s: %w", portfolio.ID, domain.ErrPersistenceConflict)
	}
	r.db.portfolios[portfolio.ID] = *portfolio
	return nil
}
