package sqlstore

import (
	"context"
	"fmt"

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
	query := `
		SELECT id, email, full_name, avatar_url, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var p domain.Profile
	var createdAt, updatedAt dbTime
	err := r.db.queryRow(ctx, query, id).Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &createdAt, &updatedAt)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	p.CreatedAt, p.UpdatedAt = createdAt.Time, updatedAt.Time
	return &p, nil
}

// Create creates a new profile
func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, email, full_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.FullName,
		profile.AvatarURL,
		r.db.timeArg(profile.CreatedAt),
		r.db.timeArg(profile.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("profile %s already exists: %w", profile.ID, domain.ErrPersistenceConflict)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
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

const portfolioColumns = `id, user_id, name, description, is_default, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(row rowScanner) (*domain.Portfolio, error) {
	var p domain.Portfolio
	var createdAt, updatedAt dbTime
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.IsDefault, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt, p.UpdatedAt = createdAt.Time, updatedAt.Time
	return &p, nil
}

// GetByID retrieves a portfolio by its ID
func (r *portfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = $1`

	p, err := scanPortfolio(r.db.queryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "portfolio")
	}
	return p, nil
}

// ListByUser retrieves all portfolios of a user, default portfolio first
func (r *portfolioRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Portfolio, error) {
	query := `
		SELECT ` + portfolioColumns + `
		FROM portfolios
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC
	`

	rows, err := r.db.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := make([]*domain.Portfolio, 0)
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}
	return portfolios, nil
}

// Create creates a new portfolio
func (r *portfolioRepository) Create(ctx context.Context, portfolio *domain.Portfolio) error {
	query := `
		INSERT INTO portfolios (id, user_id, name, description, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.exec(ctx, query,
		portfolio.ID,
		portfolio.UserID,
		portfolio.Name,
		portfolio.Description,
		portfolio.IsDefault,
		r.db.timeArg(portfolio.CreatedAt),
		r.db.timeArg(portfolio.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("portfolio %s already exists: %w", portfolio.ID, domain.ErrPersistenceConflict)
		}
		return fmt.Errorf("failed to create portfolio: %w", err)
	}
	return nil
}
