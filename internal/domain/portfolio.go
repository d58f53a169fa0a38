package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile represents the account owner as known to the identity service
type Profile struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate ensures the profile adheres to domain rules
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return errors.New("profile id cannot be empty")
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return errors.New("profile email is not valid")
	}
	return nil
}

// Portfolio groups holdings and transactions for a user
// Each user has exactly one default portfolio, created on first activation
type Portfolio struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate ensures the portfolio adheres to domain rules
// Returns an error if validation fails
func (p *Portfolio) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("portfolio name cannot be empty")
	}

	if p.UserID == uuid.Nil {
		return errors.New("portfolio must belong to a user")
	}

	return nil
}
