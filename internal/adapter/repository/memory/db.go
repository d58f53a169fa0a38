package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// DB is an in-process store used in demo mode and tests.
// Rows are stored by value; repositories hand out copies.
type DB struct {
	mu sync.RWMutex

	profiles     map[uuid.UUID]domain.Profile
	portfolios   map[uuid.UUID]domain.Portfolio
	holdings     map[uuid.UUID]domain.Holding
	transactions []domain.Transaction
	watchlist    []domain.WatchlistItem
	alerts       map[uuid.UUID]domain.PriceAlert
}

// NewDB creates an empty in-memory database
func NewDB() *DB {
	return &DB{
		profiles:   make(map[uuid.UUID]domain.Profile),
		portfolios: make(map[uuid.UUID]domain.Portfolio),
		holdings:   make(map[uuid.UUID]domain.Holding),
		alerts:     make(map[uuid.UUID]domain.PriceAlert),
	}
}
