package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// Phase is the lifecycle stage of a Store
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseReady         Phase = "ready"
	PhaseClosed        Phase = "closed"
)

// State is a published snapshot of the store.
// Slices and maps in a published State are never modified afterwards;
// observers may read them without locking.
type State struct {
	Phase   Phase
	Loading bool

	UserID     uuid.UUID
	Portfolio  *domain.Portfolio
	Portfolios []domain.Portfolio

	Holdings     []domain.HoldingView
	Summary      domain.PortfolioSummary
	DailyChange  map[string]decimal.Decimal // symbol -> today's change percent
	Watchlist    []domain.WatchlistRow
	Transactions []domain.Transaction // most recent page, newest first
	Alerts       []domain.PriceAlert  // active alerts

	LastError string
	UpdatedAt time.Time
}

// Ready reports whether mutations are accepted
func (s State) Ready() bool {
	return s.Phase == PhaseReady && s.Portfolio != nil
}

// Holding returns the view of symbol, if held
func (s State) Holding(symbol string) (domain.HoldingView, bool) {
	for _, h := range s.Holdings {
		if h.Symbol == symbol {
			return h, true
		}
	}
	return domain.HoldingView{}, false
}

// publishLocked sends the current state to every subscriber without blocking.
// A subscriber that has not consumed its previous snapshot gets the older one
// replaced by the latest. Callers hold s.mu.
func (s *Store) publishLocked() {
	snap := s.state
	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Drop the stale snapshot and retry once
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Subscribe registers an observer. The channel receives the current state
// immediately and every published state afterwards, keeping only the latest
// when the reader falls behind. The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan State, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan State, buffer)

	s.mu.Lock()
	if s.state.Phase == PhaseClosed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.state
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Snapshot returns the latest published state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
