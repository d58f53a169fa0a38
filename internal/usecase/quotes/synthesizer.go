package quotes

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

// Synthesizer produces demo market data from an explicitly seeded generator
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSynthesizer creates a generator seeded with seed
func NewSynthesizer(seed uint64) *Synthesizer {
	return &Synthesizer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// uniform returns a value in [lo, hi) truncated to 2 decimals
func (s *Synthesizer) uniform(lo, hi float64) decimal.Decimal {
	v := lo + s.rng.Float64()*(hi-lo)
	return decimal.NewFromFloat(v).Truncate(2)
}

// Quote fabricates a quote for a symbol with no reference row:
// price in [50,250), change in [-5,5), change percent in [-2.5,2.5), volume in [0,1e7)
func (s *Synthesizer) Quote(symbol string) domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Quote{
		Symbol:        strings.ToUpper(symbol),
		Name:          fmt.Sprintf("%s Inc.", symbol),
		Price:         s.uniform(50, 250),
		Change:        s.uniform(-5, 5),
		ChangePercent: s.uniform(-2.5, 2.5),
		Volume:        s.rng.Int64N(10_000_000),
		Synthetic:     true,
	}
}

// RegionalStock fabricates a regional listing for an unknown symbol:
// price in [100,5100), change in [-50,50), change percent in [-5,5)
func (s *Synthesizer) RegionalStock(symbol string) domain.RegionalStock {
	s.mu.Lock()
	defer s.mu.Unlock()

	exchange := domain.ExchangeBSE
	if s.rng.Float64() > 0.5 {
		exchange = domain.ExchangeNSE
	}

	return domain.RegionalStock{
		Symbol:        strings.ToUpper(symbol),
		Name:          fmt.Sprintf("%s Limited", symbol),
		Exchange:      exchange,
		Sector:        "Others",
		Price:         s.uniform(100, 5100),
		Change:        s.uniform(-50, 50),
		ChangePercent: s.uniform(-5, 5),
		Volume:        s.rng.Int64N(10_000_000),
	}
}

// Jitter returns a copy of a reference row with a simulated intraday move:
// price moves by up to ±10, change is redrawn in [-25,25), change percent in [-2.5,2.5)
func (s *Synthesizer) Jitter(stock domain.RegionalStock) domain.RegionalStock {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := stock
	out.Price = stock.Price.Add(s.uniform(-10, 10))
	if !out.Price.IsPositive() {
		out.Price = stock.Price
	}
	out.Change = s.uniform(-25, 25)
	out.ChangePercent = s.uniform(-2.5, 2.5)
	return out
}

// ISIN fabricates an Indian-style ISIN: "INE" + 6 alphanumerics + "01"
func (s *Synthesizer) ISIN() string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString("INE")
	for i := 0; i < 6; i++ {
		b.WriteByte(alphabet[s.rng.IntN(len(alphabet))])
	}
	b.WriteString("01")
	return b.String()
}
