package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/finfolio-backend/internal/domain"
)

type testRepos struct {
	db         *DB
	userID     uuid.UUID
	portfolio  *domain.Portfolio
	profiles   domain.ProfileRepository
	portfolios domain.PortfolioRepository
}

func setupDB(t *testing.T) *testRepos {
	t.Helper()
	ctx := context.Background()

	db, err := NewDB(DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))
	// Migrations are idempotent
	require.NoError(t, db.Migrate(ctx))

	now := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	profiles := NewProfileRepository(db)
	portfolios := NewPortfolioRepository(db)

	require.NoError(t, profiles.Create(ctx, &domain.Profile{ID: userID, Email: "demo@example.com", CreatedAt: now, UpdatedAt: now}))
	portfolio := &domain.Portfolio{ID: uuid.New(), UserID: userID, Name: "My Portfolio", IsDefault: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, portfolios.Create(ctx, portfolio))

	return &testRepos{db: db, userID: userID, portfolio: portfolio, profiles: profiles, portfolios: portfolios}
}

func TestRebind(t *testing.T) {
	lite := &DB{Dialect: DialectSQLite}
	pg := &DB{Dialect: DialectPostgres}
	q := `SELECT * FROM t WHERE a = $1 AND b = $12 AND c = '$'`

	assert.Equal(t, `SELECT * FROM t WHERE a = ?1 AND b = ?12 AND c = '$'`, lite.rebind(q))
	assert.Equal(t, q, pg.rebind(q))
}

func TestNewDB_UnknownDialect(t *testing.T) {
	_, err := NewDB("oracle", "x")
	assert.Error(t, err)
}

func TestDBTime_Scan(t *testing.T) {
	want := time.Date(2024, 4, 1, 9, 30, 15, 123000000, time.UTC)

	tests := []struct {
		name string
		src  any
	}{
		{name: "native", src: want},
		{name: "fixed width text", src: want.Format(sqliteTimeLayout)},
		{name: "rfc3339 bytes", src: []byte(want.Format(time.RFC3339Nano))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got dbTime
			require.NoError(t, got.Scan(tt.src))
			assert.True(t, got.Valid)
			assert.True(t, want.Equal(got.Time))
		})
	}

	var null dbTime
	require.NoError(t, null.Scan(nil))
	assert.False(t, null.Valid)

	assert.Error(t, null.Scan("yesterday"))
}

func TestAccountRepositories(t *testing.T) {
	ctx := context.Background()
	r := setupDB(t)

	profile, err := r.profiles.GetByID(ctx, r.userID)
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", profile.Email)

	_, err = r.profiles.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = r.profiles.Create(ctx, &domain.Profile{ID: r.userID})
	assert.ErrorIs(t, err, domain.ErrPersistenceConflict)

	later := r.portfolio.CreatedAt.Add(time.Hour)
	require.NoError(t, r.portfolios.Create(ctx, &domain.Portfolio{ID: uuid.New(), UserID: r.userID, Name: "Trading", CreatedAt: later, UpdatedAt: later}))

	list, err := r.portfolios.ListByUser(ctx, r.userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, r.portfolio.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)
	assert.True(t, r.portfolio.CreatedAt.Equal(list[0].CreatedAt))

	_, err = r.portfolios.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHoldingRepository(t *testing.T) {
	ctx := context.Background()
	r := setupDB(t)
	repo := NewHoldingRepository(r.db)
	now := time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)

	h := &domain.Holding{
		ID:           uuid.New(),
		PortfolioID:  r.portfolio.ID,
		Symbol:       "AAPL",
		CompanyName:  "Apple Inc.",
		Quantity:     decimal.RequireFromString("3"),
		AveragePrice: decimal.RequireFromString("100.6666666666666667"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(ctx, h))

	dup := *h
	dup.ID = uuid.New()
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrPersistenceConflict)

	got, err := repo.GetBySymbol(ctx, r.portfolio.ID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, h.ID, got.ID)
	assert.Equal(t, "100.6666666666666667", got.AveragePrice.String(), "precision survives storage")
	assert.True(t, now.Equal(got.CreatedAt))

	h.Quantity = decimal.NewFromInt(10)
	h.CompanyName = "Apple"
	h.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, h))

	got, err = repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Apple", got.CompanyName)

	msft := &domain.Holding{ID: uuid.New(), PortfolioID: r.portfolio.ID, Symbol: "MSFT", Quantity: decimal.NewFromInt(1), AveragePrice: decimal.NewFromInt(1), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, msft))

	list, err := repo.ListByPortfolio(ctx, r.portfolio.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "AAPL", list[0].Symbol)
	assert.Equal(t, "MSFT", list[1].Symbol)

	require.NoError(t, repo.Delete(ctx, h.ID))
	assert.ErrorIs(t, repo.Delete(ctx, h.ID), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, h), domain.ErrNotFound)
	_, err = repo.GetByID(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	r := setupDB(t)
	repo := NewTransactionRepository(r.db)
	base := time.Date(2024, 4, 3, 9, 0, 0, 0, time.UTC)

	buy := domain.NewTransaction(r.portfolio.ID, "AAPL", "Apple", domain.TransactionTypeBuy,
		decimal.NewFromInt(10), decimal.NewFromInt(150), base)
	sell := domain.NewTransaction(r.portfolio.ID, "AAPL", "Apple", domain.TransactionTypeSell,
		decimal.NewFromInt(4), decimal.NewFromInt(170), base.Add(time.Hour))
	sell.RealizedGainLoss = decimal.NewFromInt(80)

	require.NoError(t, repo.Create(ctx, buy))
	require.NoError(t, repo.Create(ctx, sell))
	assert.Error(t, repo.Create(ctx, &domain.Transaction{}), "invalid rows are rejected")

	txs, err := repo.ListByPortfolio(ctx, r.portfolio.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.TransactionTypeSell, txs[0].Type)
	assert.True(t, txs[0].RealizedGainLoss.Equal(decimal.NewFromInt(80)))
	assert.True(t, txs[1].TotalAmount.Equal(decimal.NewFromInt(1500)))

	page, err := repo.ListByPortfolio(ctx, r.portfolio.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, buy.ID, page[0].ID)

	rest, err := repo.ListByPortfolio(ctx, r.portfolio.ID, 0, 1)
	require.NoError(t, err)
	require.Len(t, rest, 1)

	n, err := repo.Count(ctx, r.portfolio.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWatchlistRepository(t *testing.T) {
	ctx := context.Background()
	r := setupDB(t)
	repo := NewWatchlistRepository(r.db)
	base := time.Date(2024, 4, 4, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, &domain.WatchlistItem{ID: uuid.New(), UserID: r.userID, Symbol: "NVDA", CompanyName: "Nvidia", CreatedAt: base}))
	require.NoError(t, repo.Insert(ctx, &domain.WatchlistItem{ID: uuid.New(), UserID: r.userID, Symbol: "AMD", CreatedAt: base.Add(time.Second)}))

	err := repo.Insert(ctx, &domain.WatchlistItem{ID: uuid.New(), UserID: r.userID, Symbol: "NVDA", CreatedAt: base})
	assert.ErrorIs(t, err, domain.ErrPersistenceConflict)

	require.NoError(t, repo.UpdateCompanyName(ctx, r.userID, "NVDA", "NVIDIA Corporation"))
	assert.ErrorIs(t, repo.UpdateCompanyName(ctx, r.userID, "NOPE", "x"), domain.ErrNotFound)

	items, err := repo.ListByUser(ctx, r.userID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "NVDA", items[0].Symbol)
	assert.Equal(t, "NVIDIA Corporation", items[0].CompanyName)

	require.NoError(t, repo.DeleteBySymbol(ctx, r.userID, "NVDA"))
	assert.ErrorIs(t, repo.DeleteBySymbol(ctx, r.userID, "NVDA"), domain.ErrNotFound)
}

func TestPriceAlertRepository(t *testing.T) {
	ctx := context.Background()
	r := setupDB(t)
	repo := NewPriceAlertRepository(r.db)
	now := time.Date(2024, 4, 5, 9, 0, 0, 0, time.UTC)

	alert := &domain.PriceAlert{
		ID:          uuid.New(),
		UserID:      r.userID,
		Symbol:      "TSLA",
		TargetPrice: decimal.RequireFromString("199.99"),
		Condition:   domain.AlertConditionBelow,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Create(ctx, alert))

	active, err := repo.ListByUser(ctx, r.userID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].TargetPrice.Equal(decimal.RequireFromString("199.99")))
	assert.Nil(t, active[0].TriggeredAt)

	at := now.Add(time.Hour)
	require.NoError(t, repo.MarkTriggered(ctx, alert.ID, at))
	assert.ErrorIs(t, repo.MarkTriggered(ctx, uuid.New(), at), domain.ErrNotFound)

	active, err = repo.ListByUser(ctx, r.userID, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.ListByUser(ctx, r.userID, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)
	require.NotNil(t, all[0].TriggeredAt)
	assert.True(t, at.Equal(*all[0].TriggeredAt))

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New(), alert.ID), domain.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, r.userID, alert.ID))
}
