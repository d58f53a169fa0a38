package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/portfolio"
	"github.com/simaogato/finfolio-backend/internal/usecase/quotes"
)

type tradeRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type watchRequest struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
}

type alertRequest struct {
	Symbol      string          `json:"symbol"`
	TargetPrice decimal.Decimal `json:"target_price"`
	Condition   string          `json:"condition"`
}

type createPortfolioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type currentPortfolioRequest struct {
	PortfolioID string `json:"portfolio_id"`
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	status := http.StatusOK
	if !snap.Ready() {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, map[string]any{
		"status":  string(snap.Phase),
		"loading": snap.Loading,
	})
}

// readySnapshot returns the latest snapshot or writes 503
func (s *Server) readySnapshot(w http.ResponseWriter) (portfolio.State, bool) {
	snap := s.store.Snapshot()
	if !snap.Ready() {
		s.writeError(w, http.StatusServiceUnavailable, "portfolio store is "+string(snap.Phase))
		return snap, false
	}
	return snap, true
}

// handleGetPortfolio handles GET /api/portfolio
func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.readySnapshot(w)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.toPortfolio(snap))
}

// handleGetAnalytics handles GET /api/analytics
func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.readySnapshot(w)
	if !ok {
		return
	}
	analytics, err := s.store.Analytics()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.toAnalytics(analytics, snap.DailyChange))
}

// handleRefresh handles POST /api/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RefreshData(r.Context()); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.handleGetPortfolio(w, r)
}

// handleListPortfolios handles GET /api/portfolios
func (s *Server) handleListPortfolios(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.readySnapshot(w)
	if !ok {
		return
	}
	out := make([]portfolioRef, 0, len(snap.Portfolios))
	for _, p := range snap.Portfolios {
		out = append(out, toPortfolioRef(p))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"current":    snap.Portfolio.ID.String(),
		"portfolios": out,
	})
}

// handleCreatePortfolio handles POST /api/portfolios
func (s *Server) handleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req createPortfolioRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	p, err := s.store.CreatePortfolio(r.Context(), req.Name, req.Description)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toPortfolioRef(*p))
}

// handleSetCurrentPortfolio handles PUT /api/portfolios/current
func (s *Server) handleSetCurrentPortfolio(w http.ResponseWriter, r *http.Request) {
	var req currentPortfolioRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	id, err := uuid.Parse(req.PortfolioID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid portfolio_id format")
		return
	}
	if err := s.store.SetCurrentPortfolio(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.handleGetPortfolio(w, r)
}

// handleAddHolding handles POST /api/holdings
func (s *Server) handleAddHolding(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	view, err := s.store.AddHolding(r.Context(), req.Symbol, req.Quantity, req.Price)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toHolding(*view, s.store.Snapshot().DailyChange))
}

// handleRecordSell handles POST /api/holdings/sell
func (s *Server) handleRecordSell(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	result, err := s.store.RecordSell(r.Context(), req.Symbol, req.Quantity, req.Price)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp := sellResponse{
		Transaction: toTransaction(*result.Transaction),
		Realized:    result.Realized,
	}
	if result.Remaining != nil {
		h := toHolding(*result.Remaining, s.store.Snapshot().DailyChange)
		resp.Remaining = &h
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleRemoveHolding handles DELETE /api/holdings/{id}
func (s *Server) handleRemoveHolding(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid holding id format")
		return
	}
	if err := s.store.RemoveHolding(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetWatchlist handles GET /api/watchlist
func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.readySnapshot(w)
	if !ok {
		return
	}
	out := make([]watchlistResponse, 0, len(snap.Watchlist))
	for _, row := range snap.Watchlist {
		out = append(out, toWatchlist(row))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleAddToWatchlist handles POST /api/watchlist
func (s *Server) handleAddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req watchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	item, err := s.store.AddToWatchlist(r.Context(), req.Symbol, req.CompanyName)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	row := domain.WatchlistRow{WatchlistItem: *item}
	for _, wr := range s.store.Snapshot().Watchlist {
		if wr.Symbol == item.Symbol {
			row = wr
			break
		}
	}
	s.writeJSON(w, http.StatusCreated, toWatchlist(row))
}

// handleRemoveFromWatchlist handles DELETE /api/watchlist/{symbol}
func (s *Server) handleRemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveFromWatchlist(r.Context(), chi.URLParam(r, "symbol")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListTransactions handles GET /api/transactions?limit=&offset=
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", portfolio.DefaultTransactionPage)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, total, err := s.store.Transactions(r.Context(), limit, offset)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransaction(*tx))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"transactions": out,
		"total":        total,
	})
}

// handleListAlerts handles GET /api/alerts?active=
func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if v := r.URL.Query().Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "active must be a boolean")
			return
		}
		activeOnly = b
	}

	list, err := s.store.ListPriceAlerts(r.Context(), activeOnly)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]alertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAlert(*a))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleCreateAlert handles POST /api/alerts
func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	condition := domain.AlertCondition(strings.ToLower(strings.TrimSpace(req.Condition)))
	alert, err := s.store.CreatePriceAlert(r.Context(), req.Symbol, req.TargetPrice, condition)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toAlert(*alert))
}

// handleCheckAlerts handles POST /api/alerts/check
func (s *Server) handleCheckAlerts(w http.ResponseWriter, r *http.Request) {
	triggered, err := s.store.CheckAlerts(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]triggerResponse, 0, len(triggered))
	for _, t := range triggered {
		out = append(out, toTrigger(t))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleDeleteAlert handles DELETE /api/alerts/{id}
func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid alert id format")
		return
	}
	if err := s.store.DeletePriceAlert(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSearchStocks handles GET /api/stocks/search?q=
func (s *Server) handleSearchStocks(w http.ResponseWriter, r *http.Request) {
	found, err := s.store.SearchStocks(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]quoteResponse, 0, len(found))
	for _, q := range found {
		out = append(out, toQuote(q))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleGetQuote handles GET /api/quotes/{symbol}
func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.GetQuote(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toQuote(*q))
}

func facetsFrom(r *http.Request) quotes.Facets {
	q := r.URL.Query()
	return quotes.Facets{
		Exchange: domain.Exchange(strings.ToUpper(q.Get("exchange"))),
		Sector:   q.Get("sector"),
	}
}

// handleMarketSearch handles GET /api/market/in/search?q=&exchange=&sector=
func (s *Server) handleMarketSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.market.SearchStocks(r.Context(), r.URL.Query().Get("q"), facetsFrom(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]regionalSearchResponse, 0, len(results))
	for _, res := range results {
		out = append(out, toRegionalSearch(res))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleMarketPopular handles GET /api/market/in/popular?exchange=&sector=
func (s *Server) handleMarketPopular(w http.ResponseWriter, r *http.Request) {
	stocks, err := s.market.PopularStocks(r.Context(), facetsFrom(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]regionalStockResponse, 0, len(stocks))
	for _, st := range stocks {
		out = append(out, toRegionalStock(st))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleMarketIndices handles GET /api/market/in/indices
func (s *Server) handleMarketIndices(w http.ResponseWriter, r *http.Request) {
	indices, err := s.market.MarketIndices(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]indexResponse, 0, len(indices))
	for _, idx := range indices {
		out = append(out, indexResponse{Name: idx.Name, Value: idx.Value, Change: idx.Change, ChangePercent: idx.ChangePercent})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleMarketSectors handles GET /api/market/in/sectors
func (s *Server) handleMarketSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := s.market.SectorPerformance(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]sectorResponse, 0, len(sectors))
	for _, sec := range sectors {
		out = append(out, sectorResponse{Sector: sec.Sector, Change: sec.Change, StockCount: sec.StockCount})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}
