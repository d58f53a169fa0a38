package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	finfoliov1 "github.com/simaogato/finfolio-backend/internal/adapter/grpc/finfolio/v1"
	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/portfolio"
)

// Server implements the PortfolioService gRPC server
type Server struct {
	finfoliov1.UnimplementedPortfolioServiceServer

	Store *portfolio.Store
}

// NewServer creates a new gRPC server instance
func NewServer(store *portfolio.Store) *Server {
	return &Server{Store: store}
}

// AddHolding handles the AddHolding RPC
func (s *Server) AddHolding(ctx context.Context, req *finfoliov1.AddHoldingRequest) (*finfoliov1.AddHoldingResponse, error) {
	quantity, price, err := parseTrade(req.Quantity, req.Price)
	if err != nil {
		return nil, err
	}

	view, err := s.Store.AddHolding(ctx, req.Symbol, quantity, price)
	if err != nil {
		return nil, mapError(err)
	}

	return &finfoliov1.AddHoldingResponse{Holding: holdingToProto(*view)}, nil
}

// RecordSell handles the RecordSell RPC
func (s *Server) RecordSell(ctx context.Context, req *finfoliov1.RecordSellRequest) (*finfoliov1.RecordSellResponse, error) {
	quantity, price, err := parseTrade(req.Quantity, req.Price)
	if err != nil {
		return nil, err
	}

	result, err := s.Store.RecordSell(ctx, req.Symbol, quantity, price)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &finfoliov1.RecordSellResponse{
		TransactionId:    result.Transaction.ID.String(),
		RealizedGainLoss: result.Realized.String(),
		CreatedAt:        finfoliov1.NewTimestamp(result.Transaction.TransactionDate),
	}
	if result.Remaining != nil {
		resp.Remaining = holdingToProto(*result.Remaining)
	}
	return resp, nil
}

// RemoveHolding handles the RemoveHolding RPC
func (s *Server) RemoveHolding(ctx context.Context, req *finfoliov1.RemoveHoldingRequest) (*emptypb.Empty, error) {
	id, err := uuid.Parse(req.HoldingId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid holding_id format: %v", err)
	}

	if err := s.Store.RemoveHolding(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return &emptypb.Empty{}, nil
}

// AddToWatchlist handles the AddToWatchlist RPC
func (s *Server) AddToWatchlist(ctx context.Context, req *finfoliov1.AddToWatchlistRequest) (*finfoliov1.AddToWatchlistResponse, error) {
	item, err := s.Store.AddToWatchlist(ctx, req.Symbol, req.CompanyName)
	if err != nil {
		return nil, mapError(err)
	}

	// Prefer the enriched row of the latest snapshot
	row := domain.WatchlistRow{WatchlistItem: *item}
	for _, r := range s.Store.Snapshot().Watchlist {
		if r.Symbol == item.Symbol {
			row = r
			break
		}
	}
	return &finfoliov1.AddToWatchlistResponse{Item: watchlistRowToProto(row)}, nil
}

// RemoveFromWatchlist handles the RemoveFromWatchlist RPC
func (s *Server) RemoveFromWatchlist(ctx context.Context, req *finfoliov1.RemoveFromWatchlistRequest) (*emptypb.Empty, error) {
	if err := s.Store.RemoveFromWatchlist(ctx, req.Symbol); err != nil {
		return nil, mapError(err)
	}
	return &emptypb.Empty{}, nil
}

// SearchStocks handles the SearchStocks RPC
func (s *Server) SearchStocks(ctx context.Context, req *finfoliov1.SearchStocksRequest) (*finfoliov1.SearchStocksResponse, error) {
	quotes, err := s.Store.SearchStocks(ctx, req.Query)
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]*finfoliov1.Quote, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, quoteToProto(q))
	}
	return &finfoliov1.SearchStocksResponse{Quotes: out}, nil
}

// GetPortfolio handles the GetPortfolio RPC
func (s *Server) GetPortfolio(ctx context.Context, req *finfoliov1.GetPortfolioRequest) (*finfoliov1.GetPortfolioResponse, error) {
	snap := s.Store.Snapshot()
	if !snap.Ready() {
		return nil, mapError(fmt.Errorf("store is %s: %w", snap.Phase, domain.ErrNotReady))
	}
	return stateToProto(snap), nil
}

// RefreshData handles the RefreshData RPC
func (s *Server) RefreshData(ctx context.Context, req *finfoliov1.RefreshDataRequest) (*finfoliov1.GetPortfolioResponse, error) {
	if err := s.Store.RefreshData(ctx); err != nil {
		return nil, mapError(err)
	}
	return s.GetPortfolio(ctx, &finfoliov1.GetPortfolioRequest{})
}

func parseTrade(quantityStr, priceStr string) (decimal.Decimal, decimal.Decimal, error) {
	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid quantity format: %v", err)
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid price format: %v", err)
	}
	return quantity, price, nil
}

func holdingToProto(v domain.HoldingView) *finfoliov1.Holding {
	return &finfoliov1.Holding{
		Id:              v.ID.String(),
		Symbol:          v.Symbol,
		CompanyName:     v.CompanyName,
		Quantity:        v.Quantity.String(),
		AveragePrice:    v.AveragePrice.String(),
		CurrentPrice:    v.CurrentPrice.String(),
		TotalValue:      v.TotalValue.String(),
		TotalCost:       v.TotalCost.String(),
		GainLoss:        v.GainLoss.String(),
		GainLossPercent: v.GainLossPercent.String(),
		UpdatedAt:       finfoliov1.NewTimestamp(v.UpdatedAt),
	}
}

func watchlistRowToProto(r domain.WatchlistRow) *finfoliov1.WatchlistItem {
	item := &finfoliov1.WatchlistItem{
		Id:            r.ID.String(),
		Symbol:        r.Symbol,
		CompanyName:   r.CompanyName,
		Price:         r.Price.String(),
		Change:        r.Change.String(),
		ChangePercent: r.ChangePercent.String(),
		CreatedAt:     finfoliov1.NewTimestamp(r.CreatedAt),
	}
	if r.AlertPrice != nil {
		item.AlertPrice = r.AlertPrice.String()
	}
	return item
}

func quoteToProto(q domain.Quote) *finfoliov1.Quote {
	out := &finfoliov1.Quote{
		Symbol:        q.Symbol,
		Name:          q.Name,
		Price:         q.Price.String(),
		Change:        q.Change.String(),
		ChangePercent: q.ChangePercent.String(),
		Volume:        q.Volume,
	}
	if q.MarketCap != nil {
		out.MarketCap = q.MarketCap.String()
	}
	return out
}

func transactionToProto(tx domain.Transaction) *finfoliov1.Transaction {
	return &finfoliov1.Transaction{
		Id:               tx.ID.String(),
		Symbol:           tx.Symbol,
		CompanyName:      tx.CompanyName,
		Type:             string(tx.Type),
		Quantity:         tx.Quantity.String(),
		Price:            tx.Price.String(),
		TotalAmount:      tx.TotalAmount.String(),
		RealizedGainLoss: tx.RealizedGainLoss.String(),
		TransactionDate:  finfoliov1.NewTimestamp(tx.TransactionDate),
	}
}

func stateToProto(st portfolio.State) *finfoliov1.GetPortfolioResponse {
	resp := &finfoliov1.GetPortfolioResponse{
		PortfolioId:   st.Portfolio.ID.String(),
		PortfolioName: st.Portfolio.Name,
		Holdings:      make([]*finfoliov1.Holding, 0, len(st.Holdings)),
		Summary: &finfoliov1.Summary{
			TotalValue:           st.Summary.TotalValue.String(),
			TotalCost:            st.Summary.TotalCost.String(),
			TotalGainLoss:        st.Summary.TotalGainLoss.String(),
			TotalGainLossPercent: st.Summary.TotalGainLossPercent.String(),
		},
		Watchlist:    make([]*finfoliov1.WatchlistItem, 0, len(st.Watchlist)),
		Transactions: make([]*finfoliov1.Transaction, 0, len(st.Transactions)),
		Loading:      st.Loading,
		LastError:    st.LastError,
		UpdatedAt:    finfoliov1.NewTimestamp(st.UpdatedAt),
	}
	for _, h := range st.Holdings {
		resp.Holdings = append(resp.Holdings, holdingToProto(h))
	}
	for _, r := range st.Watchlist {
		resp.Watchlist = append(resp.Watchlist, watchlistRowToProto(r))
	}
	for _, tx := range st.Transactions {
		resp.Transactions = append(resp.Transactions, transactionToProto(tx))
	}
	return resp
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientQuantity), errors.Is(err, domain.ErrNotReady):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrPersistenceConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrTransportFailure), errors.Is(err, domain.ErrMalformedPayload):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
