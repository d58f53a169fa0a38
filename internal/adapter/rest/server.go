package rest

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/simaogato/finfolio-backend/internal/adapter/format"
	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/portfolio"
	"github.com/simaogato/finfolio-backend/internal/usecase/quotes"
)

// GlobalQuotes serves single global quotes
type GlobalQuotes interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

// RegionalMarket serves the regional market overview
type RegionalMarket interface {
	SearchStocks(ctx context.Context, query string, facets quotes.Facets) ([]domain.RegionalSearchResult, error)
	PopularStocks(ctx context.Context, facets quotes.Facets) ([]domain.RegionalStock, error)
	MarketIndices(ctx context.Context) ([]domain.MarketIndex, error)
	SectorPerformance(ctx context.Context) ([]domain.SectorPerformance, error)
}

// Config holds server configuration
type Config struct {
	Port        int
	Log         zerolog.Logger
	Store       *portfolio.Store
	Quotes      GlobalQuotes
	Market      RegionalMarket
	Currency    *format.Currency
	APIToken    string
	CORSOrigins []string
	DevMode     bool
}

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	store    *portfolio.Store
	quotes   GlobalQuotes
	market   RegionalMarket
	currency *format.Currency
	token    string
	origins  []string
	port     int
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	currency := cfg.Currency
	if currency == nil {
		currency = format.NewCurrency(format.DefaultCurrency)
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		store:    cfg.Store,
		quotes:   cfg.Quotes,
		market:   cfg.Market,
		currency: currency,
		token:    cfg.APIToken,
		origins:  origins,
		port:     cfg.Port,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.DevMode)

	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: /api/stream holds its connection open
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware shared by every route
func (s *Server) setupMiddleware() {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(devMode bool) {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// Long-lived; kept out of the request timeout
			r.Get("/stream", s.handleStream)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(60 * time.Second))
				if !devMode {
					r.Use(middleware.Compress(5))
				}

				r.Get("/portfolio", s.handleGetPortfolio)
				r.Get("/analytics", s.handleGetAnalytics)
				r.Post("/refresh", s.handleRefresh)

				r.Route("/portfolios", func(r chi.Router) {
					r.Get("/", s.handleListPortfolios)
					r.Post("/", s.handleCreatePortfolio)
					r.Put("/current", s.handleSetCurrentPortfolio)
				})

				r.Route("/holdings", func(r chi.Router) {
					r.Post("/", s.handleAddHolding)
					r.Post("/sell", s.handleRecordSell)
					r.Delete("/{id}", s.handleRemoveHolding)
				})

				r.Route("/watchlist", func(r chi.Router) {
					r.Get("/", s.handleGetWatchlist)
					r.Post("/", s.handleAddToWatchlist)
					r.Delete("/{symbol}", s.handleRemoveFromWatchlist)
				})

				r.Get("/transactions", s.handleListTransactions)

				r.Route("/alerts", func(r chi.Router) {
					r.Get("/", s.handleListAlerts)
					r.Post("/", s.handleCreateAlert)
					r.Post("/check", s.handleCheckAlerts)
					r.Delete("/{id}", s.handleDeleteAlert)
				})

				r.Get("/stocks/search", s.handleSearchStocks)
				r.Get("/quotes/{symbol}", s.handleGetQuote)

				r.Route("/market/in", func(r chi.Router) {
					r.Get("/search", s.handleMarketSearch)
					r.Get("/popular", s.handleMarketPopular)
					r.Get("/indices", s.handleMarketIndices)
					r.Get("/sectors", s.handleMarketSectors)
				})
			})
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// authMiddleware requires "Authorization: Bearer <token>".
// Browsers cannot set headers on a websocket handshake, so ?token= is accepted too.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("Authorization"))
		if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token == "" {
			token = r.URL.Query().Get("token")
		}

		if s.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
