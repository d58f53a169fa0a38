package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/finfolio-backend/internal/adapter/grpc"
	finfoliov1 "github.com/simaogato/finfolio-backend/internal/adapter/grpc/finfolio/v1"
	"github.com/simaogato/finfolio-backend/internal/adapter/rest"
	"github.com/simaogato/finfolio-backend/internal/config"
	"github.com/simaogato/finfolio-backend/internal/di"
	"github.com/simaogato/finfolio-backend/internal/logger"
	"github.com/simaogato/finfolio-backend/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Bool("demo_mode", cfg.DemoMode).
		Bool("live_quotes", cfg.AlphaVantageAPIKey != "").
		Msg("Starting finfolio")

	// 2. Persistence, quote providers and the portfolio store
	ctx := context.Background()
	container, err := di.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close services")
		}
	}()

	// 3. Background jobs
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.RefreshSchedule, scheduler.NewRefreshJob(container.Store, scheduler.DefaultJobTimeout)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule portfolio refresh")
	}
	if err := sched.AddJob(cfg.AlertSchedule, scheduler.NewAlertJob(container.Store, scheduler.DefaultJobTimeout, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule alert checks")
	}
	sched.Start()

	// 4. gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	finfoliov1.RegisterPortfolioServiceServer(grpcServer, grpcadapter.NewServer(container.Store))
	reflection.Register(grpcServer)

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", grpcAddr).Msg("Failed to listen")
	}
	go func() {
		log.Info().Str("addr", grpcAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("gRPC server stopped with error")
		}
	}()

	// 5. HTTP server
	httpServer := rest.New(rest.Config{
		Port:        cfg.HTTPPort,
		Log:         log,
		Store:       container.Store,
		Quotes:      container.Quotes,
		Market:      container.Market,
		Currency:    container.Currency,
		APIToken:    cfg.APIToken,
		CORSOrigins: cfg.CORSOrigins,
		DevMode:     cfg.LogPretty,
	})
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server stopped with error")
		}
	}()

	waitForShutdown(log, grpcServer, httpServer, sched)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(log zerolog.Logger, grpcServer *grpclib.Server, httpServer *rest.Server, sched *scheduler.Scheduler) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server forced to shutdown")
	}

	grpcServer.GracefulStop()
	log.Info().Msg("Servers stopped")
}
