package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/Cheertaboi/storefront-cart/internal/api"
	"github.com/Cheertaboi/storefront-cart/internal/repository"
	"github.com/Cheertaboi/storefront-cart/internal/service"
	"github.com/Cheertaboi/storefront-cart/pkg/config"
	"github.com/Cheertaboi/storefront-cart/pkg/db"
	"github.com/Cheertaboi/storefront-cart/pkg/logger"
	"github.com/Cheertaboi/storefront-cart/pkg/shutdown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "cart-service", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	svc, closeStore, err := buildServices(ctx, cfg, log)
	if err != nil {
		log.Error("store init failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer closeStore()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      api.NewRouter(svc, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting cart-service", slog.String("addr", srv.Addr), slog.String("store", cfg.Server.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")
		shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer stop()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("server stopped")
}

func buildServices(ctx context.Context, cfg config.Config, log *slog.Logger) (api.Services, func(), error) {
	var (
		carts     service.CartRepo
		customers service.CustomerRepo
		orders    service.OrderRepo
		closer    = func() {}
	)

	switch cfg.Server.StoreDriver {
	case "memory":
		mem := repository.NewMemory()
		carts, customers, orders = mem.Carts(), mem.Customers(), mem.Orders()
	default:
		conn, err := openPostgres(ctx)
		if err != nil {
			return api.Services{}, nil, err
		}
		carts = repository.NewCartRepo(conn)
		customers = repository.NewCustomerRepo(conn)
		orders = repository.NewOrderRepo(conn)
		closer = func() { conn.Close() }
	}

	return api.Services{
		Carts:     service.NewCartService(carts, log),
		Customers: service.NewCustomerService(customers, log),
		Orders:    service.NewOrderService(orders, customers, log),
	}, closer, nil
}

func openPostgres(ctx context.Context) (*sql.DB, error) {
	pgCfg, err := db.LoadPostgresConfig()
	if err != nil {
		return nil, err
	}
	conn, err := db.NewPostgresConnection(pgCfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
