package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/opaline/storefront/internal/config"
	"github.com/opaline/storefront/internal/database"
	"github.com/opaline/storefront/internal/handlers"
	"github.com/opaline/storefront/internal/payments"
	"github.com/opaline/storefront/internal/repository"
	"github.com/opaline/storefront/internal/routes"
	"github.com/opaline/storefront/internal/service"
	"github.com/opaline/storefront/pkg/cache"
	"github.com/opaline/storefront/pkg/logger"
	"github.com/opaline/storefront/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the config file")
	flag.Parse()

	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}
	defer db.Close()

	store := repository.NewMySQLStore(db)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		if err := m.Register(); err != nil {
			logger.Fatal("metrics registration failed", "error", err)
		}
	}

	var catalogCache service.CatalogCache
	if cfg.Redis.Enabled {
		rc, err := cache.New(cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal("redis connection failed", "error", err)
		}
		defer rc.Close()
		catalogCache = rc
	}

	stripe := payments.NewStripeClient(cfg.Stripe.BaseURL, cfg.Stripe.SecretKey)
	paypal := payments.NewPayPalClient(cfg.PayPal.BaseURL, cfg.PayPal.ClientID,
		cfg.PayPal.ClientSecret, cfg.PayPal.ReturnURL, cfg.PayPal.CancelURL)

	users := service.NewUserService(store)
	products := service.NewProductService(store, catalogCache,
		time.Duration(cfg.Redis.CatalogTTL)*time.Second, m)
	cart := service.NewCartService(store)
	wishlist := service.NewWishlistService(store)
	orders := service.NewOrderService(store, m)
	pay := service.NewPaymentService(store, stripe, paypal, "usd", m)

	h := handlers.New(cfg, store, users, products, cart, wishlist, orders, pay, m)
	router := routes.Setup(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepOverdueOrders(rootCtx, cfg, orders)

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// sweepOverdueOrders periodically cancels orders that sat pending and
// unpaid longer than the configured age.
func sweepOverdueOrders(ctx context.Context, cfg *config.Config, orders *service.OrderService) {
	interval := time.Duration(cfg.Orders.SweepInterval) * time.Minute
	maxAge := time.Duration(cfg.Orders.OverdueAfterHours) * time.Hour

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := orders.CancelOverdue(ctx, maxAge); err != nil {
				logger.Error("overdue order sweep failed", "error", err)
			}
		}
	}
}
