// Package server boots the whole application: config, database, cache,
// storage, queue workers, the scheduler, the HTTP API and the internal
// gRPC endpoint, then runs until a shutdown signal.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/jobs"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/app/routes"
	"github.com/binodghimire/agrihaat/app/services"
	"github.com/binodghimire/agrihaat/config"
	"github.com/binodghimire/agrihaat/pkg/cache"
	"github.com/binodghimire/agrihaat/pkg/database"
	grpcserver "github.com/binodghimire/agrihaat/pkg/grpc"
	"github.com/binodghimire/agrihaat/pkg/logger"
	"github.com/binodghimire/agrihaat/pkg/notification"
	"github.com/binodghimire/agrihaat/pkg/queue"
	"github.com/binodghimire/agrihaat/pkg/router"
	"github.com/binodghimire/agrihaat/pkg/schedule"
	"github.com/binodghimire/agrihaat/pkg/storage"
	"github.com/binodghimire/agrihaat/pkg/ws"
)

const shutdownTimeout = 10 * time.Second

func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if config.MongoURI() != "" {
		if handler, err := logger.EnableMongoSink(); err != nil {
			logger.Warn("mongo log sink disabled", "error", err.Error())
		} else {
			defer handler.Close()
		}
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, falling back to in-process defaults", "error", err.Error())
	}
	storage.Connect()
	notification.SetSlackWebhook(config.SlackWebhook())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	go hub.Run()

	// Background work. With Redis up, jobs survive restarts; otherwise
	// the in-memory driver keeps development working.
	jobs.RegisterAll()
	queue.UseDB(db)
	if rdb := cache.Client(); rdb != nil {
		queue.SetDriver(queue.NewRedisDriver(rdb))
	}
	queue.StartWorkers(ctx, 4)

	deps := buildDeps(db, hub)

	schedule.EveryMinute().Name("expire_stale_orders").WithoutOverlapping().Run(func() {
		n, err := deps.Orders.ExpireStalePending(config.PendingOrderTTL())
		if err != nil {
			logger.Error("stale order sweep failed", "error", err.Error())
			return
		}
		if n > 0 {
			logger.Info("stale pending orders cancelled", "count", n)
		}
	})
	go schedule.Start(ctx)

	r := router.New()
	routes.RegisterAPI(r, deps)

	grpcSrv, _, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		return err
	}
	defer grpcserver.Stop(grpcSrv)

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("agrihaat listening", "port", config.AppPort(), "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildDeps wires repositories into services. Checkout and order
// transitions go through the transactional store; everything else talks
// to its repository directly.
func buildDeps(db *gorm.DB, hub *ws.Hub) routes.Deps {
	users := repositories.NewUserRepository(db)
	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db)
	reviews := repositories.NewReviewRepository(db)
	wishlist := repositories.NewWishlistRepository(db)
	messages := repositories.NewMessageRepository(db)
	notifications := repositories.NewNotificationRepository(db)

	store := services.NewGormStore(db)

	var cartStore services.CartStore
	if rdb := cache.Client(); rdb != nil {
		cartStore = services.NewRedisCartStore(rdb)
	} else {
		cartStore = services.NewMemoryCartStore()
	}

	notifySvc := services.NewNotificationService(notifications, users, products, hub)
	notifySvc.Bootstrap()

	return routes.Deps{
		Auth:          services.NewAuthService(users),
		Catalog:       services.NewCatalogService(products),
		Cart:          services.NewCartService(cartStore),
		Checkout:      services.NewCheckoutService(store),
		Orders:        services.NewOrderService(store, orders),
		Reviews:       services.NewReviewService(reviews, orders),
		Wishlist:      services.NewWishlistService(wishlist, products),
		Chat:          services.NewChatService(messages, users, hub),
		Notifications: notifySvc,
		Admin:         services.NewAdminService(users, products, orders),
		Hub:           hub,
	}
}
