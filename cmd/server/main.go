package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ordersync-be/internal/checkout"
	"ordersync-be/internal/config"
	"ordersync-be/internal/httpx"
	"ordersync-be/internal/logger"
	"ordersync-be/internal/metrics"
	"ordersync-be/internal/order"
	"ordersync-be/internal/product"
	"ordersync-be/internal/queue"
	"ordersync-be/internal/remote"
	"ordersync-be/internal/stock"
	"ordersync-be/internal/syncer"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	store, err := queue.Open(cfg.QueueDBPath)
	if err != nil {
		logger.L().Fatal("failed to open order queue", zap.Error(err))
	}
	defer store.Close()

	gateway := remote.NewClient(cfg.RemoteAPIURL)

	engine := syncer.NewEngine(store, gateway, &metrics.Sync{})
	cache := product.NewCache()
	productSvc := product.NewService(gateway, cache)
	reconciler := stock.NewReconciler(gateway)
	checkoutSvc := checkout.NewService(store, engine, reconciler, cache, productSvc)
	orderSvc := order.NewService(gateway, store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The connectivity detector is external; it reports restored
	// connectivity via POST /sync, which feeds the engine's trigger
	// channel. Startup always gets one scan.
	go engine.Run(ctx, nil)

	// Warm the listing cache. Starting offline is fine; the cache fills
	// on the first successful refresh.
	if err := productSvc.Refresh(ctx); err != nil {
		logger.L().Warn("initial product refresh failed", zap.Error(err))
	}

	router := httpx.NewRouter(&httpx.Handler{
		Checkout: checkoutSvc,
		Products: productSvc,
		Orders:   orderSvc,
		Sync:     engine,
	})

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.L().Info("server running", zap.String("port", cfg.AppPort))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
