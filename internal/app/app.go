package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bidding "bid-lifecycle/internal/biddingService"
	"bid-lifecycle/internal/config"
	model "bid-lifecycle/internal/models"
	"bid-lifecycle/internal/notification"
	"bid-lifecycle/internal/server"
	"bid-lifecycle/utils"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg        *config.Config
	store      *Store
	dispatcher *notification.QueueDispatcher
	service    *bidding.BiddingService
}

type option func(*App)

func WithConfig(cfg *config.Config) option {
	return func(app *App) {
		app.cfg = cfg
	}
}

// NewApp wires the store, notification pipeline and bidding service
func NewApp(ctx context.Context, opts ...option) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}

	if app.cfg == nil {
		cfg, err := config.NewConfig()
		if err != nil {
			return nil, err
		}
		app.cfg = cfg
	}
	utils.SetLevel(app.cfg.LogLevel)

	store, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return nil, err
	}
	app.store = store

	if app.cfg.SeedDemoData {
		if err := store.SeedDemoData(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}

	app.dispatcher = NewDispatcher(app.cfg, store)
	app.service = bidding.NewBiddingService(store, app.dispatcher,
		bidding.WithRetryPolicy(app.cfg.RetryConfig.Policy()),
		bidding.WithFanOutConcurrency(app.cfg.FanOutConcurrency),
	)
	return app, nil
}

// NewDispatcher builds the notification queue with log-backed push and
// email senders and starts its workers
func NewDispatcher(cfg *config.Config, store notification.Store) *notification.QueueDispatcher {
	policy := cfg.RetryConfig.Policy()
	policy.Attempts = cfg.DeliveryAttempts

	d := notification.NewQueueDispatcher(store,
		notification.WithWorkers(cfg.Workers),
		notification.WithQueueSize(cfg.QueueSize),
		notification.WithRetryPolicy(policy),
		notification.WithSender(notification.NewLogSender(model.ChannelPush)),
		notification.WithSender(notification.NewLogSender(model.ChannelEmail)),
	)
	d.Start()
	return d
}

// Run serves HTTP until SIGINT/SIGTERM, then drains in-flight requests and
// queued notifications
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         app.cfg.ServerAddress,
		Handler:      server.SetupRouter(app.service, app.cfg.DecideTimeout),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	utils.Info("server started", map[string]any{
		"address":      app.cfg.ServerAddress,
		"store_driver": app.cfg.StoreDriver,
	})

	var runErr error
	select {
	case <-ctx.Done():
		utils.Info("shutdown signal received", nil)
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("app.Run: %w", err)
		}
	}

	timeout, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(timeout); err != nil {
		utils.Error("http server shutdown failed", map[string]any{"error": err.Error()})
	}
	if err := app.dispatcher.Close(timeout); err != nil {
		utils.Warn("notification queue not drained", map[string]any{"error": err.Error()})
	}
	app.store.Close()

	utils.Info("server stopped", nil)
	return runErr
}
