// reconciler repairs service requests left half-assigned by an interrupted
// acceptance and, optionally, expires bids whose validity window has passed.
// It reads the same environment as the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"bid-lifecycle/internal/app"
	bidding "bid-lifecycle/internal/biddingService"
	"bid-lifecycle/internal/config"
	model "bid-lifecycle/internal/models"
	"bid-lifecycle/utils"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type report struct {
	Reconciled []model.ReconcileResult `json:"reconciled"`
	Expired    []string                `json:"expired_bid_ids,omitempty"`
}

func run(args []string) error {
	var (
		requestID string
		expire    bool
		timeout   time.Duration
	)

	flagSet := pflag.NewFlagSet("reconciler", pflag.ContinueOnError)
	flagSet.StringVar(&requestID, "request", "", "reconcile a single service request instead of every claimed one")
	flagSet.BoolVar(&expire, "expire", false, "also expire pending bids past their valid_until")
	flagSet.DurationVar(&timeout, "timeout", time.Minute, "overall deadline for the pass")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintln(os.Stderr, "Usage: reconciler [flags]")
		flagSet.PrintDefaults()
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if cfg.StoreDriver == config.DriverMemory {
		// a fresh in-memory store has nothing to repair
		return fmt.Errorf("reconciler needs a persistent store, STORE_DRIVER is %q", cfg.StoreDriver)
	}
	utils.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	dispatcher := app.NewDispatcher(cfg, store)
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := dispatcher.Close(closeCtx); err != nil {
			utils.Warn("notification queue not drained", map[string]any{"error": err.Error()})
		}
	}()

	svc := bidding.NewBiddingService(store, dispatcher,
		bidding.WithRetryPolicy(cfg.RetryConfig.Policy()),
		bidding.WithFanOutConcurrency(cfg.FanOutConcurrency),
	)

	var out report
	var runErr error
	if requestID != "" {
		result, err := svc.Reconcile(ctx, requestID)
		if err != nil {
			return fmt.Errorf("reconcile %s: %w", requestID, err)
		}
		out.Reconciled = []model.ReconcileResult{result}
	} else {
		out.Reconciled, runErr = svc.ReconcileAll(ctx)
	}

	if expire {
		expired, err := svc.ExpireStale(ctx)
		out.Expired = expired
		runErr = errors.Join(runErr, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	return runErr
}
