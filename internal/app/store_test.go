package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bid-lifecycle/internal/config"
	model "bid-lifecycle/internal/models"
	"bid-lifecycle/internal/repository"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StoreDriver: config.DriverMemory,
		RetryConfig: config.RetryConfig{Attempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, FanOutConcurrency: 2},
		NotificationConfig: config.NotificationConfig{
			Workers: 1, QueueSize: 8, DeliveryAttempts: 1,
		},
	}
}

func TestOpenStore_MemorySeed(t *testing.T) {
	ctx := context.Background()

	store, err := OpenStore(ctx, memoryConfig())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SeedDemoData(ctx))
	// seeding twice overwrites rather than duplicates
	require.NoError(t, store.SeedDemoData(ctx))

	req, err := store.GetServiceRequest(ctx, "req-1")
	require.NoError(t, err)
	require.Equal(t, model.RequestPending, req.Status)
	require.Equal(t, "customer-1", req.CustomerID)

	c, err := store.GetContractor(ctx, "contractor-2")
	require.NoError(t, err)
	require.Equal(t, "Handy Crew", c.BusinessName)

	all, err := store.FindServiceRequests(ctx, model.ServiceRequestFilter{CustomerID: "customer-1"})
	require.NoError(t, err)
	require.Len(t, all, len(demoRequests))
}

func TestNewDispatcher_PersistsInApp(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()

	store, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()

	d := NewDispatcher(cfg, store)
	require.NoError(t, d.Dispatch(ctx, model.Notification{
		Type:            model.NotificationQuoteReceived,
		RecipientUserID: "customer-1",
		Title:           "New quote",
	}))

	closeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, d.Close(closeCtx))

	repo, ok := store.MarketplaceDB.(*repository.MemoryRepo)
	require.True(t, ok)
	stored := repo.Notifications("customer-1")
	require.Len(t, stored, 1)
	require.ElementsMatch(t, []model.Channel{model.ChannelInApp, model.ChannelPush, model.ChannelEmail}, stored[0].Channels)
}
