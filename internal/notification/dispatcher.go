package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	model "bid-lifecycle/internal/models"
	"bid-lifecycle/utils"
)

var (
	ErrQueueFull        = errors.New("notification queue full")
	ErrDispatcherClosed = errors.New("notification dispatcher closed")
)

// Dispatcher accepts notifications for asynchronous delivery. A nil error
// means the notification was queued, not that it reached anyone.
type Dispatcher interface {
	Dispatch(ctx context.Context, n model.Notification) error
}

// Store persists in-app notification records
type Store interface {
	CreateNotification(ctx context.Context, n model.Notification) error
}

// Sender delivers a notification on one external channel
type Sender interface {
	Channel() model.Channel
	Send(ctx context.Context, n model.Notification) error
}

// QueueDispatcher buffers notifications and delivers them from a fixed pool
// of workers. In-app records go to the Store; every other channel goes to
// the registered Sender for it.
type QueueDispatcher struct {
	store           Store
	senders         map[model.Channel]Sender
	policy          utils.RetryPolicy
	workers         int
	deliveryTimeout time.Duration
	defaultChannels []model.Channel

	queue     chan model.Notification
	mu        sync.RWMutex
	closed    bool
	startOnce sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ Dispatcher = (*QueueDispatcher)(nil)

type Option func(*QueueDispatcher)

func WithWorkers(n int) Option {
	return func(d *QueueDispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(d *QueueDispatcher) {
		if n > 0 {
			d.queue = make(chan model.Notification, n)
		}
	}
}

func WithRetryPolicy(p utils.RetryPolicy) Option {
	return func(d *QueueDispatcher) {
		d.policy = p
	}
}

func WithSender(s Sender) Option {
	return func(d *QueueDispatcher) {
		d.senders[s.Channel()] = s
	}
}

// NewQueueDispatcher builds a dispatcher; call Start before dispatching.
func NewQueueDispatcher(store Store, opts ...Option) *QueueDispatcher {
	d := &QueueDispatcher{
		store:           store,
		senders:         make(map[model.Channel]Sender),
		policy:          utils.DefaultRetryPolicy,
		workers:         4,
		deliveryTimeout: 5 * time.Second,
		defaultChannels: []model.Channel{model.ChannelInApp},
		queue:           make(chan model.Notification, 256),
	}
	for _, opt := range opts {
		opt(d)
	}
	for channel := range d.senders {
		d.defaultChannels = append(d.defaultChannels, channel)
	}
	return d
}

// Start launches the delivery workers
func (d *QueueDispatcher) Start() {
	d.startOnce.Do(func() {
		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.work()
		}
	})
}

// Dispatch queues n without blocking
func (d *QueueDispatcher) Dispatch(_ context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = utils.GenerateID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if len(n.Channels) == 0 {
		n.Channels = append([]model.Channel(nil), d.defaultChannels...)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- n:
		return nil
	default:
		return fmt.Errorf("dispatch %s to %s: %w", n.Type, n.RecipientUserID, ErrQueueFull)
	}
}

// Close stops accepting notifications and waits for the queue to drain or
// ctx to end, whichever comes first.
func (d *QueueDispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification.QueueDispatcher.Close: %w", ctx.Err())
	}
}

func (d *QueueDispatcher) work() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *QueueDispatcher) deliver(n model.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.deliveryTimeout)
	defer cancel()

	var g errgroup.Group
	for _, channel := range n.Channels {
		channel := channel
		g.Go(func() error {
			return d.deliverOn(ctx, channel, n)
		})
	}

	if err := g.Wait(); err != nil {
		utils.Error("notification delivery failed", map[string]any{
			"notification_id": n.ID,
			"type":            n.Type,
			"recipient":       n.RecipientUserID,
			"error":           err.Error(),
		})
		return
	}
	utils.Debug("notification delivered", map[string]any{
		"notification_id": n.ID,
		"type":            n.Type,
		"recipient":       n.RecipientUserID,
	})
}

func (d *QueueDispatcher) deliverOn(ctx context.Context, channel model.Channel, n model.Notification) error {
	var send func(context.Context) error
	if channel == model.ChannelInApp {
		send = func(ctx context.Context) error { return d.store.CreateNotification(ctx, n) }
	} else if sender, ok := d.senders[channel]; ok {
		send = func(ctx context.Context) error { return sender.Send(ctx, n) }
	} else {
		utils.Warn("no sender for notification channel", map[string]any{"channel": channel, "notification_id": n.ID})
		return nil
	}

	if err := utils.Retry(ctx, d.policy, nil, send); err != nil {
		return fmt.Errorf("channel %s: %w", channel, err)
	}
	return nil
}
