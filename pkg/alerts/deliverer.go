package alerts

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/alertkit/pkg/broadcast"
	"github.com/dmitrymomot/alertkit/pkg/logger"
)

// Deliverer pushes a published alert to one member of its audience.
type Deliverer interface {
	Deliver(ctx context.Context, userID int64, alert *Alert) error
}

// NoOpDeliverer discards every delivery.
type NoOpDeliverer struct{}

func (NoOpDeliverer) Deliver(context.Context, int64, *Alert) error {
	return nil
}

// FeedDeliverer keeps one in-memory feed per user. Transport layers call
// Subscribe to stream a user's alerts as they are published.
type FeedDeliverer struct {
	feeds      map[int64]*broadcast.MemoryBroadcaster[*Alert]
	bufferSize int
	logger     *slog.Logger
	closed     bool
	mu         sync.Mutex
}

// FeedOption configures a FeedDeliverer.
type FeedOption func(*FeedDeliverer)

// WithFeedLogger sets the logger for the FeedDeliverer. A nil logger is ignored.
func WithFeedLogger(l *slog.Logger) FeedOption {
	return func(d *FeedDeliverer) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewFeedDeliverer creates a deliverer whose subscribers buffer up to
// bufferSize alerts before they are dropped as slow consumers.
func NewFeedDeliverer(bufferSize int, opts ...FeedOption) *FeedDeliverer {
	d := &FeedDeliverer{
		feeds:      make(map[int64]*broadcast.MemoryBroadcaster[*Alert]),
		bufferSize: bufferSize,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Deliver pushes the alert to every active subscriber of the user's feed.
// Users without subscribers are skipped.
func (d *FeedDeliverer) Deliver(ctx context.Context, userID int64, alert *Alert) error {
	d.mu.Lock()
	feed, ok := d.feeds[userID]
	d.mu.Unlock()

	if !ok || feed.Len() == 0 {
		return nil
	}

	return feed.Broadcast(ctx, broadcast.Message[*Alert]{Data: alert})
}

// Subscribe opens a stream of alerts delivered to the user.
// The subscription ends when ctx is cancelled or the subscriber is closed.
func (d *FeedDeliverer) Subscribe(ctx context.Context, userID int64) broadcast.Subscriber[*Alert] {
	d.mu.Lock()
	defer d.mu.Unlock()

	feed, ok := d.feeds[userID]
	if !ok {
		feed = broadcast.NewMemoryBroadcaster[*Alert](d.bufferSize)
		if d.closed {
			_ = feed.Close()
		} else {
			d.feeds[userID] = feed
		}
	}

	sub := feed.Subscribe(ctx)
	d.logger.LogAttrs(ctx, slog.LevelDebug, "feed subscriber attached",
		logger.UserID(userID),
		logger.SubscriberID(sub.ID()),
	)

	return sub
}

// Subscribers returns the number of active subscribers on the user's feed.
func (d *FeedDeliverer) Subscribers(userID int64) int {
	d.mu.Lock()
	feed, ok := d.feeds[userID]
	d.mu.Unlock()

	if !ok {
		return 0
	}
	return feed.Len()
}

// Close closes every feed. Later subscriptions receive closed subscribers.
func (d *FeedDeliverer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	for userID, feed := range d.feeds {
		if err := feed.Close(); err != nil {
			d.logger.LogAttrs(context.Background(), slog.LevelError, "failed to close feed",
				logger.UserID(userID),
				logger.Error(err),
			)
		}
	}
	clear(d.feeds)

	return nil
}
