package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster is an in-process Broadcaster.
// All methods are safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	subscribers map[string]*subscriber[T]
	bufferSize  int
	closed      bool
	mu          sync.RWMutex
	watchers    sync.WaitGroup
}

// NewMemoryBroadcaster creates a broadcaster whose subscribers buffer up to
// bufferSize messages. Buffers smaller than 1 are raised to 1.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		subscribers: make(map[string]*subscriber[T]),
		bufferSize:  max(bufferSize, 1),
	}
}

// Subscribe registers a new subscriber. It is removed when ctx is done or
// when the subscriber is closed.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscriber[T](b.bufferSize)
	if b.closed {
		_ = sub.Close()
		return sub
	}

	sub.onClose = func() { b.remove(sub.id) }
	b.subscribers[sub.id] = sub

	if done := ctx.Done(); done != nil {
		b.watchers.Add(1)
		go func() {
			defer b.watchers.Done()
			select {
			case <-done:
				b.remove(sub.id)
			case <-sub.done:
			}
		}()
	}

	return sub
}

// Broadcast delivers msg to every subscriber that has room for it.
// Subscribers with a full buffer are dropped.
func (b *MemoryBroadcaster[T]) Broadcast(_ context.Context, msg Message[T]) error {
	b.mu.RLock()
	var stale []string
	if !b.closed {
		for id, sub := range b.subscribers {
			if !sub.send(msg) {
				stale = append(stale, id)
			}
		}
	}
	b.mu.RUnlock()

	for _, id := range stale {
		b.remove(id)
	}

	return nil
}

// Len returns the number of active subscribers.
func (b *MemoryBroadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscribers. Safe to call more than once.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := make([]*subscriber[T], 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	clear(b.subscribers)
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}

	return nil
}

// Wait blocks until every context watcher goroutine has exited.
// A watcher exits when its subscription context is done or its
// subscriber is closed.
func (b *MemoryBroadcaster[T]) Wait() {
	b.watchers.Wait()
}

// remove unregisters the subscriber and closes it. Close calls back into
// remove, which finds nothing the second time.
func (b *MemoryBroadcaster[T]) remove(id string) {
	b.mu.Lock()
	sub, ok := b.subscribers[id]
	delete(b.subscribers, id)
	b.mu.Unlock()

	if ok {
		_ = sub.Close()
	}
}
