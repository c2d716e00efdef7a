package broadcast

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBroadcaster_Subscribe(t *testing.T) {
	t.Run("subscribe creates active subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NotNil(t, sub)
		assert.NotEmpty(t, sub.ID())
		assert.Equal(t, 1, b.Len())
	})

	t.Run("subscriber ids are unique", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		first := b.Subscribe(context.Background())
		second := b.Subscribe(context.Background())
		assert.NotEqual(t, first.ID(), second.ID())
	})

	t.Run("subscribe after close returns closed subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		require.NoError(t, b.Close())

		sub := b.Subscribe(context.Background())
		_, ok := <-sub.Receive(context.Background())
		assert.False(t, ok)
		assert.Equal(t, 0, b.Len())
	})

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)

		cancel()
		b.Wait()

		assert.Equal(t, 0, b.Len())
		_, ok := <-sub.Receive(context.Background())
		assert.False(t, ok)
	})
}

func TestMemoryBroadcaster_Broadcast(t *testing.T) {
	t.Run("broadcast to multiple subscribers", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](10)
		defer b.Close()

		ctx := context.Background()
		subs := make([]Subscriber[int], 5)
		for i := range subs {
			subs[i] = b.Subscribe(ctx)
		}

		require.NoError(t, b.Broadcast(ctx, Message[int]{Data: 42}))

		for i, sub := range subs {
			select {
			case received := <-sub.Receive(ctx):
				assert.Equal(t, 42, received.Data, "subscriber %d", i)
			case <-time.After(100 * time.Millisecond):
				t.Fatalf("subscriber %d timeout", i)
			}
		}
	})

	t.Run("broadcast after close is safe", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		require.NoError(t, b.Close())

		assert.NoError(t, b.Broadcast(context.Background(), Message[string]{Data: "test"}))
	})

	t.Run("slow subscriber is dropped", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx := context.Background()
		sub := b.Subscribe(ctx)

		require.NoError(t, b.Broadcast(ctx, Message[int]{Data: 1}))
		require.NoError(t, b.Broadcast(ctx, Message[int]{Data: 2}))
		assert.Equal(t, 0, b.Len())

		// The buffered message survives the close.
		msg, ok := <-sub.Receive(ctx)
		require.True(t, ok)
		assert.Equal(t, 1, msg.Data)

		_, ok = <-sub.Receive(ctx)
		assert.False(t, ok)
	})
}

func TestMemoryBroadcaster_Close(t *testing.T) {
	t.Run("close closes all subscribers", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)

		ctx := context.Background()
		subs := make([]Subscriber[string], 3)
		for i := range subs {
			subs[i] = b.Subscribe(ctx)
		}

		require.NoError(t, b.Close())

		for i, sub := range subs {
			_, ok := <-sub.Receive(ctx)
			assert.False(t, ok, "subscriber %d channel should be closed", i)
		}
	})

	t.Run("double close is safe", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		require.NoError(t, b.Close())
		require.NoError(t, b.Close())
	})

	t.Run("subscriber close is idempotent", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NoError(t, sub.Close())
		require.NoError(t, sub.Close())
		assert.Equal(t, 0, b.Len())
	})

	t.Run("subscriber close unregisters and stops its watcher", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		closed := b.Subscribe(ctx)
		kept := b.Subscribe(ctx)
		require.Equal(t, 2, b.Len())

		require.NoError(t, closed.Close())
		assert.Equal(t, 1, b.Len())

		require.NoError(t, kept.Close())
		assert.Equal(t, 0, b.Len())

		// Both watchers exit even though ctx is still alive.
		waited := make(chan struct{})
		go func() {
			b.Wait()
			close(waited)
		}()
		select {
		case <-waited:
		case <-time.After(time.Second):
			t.Fatal("watchers still running after subscribers closed")
		}
	})

	t.Run("close stops watchers of live contexts", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		for range 3 {
			b.Subscribe(ctx)
		}

		require.NoError(t, b.Close())
		assert.Equal(t, 0, b.Len())

		waited := make(chan struct{})
		go func() {
			b.Wait()
			close(waited)
		}()
		select {
		case <-waited:
		case <-time.After(time.Second):
			t.Fatal("watchers still running after broadcaster closed")
		}
	})
}

func TestMemoryBroadcaster_Concurrent(t *testing.T) {
	b := NewMemoryBroadcaster[int](1000)
	defer b.Close()

	ctx := context.Background()
	sub := b.Subscribe(ctx)

	const workers = 10
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func(base int) {
			defer wg.Done()
			for j := range perWorker {
				assert.NoError(t, b.Broadcast(ctx, Message[int]{Data: base*1000 + j}))
			}
		}(i)
	}
	wg.Wait()

	received := make(map[int]bool)
	for range workers * perWorker {
		msg := <-sub.Receive(ctx)
		received[msg.Data] = true
	}
	assert.Len(t, received, workers*perWorker)
}

func BenchmarkMemoryBroadcaster_Broadcast(b *testing.B) {
	broadcaster := NewMemoryBroadcaster[string](100)
	defer broadcaster.Close()

	ctx := context.Background()
	for range 10 {
		sub := broadcaster.Subscribe(ctx)
		go func(s Subscriber[string]) {
			for range s.Receive(ctx) {
			}
		}(sub)
	}

	msg := Message[string]{Data: "benchmark"}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = broadcaster.Broadcast(ctx, msg)
		}
	})
}
