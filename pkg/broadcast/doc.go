// Package broadcast provides generic one-to-many message fan-out.
//
// Basic usage:
//
//	b := broadcast.NewMemoryBroadcaster[string](10)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	_ = b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"})
//
//	for msg := range sub.Receive(ctx) {
//		fmt.Println(msg.Data)
//	}
//
// A subscriber is removed when its context is cancelled, when its buffer is
// full at broadcast time, or when the broadcaster is closed.
package broadcast
