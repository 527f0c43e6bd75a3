// Package livefeed provides a bounded, newest-first change feed shared by the
// audit log and notification history stores. Appends publish into a hub; each
// subscriber receives coalesced full-window snapshots, so a slow consumer can
// never block an append and always converges on the latest state.
package livefeed

import "sync"

// Hub retains the most recent windowSize items, newest first, and fans
// snapshots out to subscribers.
type Hub[T any] struct {
	mu     sync.Mutex
	window []T
	max    int
	subs   map[*Subscription[T]]struct{}
	onSubs func(active int)
}

// Option configures a Hub.
type Option[T any] func(*Hub[T])

// WithSubscriberHook installs a callback invoked with the active
// subscription count whenever it changes.
func WithSubscriberHook[T any](hook func(active int)) Option[T] {
	return func(h *Hub[T]) {
		h.onSubs = hook
	}
}

// NewHub creates a hub retaining at most windowSize items.
func NewHub[T any](windowSize int, opts ...Option[T]) *Hub[T] {
	if windowSize <= 0 {
		windowSize = 100
	}
	h := &Hub[T]{
		max:  windowSize,
		subs: make(map[*Subscription[T]]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Seed replaces the window with items (already newest first). Used once at
// startup to warm the feed from durable storage, before any Publish.
func (h *Hub[T]) Seed(items []T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(items) > h.max {
		items = items[:h.max]
	}
	h.window = append([]T(nil), items...)
}

// Publish prepends item to the window and notifies all subscribers.
func (h *Hub[T]) Publish(item T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.window = append([]T{item}, h.window...)
	if len(h.window) > h.max {
		h.window = h.window[:h.max]
	}

	for sub := range h.subs {
		sub.deliver(h.snapshotLocked(sub.limit))
	}
}

// Snapshot returns the newest-first window truncated to limit.
func (h *Hub[T]) Snapshot(limit int) []T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked(limit)
}

func (h *Hub[T]) snapshotLocked(limit int) []T {
	n := len(h.window)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]T(nil), h.window[:n]...)
}

// Subscribe registers a live observer bounded to the limit most recent
// items. The current snapshot is delivered immediately.
func (h *Hub[T]) Subscribe(limit int) *Subscription[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscription[T]{
		hub:   h,
		limit: limit,
		ch:    make(chan []T, 1),
	}
	h.subs[sub] = struct{}{}
	sub.deliver(h.snapshotLocked(limit))
	if h.onSubs != nil {
		h.onSubs(len(h.subs))
	}
	return sub
}

func (h *Hub[T]) cancel(sub *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
	if h.onSubs != nil {
		h.onSubs(len(h.subs))
	}
}

// SubscriberCount reports the number of active subscriptions.
func (h *Hub[T]) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Subscription is a cancellable handle on the hub's live feed.
type Subscription[T any] struct {
	hub   *Hub[T]
	limit int
	ch    chan []T
}

// Updates yields newest-first snapshots. A newer snapshot replaces an
// undelivered older one; the channel is closed on Cancel.
func (s *Subscription[T]) Updates() <-chan []T {
	return s.ch
}

// Cancel detaches the subscription and closes Updates.
func (s *Subscription[T]) Cancel() {
	s.hub.cancel(s)
}

// deliver is called with the hub lock held; the buffer of one coalesces
// pending snapshots so publishing never blocks.
func (s *Subscription[T]) deliver(snapshot []T) {
	for {
		select {
		case s.ch <- snapshot:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}
