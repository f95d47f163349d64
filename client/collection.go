package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultMutationTimeout bounds a dispatched mutation. A mutation that
// outlives it settles as a failure and rolls back, so the UI never
// shows a permanently stuck optimistic state.
const DefaultMutationTimeout = 10 * time.Second

// FetchFunc is the authoritative read replacing the local collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Mutation describes one optimistic edit of the collection.
type Mutation[T any] struct {
	// Key serializes mutations per entity: two mutations with the
	// same key never interleave their optimistic windows.
	Key string

	// Apply is the pure optimistic transform producing the expected
	// post-mutation state. It must not mutate its input slice.
	Apply func(items []T) []T

	// Dispatch sends the mutation to the server actions.
	Dispatch func(ctx context.Context) error

	// OnSuccess runs after a successful dispatch, before the
	// authoritative refetch. Used to close edit surfaces and clear
	// selection state.
	OnSuccess func()

	// SuccessMessage is shown on a successful settle.
	SuccessMessage string

	// FailureMessage is shown when Dispatch fails without a message
	// of its own.
	FailureMessage string
}

// Collection keeps a local view of a remote collection synchronized
// with the server while giving immediate feedback for mutations: it
// snapshots before each optimistic apply, rolls back exactly on
// failure, and always refetches after settle. The local state is
// provisional by definition; the next successful fetch supersedes it.
type Collection[T any] struct {
	mu    sync.Mutex
	items []T

	fetch    FetchFunc[T]
	notifier Notifier
	timeout  time.Duration

	// in-flight refetch bookkeeping; fetchSeq invalidates results of
	// a cancelled fetch that already left the provider.
	fetchCancel context.CancelFunc
	fetchSeq    uint64

	// per-entity dispatch serialization
	keysMu sync.Mutex
	keys   map[string]*sync.Mutex
}

func NewCollection[T any](fetch FetchFunc[T], notifier Notifier, timeout time.Duration) *Collection[T] {
	if timeout <= 0 {
		timeout = DefaultMutationTimeout
	}
	if notifier == nil {
		notifier = NotifierFunc(func(Level, string) {})
	}
	return &Collection[T]{
		fetch:    fetch,
		notifier: notifier,
		timeout:  timeout,
		keys:     make(map[string]*sync.Mutex),
	}
}

// Items returns a copy of the current local collection.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Refetch performs the authoritative read and replaces the local
// collection. A refetch cancelled by a later mutation leaves the local
// state untouched.
func (c *Collection[T]) Refetch(ctx context.Context) error {
	c.mu.Lock()
	if c.fetchCancel != nil {
		c.fetchCancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.fetchCancel = cancel
	c.fetchSeq++
	seq := c.fetchSeq
	c.mu.Unlock()

	items, err := c.fetch(fetchCtx)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	// A stale read must never overwrite a newer optimistic write.
	if seq != c.fetchSeq || fetchCtx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}

	c.items = items
	return nil
}

// Mutate runs the full optimistic protocol for one mutation:
// cancel outgoing refetch, snapshot, optimistic apply, dispatch,
// notify, rollback on failure, refetch after settle.
func (c *Collection[T]) Mutate(ctx context.Context, m Mutation[T]) error {
	unlock := c.lockKey(m.Key)
	defer unlock()

	// 1. Cancel any in-flight refetch so a stale read cannot
	// overwrite the optimistic write.
	c.mu.Lock()
	if c.fetchCancel != nil {
		c.fetchCancel()
		c.fetchCancel = nil
	}
	c.fetchSeq++

	// 2. Snapshot for rollback.
	snapshot := make([]T, len(c.items))
	copy(snapshot, c.items)

	// 3. Optimistic apply.
	c.items = m.Apply(c.items)
	c.mu.Unlock()

	// 4. Dispatch under a bounded timeout.
	dispatchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	err := m.Dispatch(dispatchCtx)
	cancel()

	if err != nil {
		// 6. Restore the snapshot exactly; no merge.
		c.mu.Lock()
		c.items = snapshot
		c.mu.Unlock()

		message := err.Error()
		if message == "" || errors.Is(err, context.DeadlineExceeded) {
			message = m.FailureMessage
		}
		c.notifier.Notify(LevelError, message)
	} else {
		// 5. Success feedback and edit-surface cleanup.
		if m.SuccessMessage != "" {
			c.notifier.Notify(LevelSuccess, m.SuccessMessage)
		}
		if m.OnSuccess != nil {
			m.OnSuccess()
		}
	}

	// 7. Always settle with an authoritative refetch; the optimistic
	// or rolled-back state is provisional either way.
	_ = c.Refetch(ctx)

	return err
}

func (c *Collection[T]) lockKey(key string) func() {
	c.keysMu.Lock()
	lock, ok := c.keys[key]
	if !ok {
		lock = &sync.Mutex{}
		c.keys[key] = lock
	}
	c.keysMu.Unlock()

	lock.Lock()
	return lock.Unlock
}
