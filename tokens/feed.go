package tokens

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Snapshotter exposes the latest connected-token snapshot
type Snapshotter interface {
	Snapshot() ([]Token, bool)
}

// Feed is the shared "connected tokens" stage. It queries its source once and
// republishes every emission, reduced to connected tokens, to all subscribers.
type Feed struct {
	mu       sync.RWMutex
	snapshot []Token
	ready    bool
	subs     map[int]chan []Token
	nextID   int
	closed   bool

	done   chan struct{}
	logger *log.Logger
}

// NewFeed subscribes to src with refresh requested and starts consuming it.
// The feed ends when the source stream closes.
func NewFeed(ctx context.Context, src Source, logger *log.Logger) *Feed {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	f := &Feed{
		subs:   make(map[int]chan []Token),
		done:   make(chan struct{}),
		logger: logger,
	}
	stream := src.FetchTokens(ctx, true)
	go f.run(stream)
	return f
}

func (f *Feed) run(stream <-chan []Token) {
	defer f.close()
	for list := range stream {
		f.publish(Connected(list))
	}
}

func (f *Feed) publish(snapshot []Token) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.snapshot = snapshot
	f.ready = true
	f.logger.Debug("token snapshot", "connected", len(snapshot), "subscribers", len(f.subs))

	for _, ch := range f.subs {
		// latest value wins: drop a snapshot the subscriber has not read yet
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

func (f *Feed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for id, ch := range f.subs {
		close(ch)
		delete(f.subs, id)
	}
	close(f.done)
	f.logger.Debug("token feed closed")
}

// Snapshot returns the latest connected tokens, false before the first emission.
// Callers must not modify the returned slice.
func (f *Feed) Snapshot() ([]Token, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshot, f.ready
}

// Subscribe returns a channel receiving every new snapshot. A subscriber that
// joins late receives the current snapshot straight away. The returned func
// unsubscribes and closes the channel.
func (f *Feed) Subscribe() (<-chan []Token, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan []Token, 1)
	if f.closed {
		if f.ready {
			ch <- f.snapshot
		}
		close(ch)
		return ch, func() {}
	}

	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	if f.ready {
		ch <- f.snapshot
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if c, ok := f.subs[id]; ok {
				close(c)
				delete(f.subs, id)
			}
		})
	}
}

// Done is closed once the source stream has ended
func (f *Feed) Done() <-chan struct{} {
	return f.done
}
