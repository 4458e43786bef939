package screen

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by actions started on a closed screen.
var ErrClosed = errors.New("screen closed")

// Task is one action running in the background. It is canceled when its
// screen closes.
type Task struct {
	done   chan struct{}
	cancel context.CancelFunc
	err    error
}

func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel stops the action. Its result, if any, is discarded by the screen.
func (t *Task) Cancel() { t.cancel() }

// Wait blocks until the action returns or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// lifetime is the span between a screen opening and closing.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime(parent context.Context) lifetime {
	ctx, cancel := context.WithCancel(parent)
	return lifetime{ctx: ctx, cancel: cancel}
}

func (l lifetime) closed() bool { return l.ctx.Err() != nil }

// bind derives a context that ends with either ctx or the lifetime.
func (l lifetime) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (l lifetime) spawn(fn func(ctx context.Context) error) *Task {
	ctx, cancel := context.WithCancel(l.ctx)
	t := &Task{done: make(chan struct{}), cancel: cancel}
	if l.closed() {
		cancel()
		t.err = ErrClosed
		close(t.done)
		return t
	}
	go func() {
		defer cancel()
		t.err = fn(ctx)
		close(t.done)
	}()
	return t
}

// guard serialises state access for a screen and its late completions.
type guard struct {
	mu   sync.Mutex
	life lifetime
}

// apply runs fn under the lock unless the screen is closed.
func (g *guard) apply(fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.life.closed() {
		return false
	}
	fn()
	return true
}

func (g *guard) close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.life.cancel()
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
