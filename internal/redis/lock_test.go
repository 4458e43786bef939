package redisclient

import (
	"context"
	"errors"
	"testing"
)

func TestLocalLocker(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	err := l.WithLock(ctx, "appointment:1", func(ctx context.Context) error {
		if err := l.WithLock(ctx, "appointment:1", func(context.Context) error { return nil }); !errors.Is(err, ErrLockNotAcquired) {
			t.Errorf("nested WithLock() = %v, want ErrLockNotAcquired", err)
		}
		return l.WithLock(ctx, "appointment:2", func(context.Context) error { return nil })
	})
	if err != nil {
		t.Fatalf("WithLock() error: %v", err)
	}

	want := errors.New("boom")
	if err := l.WithLock(ctx, "appointment:1", func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Errorf("WithLock() = %v, want fn error", err)
	}
	if err := l.WithLock(ctx, "appointment:1", func(context.Context) error { return nil }); err != nil {
		t.Errorf("lock not released after error: %v", err)
	}
}
