package screen

import (
	"context"

	"github.com/unan-salud/salud-al-paso/internal/mirror"
	"github.com/unan-salud/salud-al-paso/internal/records"
)

// Lister is the read side of a collection.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// HealthTips is the read-only tips screen with a category filter.
type HealthTips struct {
	guard
	coll       Lister[records.HealthTip]
	store      mirror.Store[records.HealthTip]
	category   records.TipCategory
	loading    bool
	refreshing bool
}

func NewHealthTips(parent context.Context, coll Lister[records.HealthTip]) *HealthTips {
	return &HealthTips{
		guard:    guard{life: newLifetime(parent)},
		coll:     coll,
		category: records.CategoryAll,
	}
}

// Load fetches the tips on screen open.
func (h *HealthTips) Load(ctx context.Context) error {
	return h.fetch(ctx, func() { h.loading = true })
}

// Refresh is pull to refresh.
func (h *HealthTips) Refresh(ctx context.Context) error {
	return h.fetch(ctx, func() { h.refreshing = true })
}

func (h *HealthTips) fetch(ctx context.Context, start func()) error {
	if !h.apply(start) {
		return ErrClosed
	}
	ctx, cancel := h.life.bind(ctx)
	defer cancel()

	tips, err := h.coll.List(ctx)
	h.apply(func() {
		h.loading, h.refreshing = false, false
		switch {
		case err == nil:
			h.store = h.store.Replace(tips)
		case !canceled(err):
			h.store = mirror.Store[records.HealthTip]{}
		}
	})
	return err
}

// Select switches the category filter. Unknown categories show everything.
func (h *HealthTips) Select(c records.TipCategory) {
	h.apply(func() {
		if c.Kind() == records.CategoryUnknown {
			c = records.CategoryAll
		}
		h.category = c
	})
}

func (h *HealthTips) Category() records.TipCategory {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.category
}

func (h *HealthTips) Loading() (loading, refreshing bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading, h.refreshing
}

// Visible returns the fetched tips of the selected category, in list order.
// is_active is not consulted; the backend decides what it serves.
func (h *HealthTips) Visible() []records.HealthTip {
	h.mu.Lock()
	defer h.mu.Unlock()
	return records.FilterTips(h.store.Items(), h.category)
}

func (h *HealthTips) Close() { h.close() }
