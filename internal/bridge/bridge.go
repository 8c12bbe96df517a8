// Package bridge lets a view layer observe a slice of the state. A Binding
// re-renders only when its selected value changes by reference identity.
package bridge

import (
	"sync"

	"github.com/mesh-intelligence/pinboard/internal/engine"
	"github.com/mesh-intelligence/pinboard/internal/store"
	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// View is the combined state-and-actions value selectors read from.
type View struct {
	State   types.State
	Actions *engine.Engine
}

// Binding tracks one selected value and calls render when it changes.
type Binding[T any] struct {
	store   *store.Store
	actions *engine.Engine
	render  func(T)

	mu       sync.Mutex
	selector func(View) T
	value    T
	id       store.ListenerID
	closed   bool
}

// Bind subscribes to s and selects the initial value. render is not called
// for the initial value, only for later changes. A nil render is allowed.
// render runs with no lock held and may call actions; a change it causes is
// rendered on the store's next notification pass.
func Bind[T any](s *store.Store, actions *engine.Engine, selector func(View) T, render func(T)) *Binding[T] {
	b := &Binding[T]{
		store:    s,
		actions:  actions,
		render:   render,
		selector: selector,
	}
	b.value = selector(b.view())
	b.id = s.Subscribe(b.refresh)
	return b
}

// Value returns the most recently selected value.
func (b *Binding[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// SetSelector swaps the selector. The new selector is evaluated right away
// and render runs if the result differs from the current value.
func (b *Binding[T]) SetSelector(selector func(View) T) {
	b.mu.Lock()
	b.selector = selector
	b.mu.Unlock()
	b.refresh()
}

// Close stops observing the store. It is safe to call more than once.
func (b *Binding[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.store.Unsubscribe(b.id)
}

func (b *Binding[T]) view() View {
	return View{State: b.store.Get(), Actions: b.actions}
}

func (b *Binding[T]) refresh() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	next := b.selector(b.view())
	if Same(b.value, next) {
		b.mu.Unlock()
		return
	}
	b.value = next
	render := b.render
	b.mu.Unlock()

	if render != nil {
		render(next)
	}
}
