package webserver

import (
	"sync"
	"time"

	"github.com/maosdefada/loja/internal/carousel"
	"github.com/maosdefada/loja/internal/cart"
	"github.com/maosdefada/loja/internal/imaging"
)

// UIState is the transient per-session UI data: the cart, one carousel
// controller per rendered product and the admin image staging list. All of
// it lives in process memory only; an expired session loses it, which is
// this application's equivalent of the cart emptying on page reload.
type UIState struct {
	mu        sync.Mutex
	cart      *cart.Cart
	carousels map[int64]*carousel.Controller
	staging   imaging.Staging
	lastSeen  time.Time
}

func newUIState() *UIState {
	return &UIState{
		cart:      cart.New(),
		carousels: make(map[int64]*carousel.Controller),
		lastSeen:  time.Now(),
	}
}

func (s *UIState) Lock()   { s.mu.Lock() }
func (s *UIState) Unlock() { s.mu.Unlock() }

// Cart returns the session cart. Callers hold the state lock around every
// mutation + re-render pair.
func (s *UIState) Cart() *cart.Cart {
	return s.cart
}

// Staging returns the admin image staging list.
func (s *UIState) Staging() *imaging.Staging {
	return &s.staging
}

// Carousel returns the controller for one product, creating it at slide 0
// when the product is first rendered. Slide count changes (product edited)
// reset the controller.
func (s *UIState) Carousel(productID int64, slides int) *carousel.Controller {
	ctrl, ok := s.carousels[productID]
	if !ok || ctrl.Slides() != slides {
		ctrl = carousel.New(slides)
		s.carousels[productID] = ctrl
	}
	return ctrl
}

// StateRegistry owns all live session states.
type StateRegistry struct {
	mu     sync.RWMutex
	states map[string]*UIState
}

func NewStateRegistry() *StateRegistry {
	return &StateRegistry{states: make(map[string]*UIState)}
}

// Get returns the state for a session id, creating it on first sight, and
// refreshes the idle timer.
func (r *StateRegistry) Get(sid string) *UIState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[sid]
	if !ok {
		st = newUIState()
		r.states[sid] = st
	}
	st.lastSeen = time.Now()
	return st
}

// Sweep drops states idle longer than maxIdle and reports how many went.
func (r *StateRegistry) Sweep(maxIdle time.Duration) int {
	deadline := time.Now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for sid, st := range r.states {
		if st.lastSeen.Before(deadline) {
			delete(r.states, sid)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (r *StateRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}
