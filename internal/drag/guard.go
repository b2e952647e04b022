package drag

import "sync"

// Guard tracks whether a drag is in progress or ended during the current
// event turn. Outside-click handling consults it so the release that ends a
// drag is never mistaken for a click on the background.
//
// The event loop calls Advance once at the start of every turn. A Release
// issues a token that stays valid until the next Advance.
type Guard struct {
	mu     sync.Mutex
	active int
	turn   uint64
	token  uint64
	issued bool
}

// NewGuard returns an idle guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Advance marks the start of a new event turn.
func (g *Guard) Advance() {
	g.mu.Lock()
	g.turn++
	g.mu.Unlock()
}

// Acquire records that a drag session started.
func (g *Guard) Acquire() {
	g.mu.Lock()
	g.active++
	g.mu.Unlock()
}

// Release records that a drag session ended.
func (g *Guard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active > 0 {
		g.active--
	}
	g.token = g.turn
	g.issued = true
}

// Suppressed reports whether a drag is active or ended in the current turn.
func (g *Guard) Suppressed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active > 0 || (g.issued && g.token == g.turn)
}

// Active reports whether any drag session is running.
func (g *Guard) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active > 0
}
