package abedit

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrLocked is returned when an ability is already attached to another
// editor session.
var ErrLocked = fmt.Errorf("ability is being edited by another session")

// Guard enforces the one-session-per-ability rule. An ability id can be
// attached to at most one session at a time; every session exit path must
// release its id.
type Guard struct {
	mu    sync.Mutex
	locks map[int]uuid.UUID
}

// NewGuard creates an empty Guard.
func NewGuard() *Guard {
	return &Guard{locks: make(map[int]uuid.UUID)}
}

// Acquire attaches ability id to the session. Refused with ErrLocked when
// another session already holds the id; acquiring an id the same session
// already holds is a no-op.
//
// Postcondition: On nil return the id is held by session until Release.
func (g *Guard) Acquire(id int, session uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if holder, ok := g.locks[id]; ok {
		if holder == session {
			return nil
		}
		return fmt.Errorf("ability %d: %w", id, ErrLocked)
	}
	g.locks[id] = session
	return nil
}

// Release detaches ability id from the session. A release by a session
// that does not hold the id is ignored.
func (g *Guard) Release(id int, session uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if holder, ok := g.locks[id]; ok && holder == session {
		delete(g.locks, id)
	}
}

// Held reports whether any session currently holds the id.
func (g *Guard) Held(id int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.locks[id]
	return ok
}
