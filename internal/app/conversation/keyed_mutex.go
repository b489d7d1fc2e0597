package conversation

import (
	"sync"

	"github.com/PabloGalante/travelbot/internal/domain"
)

// keyedMutex serializes work per user. Entries are dropped when unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[domain.UserID]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[domain.UserID]*userLock)}
}

// lock blocks until the user's lock is held and returns its release func.
func (k *keyedMutex) lock(id domain.UserID) func() {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &userLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
