package store

import "sync"

// keyLock provides a mutex per key so read-modify-write sequences on the
// same record are serialized without blocking unrelated keys. Entries are
// reference counted and removed once the last holder unlocks.
type keyLock struct {
	mu   sync.Mutex
	keys map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{keys: make(map[string]*lockEntry)}
}

// lock acquires the mutex for key and returns the unlock function.
func (l *keyLock) lock(key string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.keys[key]
	if !ok {
		e = &lockEntry{}
		l.keys[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.keys, key)
		}
		l.mu.Unlock()
	}
}
