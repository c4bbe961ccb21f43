package service

import "sync"

// scopeLock serializes writers per (semester, day) scope so the conflict
// check and the insert behind it run atomically. Two coordinators saving
// slots for the same day of the same semester queue up; writers on other
// scopes proceed in parallel.
type scopeLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newScopeLock() *scopeLock {
	return &scopeLock{locks: make(map[string]*sync.Mutex)}
}

// acquire blocks until the scope is free and returns the release func.
func (l *scopeLock) acquire(semesterName, day string) func() {
	key := semesterName + "|" + day
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
