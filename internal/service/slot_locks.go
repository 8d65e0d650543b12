package service

import "sync"

// slotLocks serializes capacity mutations per schedule id. Operations on
// different schedules proceed in parallel; two reservations against the same
// schedule always observe a consistent appointment count.
type slotLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for the given schedule id and returns its unlock
// function. Mutexes are created on first use and kept for the process
// lifetime; the slot inventory is small enough that eviction is not worth it.
func (l *slotLocks) Lock(id int64) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
