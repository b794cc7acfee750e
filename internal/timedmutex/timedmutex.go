// Package timedmutex provides a mutex that can be acquired with a
// bounded wait, for the jitter buffer's Write (50 ms) and Reset (500 ms)
// timeouts described in spec.md §5.
//
// sync.Mutex has no timed-acquire primitive in the standard library, so
// this wraps a buffered channel of capacity 1 the way the teacher's
// control package wraps bare channels for start/stop signalling
// (internal/control/stdin.go), generalized here into a reusable lock.
package timedmutex

import "time"

// Mutex is a mutual-exclusion lock that also supports a bounded-wait
// acquisition via TryLock.
type Mutex struct {
	ch chan struct{}
}

// New returns an unlocked Mutex.
func New() *Mutex {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	return &Mutex{ch: ch}
}

// Lock blocks until the mutex is acquired.
func (m *Mutex) Lock() {
	<-m.ch
}

// Unlock releases the mutex. Unlock on an already-unlocked Mutex panics,
// matching sync.Mutex's contract.
func (m *Mutex) Unlock() {
	select {
	case m.ch <- struct{}{}:
	default:
		panic("timedmutex: unlock of unlocked mutex")
	}
}

// TryLock attempts to acquire the mutex within timeout and reports
// whether it succeeded. On success the caller must call Unlock.
func (m *Mutex) TryLock(timeout time.Duration) bool {
	select {
	case <-m.ch:
		return true
	case <-time.After(timeout):
		return false
	}
}
