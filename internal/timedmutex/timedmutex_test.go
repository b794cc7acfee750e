package timedmutex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	m := New()
	m.Lock()
	m.Unlock()
}

func TestTryLockTimesOutWhenHeld(t *testing.T) {
	m := New()
	m.Lock()
	defer m.Unlock()

	ok := m.TryLock(10 * time.Millisecond)
	assert.False(t, ok)
}

func TestTryLockSucceedsWhenFree(t *testing.T) {
	m := New()
	ok := m.TryLock(10 * time.Millisecond)
	require.True(t, ok)
	m.Unlock()
}

func TestUnlockOfUnlockedPanics(t *testing.T) {
	m := New()
	assert.Panics(t, func() {
		m.Unlock()
	})
}
