package pump

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPumpTicksWhileRunning(t *testing.T) {
	var ticks int32
	p := New(5*time.Millisecond, func() {
		atomic.AddInt32(&ticks, 1)
	}, nil)
	defer p.Close()

	p.Start()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&ticks) >= 3
	}, time.Second, time.Millisecond)
}

func TestPumpStopParksWithoutTerminating(t *testing.T) {
	var ticks int32
	p := New(5*time.Millisecond, func() {
		atomic.AddInt32(&ticks, 1)
	}, nil)
	defer p.Close()

	p.Start()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&ticks) >= 1
	}, time.Second, time.Millisecond)

	p.Stop()
	stopped := atomic.LoadInt32(&ticks)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&ticks))

	// Restarting resumes ticking.
	p.Start()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&ticks) > stopped
	}, time.Second, time.Millisecond)
}

func TestPumpCloseTerminatesTask(t *testing.T) {
	var ticks int32
	p := New(5*time.Millisecond, func() {
		atomic.AddInt32(&ticks, 1)
	}, nil)

	p.Start()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&ticks) >= 1
	}, time.Second, time.Millisecond)

	p.Close()
	stopped := atomic.LoadInt32(&ticks)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&ticks))
}

func TestStopWhileParkedStillAcknowledges(t *testing.T) {
	p := New(5*time.Millisecond, func() {}, nil)
	defer p.Close()

	start := time.Now()
	p.Stop()
	assert.Less(t, time.Since(start), ackTimeout)
}
