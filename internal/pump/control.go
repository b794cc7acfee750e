package pump

import (
	"time"

	"github.com/charmbracelet/log"
)

// ackTimeout is the bounded wait spec.md §4.E and §5 give every control
// call: "caller sets the signal, then waits on an acknowledgement up to
// 500 ms". A timeout is logged but not fatal — the signal is
// edge-triggered and still takes effect when the pump next observes it.
const ackTimeout = 500 * time.Millisecond

// controlChannel implements the Start/Stop/Exit signalling contract of
// spec.md §4.E: three edge-triggered, depth-1 signals and one shared
// acknowledgement channel, generalizing the command-channel pattern of
// the teacher's internal/control package (stdin.go, monitor.go) from a
// string command to a fixed three-signal protocol with synchronous ack.
type controlChannel struct {
	start chan struct{}
	stop  chan struct{}
	exit  chan struct{}
	ack   chan struct{}

	logger *log.Logger
}

func newControlChannel(logger *log.Logger) *controlChannel {
	return &controlChannel{
		start: make(chan struct{}, 1),
		stop:  make(chan struct{}, 1),
		exit:  make(chan struct{}, 1),
		ack:   make(chan struct{}, 1),
		logger: logger,
	}
}

// signal sends on ch without blocking if a signal is already pending
// (edge-triggered: a second Start before the pump observes the first is
// a no-op), then waits up to ackTimeout for the pump's acknowledgement.
func (c *controlChannel) signal(ch chan struct{}, name string) {
	select {
	case ch <- struct{}{}:
	default:
	}

	select {
	case <-c.ack:
	case <-time.After(ackTimeout):
		c.logger.Warn("control acknowledgement timed out", "signal", name)
	}
}

func (c *controlChannel) sendAck() {
	select {
	case c.ack <- struct{}{}:
	default:
	}
}
