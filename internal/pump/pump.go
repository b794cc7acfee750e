// Package pump implements the jitter buffer's periodic output task
// (spec.md §4.D) and the Start/Stop/Exit control channel that drives it
// (spec.md §4.E).
//
// Pump is deliberately ignorant of rings, framing and playback state: it
// is a generic "wake on an absolute deadline, call back, repeat" task,
// the way the teacher's Player.playAudio loop drives a PortAudio stream
// without knowing anything about WebSocket messages. jitterbuffer.Buffer
// supplies the TickFunc closure that actually touches the ring.
package pump

import (
	"time"

	"github.com/charmbracelet/log"
)

// TickFunc is invoked once per pump tick, while the pump holds no locks
// of its own. The buffer's TickFunc is responsible for acquiring its own
// mutex internally for the parts of the tick that touch shared state,
// and for releasing it before invoking the output callback.
type TickFunc func()

// Pump is a single long-lived task that, once started, wakes at a fixed
// cadence and calls TickFunc. It parks between Start/Stop cycles and is
// only ever terminated by Exit.
type Pump struct {
	interval time.Duration
	tick     TickFunc
	ctl      *controlChannel
	logger   *log.Logger

	deadline time.Time
}

// New creates a Pump and starts its task goroutine in the parked state.
// Call Start to begin ticking, Stop to park again, and Exit (via Close)
// to terminate it permanently.
func New(interval time.Duration, tick TickFunc, logger *log.Logger) *Pump {
	if logger == nil {
		logger = log.Default()
	}
	p := &Pump{
		interval: interval,
		tick:     tick,
		ctl:      newControlChannel(logger),
		logger:   logger,
	}
	go p.run()
	return p
}

// Start unparks the pump, capturing the wake-time reference used for
// absolute-deadline scheduling. Synchronous: blocks until the pump
// acknowledges (bounded by ackTimeout).
func (p *Pump) Start() {
	p.ctl.signal(p.ctl.start, "start")
}

// Stop parks the pump without terminating its task. Buffered data and
// counters are left untouched. Synchronous, like Start.
func (p *Pump) Stop() {
	p.ctl.signal(p.ctl.stop, "stop")
}

// Close signals the pump to exit and waits (bounded) for it to do so.
// The pump cannot be restarted after Close.
func (p *Pump) Close() {
	p.ctl.signal(p.ctl.exit, "exit")
}

func (p *Pump) run() {
	for {
		if !p.parkedUntilStart() {
			return
		}
		if !p.runUntilStopped() {
			return
		}
	}
}

// parkedUntilStart blocks until Start or Exit is observed. It returns
// false if the pump should terminate.
func (p *Pump) parkedUntilStart() bool {
	for {
		select {
		case <-p.ctl.exit:
			p.ctl.sendAck()
			return false
		case <-p.ctl.stop:
			// Parked state ignores Stop but still acknowledges it, so a
			// caller never waits out the full ack timeout for a no-op.
			p.ctl.sendAck()
		case <-p.ctl.start:
			p.deadline = time.Now()
			p.ctl.sendAck()
			return true
		}
	}
}

// runUntilStopped ticks at a fixed cadence, bounded by cumulative-drift
// scheduling against the absolute deadline, until Stop or Exit arrives.
// It reports whether the pump should keep running at all: false means
// Exit was observed and the task goroutine must terminate; true means
// Stop was observed and the pump should return to the parked state.
func (p *Pump) runUntilStopped() bool {
	for {
		p.deadline = p.deadline.Add(p.interval)
		if wait := time.Until(p.deadline); wait > 0 {
			time.Sleep(wait)
		}

		// A re-Start while already running just re-acknowledges and keeps
		// ticking; it does not reset the wake reference.
		select {
		case <-p.ctl.start:
			p.ctl.sendAck()
		default:
		}

		select {
		case <-p.ctl.exit:
			p.ctl.sendAck()
			return false
		case <-p.ctl.stop:
			p.ctl.sendAck()
			return true
		default:
		}

		p.tick()
	}
}
