// Package events implements the jitter buffer's best-effort state-change
// notification surface: BUFFERING/UNDERRUN/PLAYING transitions posted to
// an optional observer, off the buffer's mutex, with a bounded wait.
//
// The dispatch pattern is grounded on the one-interface-per-concern
// style of the teacher's websocket.MessageHandler and audio.AudioHandler:
// a single Observer interface the owner posts to synchronously, here run
// through a small buffered channel so a slow observer cannot block the
// poster beyond the configured deadline.
package events

import (
	"time"

	"github.com/charmbracelet/log"
)

// ID identifies a playback state-transition event.
type ID int

const (
	Buffering ID = 0
	Underrun  ID = 1
	Playing   ID = 2
)

func (id ID) String() string {
	switch id {
	case Buffering:
		return "BUFFERING"
	case Underrun:
		return "UNDERRUN"
	case Playing:
		return "PLAYING"
	default:
		return "UNKNOWN"
	}
}

// Observer receives state-transition notifications. Implementations must
// not call back into the jitter buffer that posted the event, and should
// not block for long: posting waits at most the dispatcher's timeout.
type Observer interface {
	OnJitterBufferEvent(bufferID string, id ID)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(bufferID string, id ID)

func (f ObserverFunc) OnJitterBufferEvent(bufferID string, id ID) { f(bufferID, id) }

// Dispatcher posts events to an Observer off the caller's goroutine,
// bounding how long a slow or blocked observer can stall the poster.
//
// A Dispatcher with a nil Observer is valid and simply drops events,
// matching the spec's "optional observer" configuration.
type Dispatcher struct {
	observer Observer
	timeout  time.Duration
	logger   *log.Logger

	queue chan postedEvent
	done  chan struct{}
}

type postedEvent struct {
	bufferID string
	id       ID
}

// defaultTimeout is the bounded wait spec.md §4.G mandates for posting an
// event: best-effort with a bounded wait (<= 100 ms).
const defaultTimeout = 100 * time.Millisecond

// NewDispatcher starts a Dispatcher that delivers events to observer (if
// non-nil) on its own goroutine. Call Close when the owning buffer is
// destroyed.
func NewDispatcher(observer Observer, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	d := &Dispatcher{
		observer: observer,
		timeout:  defaultTimeout,
		logger:   logger,
		queue:    make(chan postedEvent, 8),
		done:     make(chan struct{}),
	}
	if observer != nil {
		go d.run()
	}
	return d
}

func (d *Dispatcher) run() {
	for {
		select {
		case ev := <-d.queue:
			d.observer.OnJitterBufferEvent(ev.bufferID, ev.id)
		case <-d.done:
			return
		}
	}
}

// Post enqueues an event for delivery, waiting up to the dispatcher's
// timeout for room in the queue. A failed post is logged and otherwise
// ignored; it never affects buffer state.
func (d *Dispatcher) Post(bufferID string, id ID) {
	if d.observer == nil {
		return
	}
	select {
	case d.queue <- postedEvent{bufferID: bufferID, id: id}:
	case <-time.After(d.timeout):
		d.logger.Warn("event post timed out", "buffer", bufferID, "event", id)
	}
}

// Close stops the dispatch goroutine. Safe to call even if no observer
// was registered.
func (d *Dispatcher) Close() {
	select {
	case <-d.done:
	default:
		close(d.done)
	}
}
