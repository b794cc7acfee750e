// Package jitterbuffer implements an adaptive audio jitter buffer: a
// bounded, in-memory queue that decouples a bursty producer from a
// strictly periodic consumer, with a hysteretic playback policy trading
// latency for continuity.
//
// Buffer ties together pkg/ring (storage), pkg/framing (frame layout),
// internal/playback (the BUFFERING/PLAYING/UNDERRUN state machine),
// internal/pump (the periodic output task and its control channel) and
// internal/events (best-effort state-change notification) behind a
// single mutex, the way the teacher's Player owns a RingBuffer, a
// PortAudio stream and a command channel behind one struct.
package jitterbuffer

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/shootao/jitterbuffer/internal/events"
	"github.com/shootao/jitterbuffer/internal/playback"
	"github.com/shootao/jitterbuffer/internal/pump"
	"github.com/shootao/jitterbuffer/internal/timedmutex"
	"github.com/shootao/jitterbuffer/pkg/framing"
	"github.com/shootao/jitterbuffer/pkg/ring"
)

// writeTimeout and resetTimeout are the bounded-wait budgets spec.md §5
// assigns to the two caller-facing operations that contend for the
// buffer's mutex.
const (
	writeTimeout = 50 * time.Millisecond
	resetTimeout = 500 * time.Millisecond
)

// Buffer is an adaptive jitter buffer. The zero value is not usable;
// construct one with New.
type Buffer struct {
	id     string
	logger *log.Logger

	mu    *timedmutex.Mutex
	ring  *ring.Ring
	codec *framing.Codec
	state *playback.Machine

	scratch []byte

	cfg        Config
	pump       *pump.Pump
	dispatcher *events.Dispatcher

	overrunCount uint64
	closed       bool
}

// New validates cfg, allocates the ring and scratch buffer, and spawns
// the output pump in the parked state. Mirrors jitter_buffer_create's
// validation and allocation order (spec.md §"Lifecycle").
func New(cfg Config) (*Buffer, error) {
	capacity, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	logger := log.Default().With("component", "jitterbuffer")

	b := &Buffer{
		id:         uuid.NewString(),
		logger:     logger,
		mu:         timedmutex.New(),
		ring:       ring.New(capacity),
		codec:      framing.NewCodec(cfg.mode()),
		state:      playback.New(cfg.HighWater, cfg.LowWater),
		scratch:    make([]byte, cfg.mode().FrameSize()),
		cfg:        cfg,
		dispatcher: events.NewDispatcher(cfg.Observer, logger),
	}
	b.pump = pump.New(cfg.FrameInterval, b.tick, logger)
	return b, nil
}

// ID returns the buffer's identifier, used to tag posted events and log
// lines so multiple buffers in one process are distinguishable.
func (b *Buffer) ID() string { return b.id }

// Start transitions the playback state machine to BUFFERING and
// unparks the output pump. Every call forces BUFFERING and posts a
// BUFFERING event, whatever the current state; a pump that is already
// running just re-acknowledges.
func (b *Buffer) Start() error {
	if b.closed {
		return ErrClosed
	}
	b.mu.Lock()
	ev := b.state.Start()
	b.mu.Unlock()
	b.postEvent(ev)
	b.pump.Start()
	return nil
}

// Stop parks the output pump without touching buffered data, counters
// or playback state.
func (b *Buffer) Stop() error {
	if b.closed {
		return ErrClosed
	}
	b.pump.Stop()
	return nil
}

// Write appends a payload to the buffer, applying the overflow policy
// and hysteresis evaluation described in spec.md §4.B/§4.C. It returns
// a Timeout error if the mutex cannot be acquired within 50ms, and
// never blocks on the output callback (Write never invokes it).
func (b *Buffer) Write(payload []byte) error {
	if b.closed {
		return ErrClosed
	}
	if !b.mu.TryLock(writeTimeout) {
		return newError(Timeout, "Write", "could not acquire buffer mutex within 50ms")
	}

	overran, err := b.codec.WriteFrame(b.ring, payload)
	if err != nil {
		b.mu.Unlock()
		return newError(InvalidArgument, "Write", err.Error())
	}
	if overran {
		b.overrunCount++
		b.logger.Warn("write overran ring capacity, discarded oldest data", "buffer", b.id)
	}

	ev := b.state.Evaluate(b.codec.FrameCount(b.ring))
	b.mu.Unlock()

	// Released before posting the event, matching spec.md §5's "released
	// before invoking on_output_data and before posting events".
	b.postEvent(ev)
	return nil
}

// Reset clears buffered data and forces a transition back to
// BUFFERING, leaving cumulative counters untouched. Bounded to 500ms.
func (b *Buffer) Reset() error {
	if b.closed {
		return ErrClosed
	}
	if !b.mu.TryLock(resetTimeout) {
		return newError(Timeout, "Reset", "could not acquire buffer mutex within 500ms")
	}
	ev := func() playback.Event {
		defer b.mu.Unlock()
		b.ring.Reset()
		return b.state.Reset()
	}()
	b.postEvent(ev)
	return nil
}

// Close signals the output pump to exit, stops the event dispatcher,
// and makes every subsequent call return ErrClosed. Close is not safe
// to call concurrently with itself.
func (b *Buffer) Close() error {
	if b.closed {
		return ErrClosed
	}
	b.pump.Close()
	b.dispatcher.Close()
	b.closed = true
	return nil
}

// Diagnostics is a point-in-time snapshot of buffer counters and state,
// the Go analogue of the original's diagnostic accessor functions.
type Diagnostics struct {
	State         playback.State
	UnderrunCount uint64
	OverrunCount  uint64
	TotalWritten  uint64
	TotalRead     uint64
	FrameCount    int
}

// Diagnostics returns a snapshot of the buffer's current counters and
// playback state.
func (b *Buffer) Diagnostics() Diagnostics {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Diagnostics{
		State:         b.state.State(),
		UnderrunCount: b.state.UnderrunCount(),
		OverrunCount:  b.overrunCount,
		TotalWritten:  b.ring.TotalWritten(),
		TotalRead:     b.ring.TotalRead(),
		FrameCount:    b.codec.FrameCount(b.ring),
	}
}

// tick is the pump's TickFunc: it evaluates hysteresis, consumes one
// frame if playing, and invokes the output callback (or emits silence)
// outside the mutex, matching spec.md §4.D's seven-step tick procedure.
func (b *Buffer) tick() {
	b.mu.Lock()
	ev := b.state.Evaluate(b.codec.FrameCount(b.ring))

	var out []byte
	produced := false
	if b.state.State() == playback.Playing {
		res := b.codec.ReadFrame(b.ring, b.scratch)
		if res.Desync {
			b.logger.Warn("discarded desynchronized record", "buffer", b.id)
		}
		if res.N > 0 {
			out = append([]byte(nil), b.scratch[:res.N]...)
			produced = true
		}
	}
	silenceLen := len(b.scratch)
	b.mu.Unlock()

	// Released before posting the event and before invoking the output
	// callback, matching spec.md §5.
	b.postEvent(ev)

	if produced {
		b.cfg.OnOutputData(out)
		return
	}
	if b.cfg.OutputSilenceOnEmpty {
		b.cfg.OnOutputData(make([]byte, silenceLen))
	}
}

// postEvent posts ev to the dispatcher if it is not NoEvent. Use when
// the mutex is already released.
func (b *Buffer) postEvent(ev playback.Event) {
	if ev == playback.NoEvent {
		return
	}
	b.dispatcher.Post(b.id, eventID(ev))
}

func eventID(ev playback.Event) events.ID {
	switch ev {
	case playback.EventUnderrun:
		return events.Underrun
	case playback.EventPlaying:
		return events.Playing
	default:
		return events.Buffering
	}
}
