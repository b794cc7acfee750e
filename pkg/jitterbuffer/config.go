package jitterbuffer

import (
	"time"

	"github.com/shootao/jitterbuffer/internal/events"
	"github.com/shootao/jitterbuffer/pkg/framing"
)

// AudioFormat identifies the payload codec carried in each frame. It is
// informational except where it constrains FrameInterval (see the
// Config.AudioFormat field), matching spec.md §3's "audio_format_id (informational;
// constrains valid frame_interval_ms when silence-on-empty and Opus
// framing coincide)".
type AudioFormat int

const (
	FormatOpus AudioFormat = iota
	FormatPCM
	FormatUnknown
)

func (f AudioFormat) String() string {
	switch f {
	case FormatOpus:
		return "opus"
	case FormatPCM:
		return "pcm"
	default:
		return "unknown"
	}
}

// opusFrameIntervals are the frame_interval_ms values accepted when
// OutputSilenceOnEmpty is set with FormatOpus. Opus itself also allows
// shorter frames (2.5/5/10 ms); this buffer accepts only {20, 40, 60, 120}.
var opusFrameIntervals = map[uint32]bool{20: true, 40: true, 60: true, 120: true}

// Config is the immutable configuration of a Buffer, validated by New.
// Zero value is not usable; start from DefaultConfig.
type Config struct {
	// Capacity is the ring's byte capacity (C). In WithHeader mode it is
	// silently raised to at least high_water*(2+F_max) if too small.
	Capacity int

	// WithHeader selects length-prefixed framing; FrameSize is then the
	// maximum payload size per record (F_max). When false, framing is
	// fixed and FrameSize is the exact frame size (F).
	WithHeader bool
	FrameSize  uint32

	// FrameInterval is the pump's output cadence.
	FrameInterval time.Duration

	// HighWater and LowWater are frame-count thresholds; 0 < LowWater <=
	// HighWater is required.
	HighWater uint32
	LowWater  uint32

	// OutputSilenceOnEmpty, when true, makes the pump invoke
	// OnOutputData with a zeroed frame whenever no data was produced.
	OutputSilenceOnEmpty bool

	// OnOutputData is the required output callback. It is invoked
	// outside the buffer's mutex and must not call back into the
	// buffer, block indefinitely, or retain its slice past the call.
	OnOutputData func(data []byte)

	// AudioFormat is informational, except that OutputSilenceOnEmpty
	// with FormatOpus restricts FrameInterval to {20, 40, 60, 120} ms.
	AudioFormat AudioFormat

	// Observer, if non-nil, receives BUFFERING/UNDERRUN/PLAYING events.
	Observer events.Observer
}

// DefaultConfig returns the factory defaults from spec.md §6: callback
// unset, fixed framing, C=11KiB, F=512, 20ms interval, HW=20, LW=10,
// silence off, Opus format, no observer. Grounded on the teacher's
// internal/config.DefaultConfig.
func DefaultConfig() Config {
	return Config{
		Capacity:             11 * 1024,
		WithHeader:           false,
		FrameSize:            512,
		FrameInterval:        20 * time.Millisecond,
		HighWater:            20,
		LowWater:             10,
		OutputSilenceOnEmpty: false,
		OnOutputData:         nil,
		AudioFormat:          FormatOpus,
		Observer:             nil,
	}
}

func (c Config) mode() framing.Mode {
	if c.WithHeader {
		return framing.WithHeader(c.FrameSize)
	}
	return framing.Fixed(c.FrameSize)
}

// validate mirrors jitter_buffer_create's checks and returns the
// effective ring capacity (possibly raised for WithHeader mode).
func (c Config) validate() (capacity int, err error) {
	if c.OnOutputData == nil {
		return 0, newError(InvalidArgument, "New", "OnOutputData callback is required")
	}
	if c.FrameSize == 0 {
		return 0, newError(InvalidArgument, "New", "FrameSize must be > 0")
	}
	if c.FrameInterval <= 0 {
		return 0, newError(InvalidArgument, "New", "FrameInterval must be > 0")
	}
	if c.LowWater == 0 || c.LowWater > c.HighWater {
		return 0, newError(InvalidArgument, "New", "require 0 < LowWater <= HighWater")
	}
	if c.OutputSilenceOnEmpty && c.AudioFormat == FormatOpus {
		ms := uint32(c.FrameInterval / time.Millisecond)
		if !opusFrameIntervals[ms] {
			return 0, newError(InvalidArgument, "New", "FrameInterval must be one of 20/40/60/120ms for silence-on-empty Opus framing")
		}
	}

	capacity = c.Capacity
	if c.WithHeader {
		min := c.mode().MinCapacityFor(c.HighWater)
		if capacity < min {
			capacity = min
		}
	}
	if capacity <= 0 {
		return 0, newError(InvalidArgument, "New", "Capacity must be > 0")
	}
	return capacity, nil
}
