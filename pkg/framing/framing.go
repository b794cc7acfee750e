// Package framing interprets a ring.Ring as a stream of audio frames,
// either fixed-size or length-prefixed, and implements the
// alignment-preserving overflow policy described by the jitter buffer
// specification.
//
// Like ring.Ring, Codec has no synchronization of its own; every method
// assumes the caller holds the owning buffer's mutex.
package framing

import (
	"encoding/binary"
	"fmt"

	"github.com/shootao/jitterbuffer/pkg/ring"
)

// headerLen is the size, in bytes, of the big-endian length prefix used
// in WithHeader mode.
const headerLen = 2

// Mode selects how frames are laid out on the ring.
type Mode struct {
	withHeader bool
	frameSize  uint32 // Fixed: exact frame size. WithHeader: max payload size.
}

// Fixed returns a mode where every frame occupies exactly frameSize bytes.
func Fixed(frameSize uint32) Mode {
	return Mode{withHeader: false, frameSize: frameSize}
}

// WithHeader returns a mode where each record is stored as a 2-byte
// big-endian length followed by up to maxPayload bytes of payload.
func WithHeader(maxPayload uint32) Mode {
	return Mode{withHeader: true, frameSize: maxPayload}
}

// HasHeader reports whether the mode uses length-prefixed records.
func (m Mode) HasHeader() bool { return m.withHeader }

// FrameSize returns the fixed frame size (Fixed mode) or the maximum
// payload size (WithHeader mode).
func (m Mode) FrameSize() uint32 { return m.frameSize }

// WireSize returns the number of ring bytes a payload of length n occupies.
func (m Mode) WireSize(n int) int {
	if m.withHeader {
		return headerLen + n
	}
	return n
}

// MinCapacityFor returns the ring capacity needed to hold highWater frames
// in the worst case (every frame at the maximum payload size). Only
// meaningful in WithHeader mode.
func (m Mode) MinCapacityFor(highWater uint32) int {
	return int(highWater) * (headerLen + int(m.frameSize))
}

// Codec reads and writes frames on a ring.Ring according to a Mode.
type Codec struct {
	mode Mode
}

// NewCodec returns a Codec for the given mode.
func NewCodec(mode Mode) *Codec {
	return &Codec{mode: mode}
}

// Mode returns the codec's framing mode.
func (c *Codec) Mode() Mode { return c.mode }

// FrameCount returns the number of whole frames currently available to
// read from r.
//
// In Fixed mode this is simply Len()/frameSize. In WithHeader mode it
// walks records from the read cursor, stopping at the first incomplete
// record or at the first length field that looks like stream
// desynchronization (larger than half the ring's capacity).
func (c *Codec) FrameCount(r *ring.Ring) int {
	if !c.mode.withHeader {
		return r.Len() / int(c.mode.frameSize)
	}

	count := 0
	offset := 0
	remaining := r.Len()
	hdr := make([]byte, headerLen)
	for remaining >= headerLen {
		r.PeekAt(offset, hdr)
		l := int(binary.BigEndian.Uint16(hdr))
		if l > r.Cap()/2 {
			break
		}
		if remaining < headerLen+l {
			break
		}
		count++
		offset += headerLen + l
		remaining -= headerLen + l
	}
	return count
}

// WriteFrame writes payload to the ring, discarding the oldest data if it
// does not fit. It reports whether an overrun occurred; a single call is
// one overrun regardless of how many records were discarded.
func (c *Codec) WriteFrame(r *ring.Ring, payload []byte) (overran bool, err error) {
	if c.mode.withHeader {
		if len(payload) > int(c.mode.frameSize) {
			return false, fmt.Errorf("framing: payload %d exceeds max %d", len(payload), c.mode.frameSize)
		}
	} else if uint32(len(payload)) != c.mode.frameSize {
		// spec.md §4.B: "the canonical contract is that producers supply
		// exactly F bytes per write"; this codec rejects the alternative.
		return false, fmt.Errorf("framing: fixed-mode payload must be exactly %d bytes, got %d", c.mode.frameSize, len(payload))
	}

	wireLen := c.mode.WireSize(len(payload))
	if wireLen > r.Cap() {
		return false, fmt.Errorf("framing: wire length %d exceeds ring capacity %d", wireLen, r.Cap())
	}

	if wireLen > r.Free() {
		overran = true
		c.discardForSpace(r, wireLen)
	}

	if c.mode.withHeader {
		hdr := make([]byte, headerLen)
		binary.BigEndian.PutUint16(hdr, uint16(len(payload)))
		r.Write(hdr)
	}
	r.Write(payload)
	return overran, nil
}

// discardForSpace discards from the head of the ring until at least need
// bytes are free, preferring whole-record discards in WithHeader mode to keep the stream
// aligned. It falls back to a byte-granular discard only when whole
// records cannot make enough room (corruption or an oversized record).
func (c *Codec) discardForSpace(r *ring.Ring, need int) {
	if !c.mode.withHeader {
		shortfall := need - r.Free()
		r.Discard(shortfall)
		return
	}

	hdr := make([]byte, headerLen)
	for r.Free() < need && r.Len() >= headerLen {
		r.Peek(hdr)
		l := int(binary.BigEndian.Uint16(hdr))
		if l > r.Cap()/2 {
			break
		}
		if r.Len() < headerLen+l {
			break
		}
		r.Discard(headerLen + l)
	}

	if r.Free() < need {
		shortfall := need - r.Free()
		if shortfall > r.Len() {
			shortfall = r.Len()
		}
		r.Discard(shortfall)
	}
}

// ReadResult describes the outcome of a single ReadFrame call.
type ReadResult struct {
	N       int  // bytes copied into scratch
	Desync  bool // a malformed/oversized header was discarded this call
	Partial bool // a whole frame is not yet available
}

// ReadFrame consumes one frame from r into scratch and reports how it
// went. scratch must be at least Mode.FrameSize() bytes.
func (c *Codec) ReadFrame(r *ring.Ring, scratch []byte) ReadResult {
	if !c.mode.withHeader {
		n := int(c.mode.frameSize)
		if r.Len() < n {
			return ReadResult{Partial: true}
		}
		got := r.Read(scratch[:n])
		return ReadResult{N: got}
	}

	if r.Len() < headerLen {
		return ReadResult{Partial: true}
	}

	hdr := make([]byte, headerLen)
	r.Peek(hdr)
	payloadLen := int(binary.BigEndian.Uint16(hdr))

	if payloadLen > int(c.mode.frameSize) {
		// Malformed record: discard it whole, bounded-chunked by frameSize,
		// so a single giant declared length cannot blow past scratch.
		if r.Len() < headerLen+payloadLen {
			return ReadResult{Partial: true}
		}
		r.Discard(headerLen)
		left := payloadLen
		chunk := int(c.mode.frameSize)
		if chunk == 0 {
			chunk = 1
		}
		for left > 0 {
			n := chunk
			if n > left {
				n = left
			}
			r.Discard(n)
			left -= n
		}
		return ReadResult{Desync: true}
	}

	if r.Len() < headerLen+payloadLen {
		return ReadResult{Partial: true}
	}

	r.Discard(headerLen)
	got := r.Read(scratch[:payloadLen])
	return ReadResult{N: got}
}
