package framing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shootao/jitterbuffer/pkg/ring"
)

func TestFixedModeFrameCount(t *testing.T) {
	r := ring.New(2048)
	c := NewCodec(Fixed(512))

	overran, err := c.WriteFrame(r, make([]byte, 512))
	require.NoError(t, err)
	assert.False(t, overran)
	assert.Equal(t, 1, c.FrameCount(r))
}

func TestFixedModeOverrunDiscardsOldest(t *testing.T) {
	r := ring.New(1024)
	c := NewCodec(Fixed(512))

	first := make([]byte, 512)
	for i := range first {
		first[i] = 0xAA
	}
	second := make([]byte, 512)
	for i := range second {
		second[i] = 0xBB
	}
	third := make([]byte, 512)
	for i := range third {
		third[i] = 0xCC
	}

	overran, err := c.WriteFrame(r, first)
	require.NoError(t, err)
	assert.False(t, overran)

	overran, err = c.WriteFrame(r, second)
	require.NoError(t, err)
	assert.False(t, overran)

	overran, err = c.WriteFrame(r, third)
	require.NoError(t, err)
	assert.True(t, overran)

	assert.Equal(t, 2, c.FrameCount(r))

	scratch := make([]byte, 512)
	res := c.ReadFrame(r, scratch)
	require.Equal(t, 512, res.N)
	assert.Equal(t, byte(0xBB), scratch[0])

	res = c.ReadFrame(r, scratch)
	require.Equal(t, 512, res.N)
	assert.Equal(t, byte(0xCC), scratch[0])
}

func TestFixedModeRejectsWrongSizedPayload(t *testing.T) {
	r := ring.New(2048)
	c := NewCodec(Fixed(512))

	_, err := c.WriteFrame(r, make([]byte, 511))
	assert.Error(t, err)
}

func TestWithHeaderRoundTrip(t *testing.T) {
	r := ring.New(4096)
	c := NewCodec(WithHeader(256))

	overran, err := c.WriteFrame(r, []byte("hello"))
	require.NoError(t, err)
	assert.False(t, overran)

	assert.Equal(t, 1, c.FrameCount(r))

	scratch := make([]byte, 256)
	res := c.ReadFrame(r, scratch)
	require.Equal(t, 5, res.N)
	assert.False(t, res.Desync)
	assert.Equal(t, "hello", string(scratch[:5]))
}

func TestWithHeaderPartialRecordNotConsumed(t *testing.T) {
	c := NewCodec(WithHeader(256))

	r := ring.New(4096)
	// A declared length of 5 but no payload bytes written yet: the header
	// is present but the record is incomplete.
	r.Write([]byte{0x00, 0x05})
	assert.Equal(t, 0, c.FrameCount(r))

	scratch := make([]byte, 256)
	res := c.ReadFrame(r, scratch)
	assert.True(t, res.Partial)
	assert.Equal(t, 2, r.Len())
}

func TestWithHeaderOverrunDiscardsWholeRecord(t *testing.T) {
	mode := WithHeader(256)
	capacity := mode.MinCapacityFor(4)
	r := ring.New(capacity)
	c := NewCodec(mode)

	payload := make([]byte, 250)
	for i := 0; i < 4; i++ {
		overran, err := c.WriteFrame(r, payload)
		require.NoError(t, err)
		assert.False(t, overran)
	}

	// A fifth record does not fit; exactly one whole record should be
	// discarded from the head, leaving the four most recent intact.
	overran, err := c.WriteFrame(r, payload)
	require.NoError(t, err)
	assert.True(t, overran)

	assert.Equal(t, 4, c.FrameCount(r))
}

func TestWithHeaderDesyncDiscardsMalformedRecord(t *testing.T) {
	r := ring.New(4096)
	c := NewCodec(WithHeader(16))

	// Hand-craft a record whose declared length exceeds the configured
	// max payload but not half the ring capacity, simulating corruption.
	bad := make([]byte, 2+20)
	bad[0] = 0x00
	bad[1] = 20
	r.Write(bad)

	scratch := make([]byte, 16)
	res := c.ReadFrame(r, scratch)
	assert.True(t, res.Desync)
	assert.Equal(t, 0, r.Len())
}

func TestFrameCountStopsAtDesyncMarker(t *testing.T) {
	r := ring.New(4096)
	c := NewCodec(WithHeader(256))

	huge := make([]byte, 2)
	huge[0] = 0xFF
	huge[1] = 0xFF
	r.Write(huge)

	assert.Equal(t, 0, c.FrameCount(r))
}
