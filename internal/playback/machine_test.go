package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestStartEntersBuffering(t *testing.T) {
	m := New(20, 10)
	ev := m.Start()
	assert.Equal(t, EventBuffering, ev)
	assert.Equal(t, Buffering, m.State())
}

func TestBufferingToPlayingAtHighWater(t *testing.T) {
	m := New(20, 10)
	m.Start()

	assert.Equal(t, NoEvent, m.Evaluate(19))
	assert.Equal(t, Buffering, m.State())

	assert.Equal(t, EventPlaying, m.Evaluate(20))
	assert.Equal(t, Playing, m.State())
}

func TestPlayingToUnderrunBelowLowWater(t *testing.T) {
	m := New(20, 10)
	m.Start()
	m.Evaluate(20)
	require.Equal(t, Playing, m.State())

	assert.Equal(t, NoEvent, m.Evaluate(10))
	assert.Equal(t, EventUnderrun, m.Evaluate(9))
	assert.Equal(t, Underrun, m.State())
	assert.Equal(t, uint64(1), m.UnderrunCount())
}

func TestUnderrunRecoversToPlaying(t *testing.T) {
	m := New(20, 10)
	m.Start()
	m.Evaluate(20)
	m.Evaluate(5)
	require.Equal(t, Underrun, m.State())

	assert.Equal(t, EventPlaying, m.Evaluate(20))
	assert.Equal(t, Playing, m.State())
}

func TestResetForcesBuffering(t *testing.T) {
	m := New(20, 10)
	m.Start()
	m.Evaluate(20)
	require.Equal(t, Playing, m.State())

	ev := m.Reset()
	assert.Equal(t, EventBuffering, ev)
	assert.Equal(t, Buffering, m.State())
}

func TestHysteresisNoRepeatPlayingWithoutUnderrun(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		high := uint32(rapid.IntRange(1, 50).Draw(t, "high"))
		low := uint32(rapid.IntRange(1, int(high)).Draw(t, "low"))
		m := New(high, low)
		m.Start()

		sawPlaying := false
		sawUnderrunSincePlaying := true
		counts := rapid.SliceOfN(rapid.IntRange(0, 200), 0, 500).Draw(t, "counts")
		for _, fc := range counts {
			ev := m.Evaluate(fc)
			switch ev {
			case EventPlaying:
				if sawPlaying {
					require.True(t, sawUnderrunSincePlaying, "PLAYING re-emitted without an intervening UNDERRUN")
				}
				sawPlaying = true
				sawUnderrunSincePlaying = false
			case EventUnderrun:
				sawUnderrunSincePlaying = true
			}
		}
	})
}
