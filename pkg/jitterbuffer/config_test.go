package jitterbuffer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesSpecDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 11*1024, cfg.Capacity)
	assert.False(t, cfg.WithHeader)
	assert.Equal(t, uint32(512), cfg.FrameSize)
	assert.Equal(t, 20*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, uint32(20), cfg.HighWater)
	assert.Equal(t, uint32(10), cfg.LowWater)
	assert.False(t, cfg.OutputSilenceOnEmpty)
	assert.Nil(t, cfg.OnOutputData)
	assert.Equal(t, FormatOpus, cfg.AudioFormat)
	assert.Nil(t, cfg.Observer)
}

func TestValidateRejectsMissingCallback(t *testing.T) {
	cfg := DefaultConfig()
	_, err := cfg.validate()
	require.Error(t, err)
	assert.Equal(t, InvalidArgument, err.(*Error).Kind)
}

func TestValidateRejectsBadWaterMarks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OnOutputData = func([]byte) {}
	cfg.LowWater = 30
	cfg.HighWater = 20
	_, err := cfg.validate()
	require.Error(t, err)
}

func TestValidateRejectsZeroFrameInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OnOutputData = func([]byte) {}
	cfg.FrameInterval = 0
	_, err := cfg.validate()
	require.Error(t, err)
}

func TestValidateRejectsNonOpusCompatibleIntervalForSilence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OnOutputData = func([]byte) {}
	cfg.OutputSilenceOnEmpty = true
	cfg.FrameInterval = 25 * time.Millisecond
	_, err := cfg.validate()
	require.Error(t, err)
}

func TestValidateAcceptsOpusSilenceWithPermittedInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OnOutputData = func([]byte) {}
	cfg.OutputSilenceOnEmpty = true
	cfg.FrameInterval = 60 * time.Millisecond
	_, err := cfg.validate()
	assert.NoError(t, err)
}

func TestValidateRaisesCapacityForWithHeaderMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OnOutputData = func([]byte) {}
	cfg.WithHeader = true
	cfg.FrameSize = 256
	cfg.HighWater = 4
	cfg.Capacity = 16 // deliberately too small
	capacity, err := cfg.validate()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, capacity, 4*(2+256))
}
