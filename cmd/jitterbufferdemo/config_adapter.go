package main

import (
	"time"

	"github.com/shootao/jitterbuffer/internal/democonfig"
	"github.com/shootao/jitterbuffer/pkg/jitterbuffer"
)

// toBufferConfig converts the YAML-friendly democonfig.BufferConfig
// into a jitterbuffer.Config. OnOutputData and Observer are left for
// the caller to fill in.
func toBufferConfig(c democonfig.BufferConfig) jitterbuffer.Config {
	cfg := jitterbuffer.DefaultConfig()
	cfg.Capacity = c.Capacity
	cfg.WithHeader = c.WithHeader
	cfg.FrameSize = c.FrameSize
	cfg.FrameInterval = time.Duration(c.FrameIntervalMs) * time.Millisecond
	cfg.HighWater = c.HighWater
	cfg.LowWater = c.LowWater
	cfg.OutputSilenceOnEmpty = c.OutputSilenceOnEmpty
	cfg.AudioFormat = audioFormatFromString(c.AudioFormat)
	return cfg
}

func audioFormatFromString(s string) jitterbuffer.AudioFormat {
	switch s {
	case "opus":
		return jitterbuffer.FormatOpus
	case "pcm":
		return jitterbuffer.FormatPCM
	default:
		return jitterbuffer.FormatUnknown
	}
}
