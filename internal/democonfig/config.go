// Package democonfig loads the configuration for cmd/jitterbufferdemo:
// the jitter buffer's own Config plus the demo harness's source and
// sink settings.
//
// Grounded on the teacher's internal/config.Config/DefaultConfig split
// (one struct per concern, one factory function), generalized from a
// single hardcoded audio/websocket/device config to a YAML-overlayable
// one via gopkg.in/yaml.v3, since the demo (unlike the teacher's chat
// client) is meant to be pointed at different sources without a
// rebuild.
package democonfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BufferConfig mirrors jitterbuffer.Config's fields in a YAML-friendly
// shape (durations as milliseconds, no function fields).
type BufferConfig struct {
	Capacity             int    `yaml:"capacity"`
	WithHeader           bool   `yaml:"withHeader"`
	FrameSize            uint32 `yaml:"frameSize"`
	FrameIntervalMs      uint32 `yaml:"frameIntervalMs"`
	HighWater            uint32 `yaml:"highWater"`
	LowWater             uint32 `yaml:"lowWater"`
	OutputSilenceOnEmpty bool   `yaml:"outputSilenceOnEmpty"`
	AudioFormat          string `yaml:"audioFormat"` // "opus" | "pcm"
}

// SourceConfig selects and configures the demo's producer.
type SourceConfig struct {
	Mode           string        `yaml:"mode"` // "synthetic" | "websocket"
	URL            string        `yaml:"url"`
	ReconnectDelay time.Duration `yaml:"reconnectDelay"`
	PingInterval   time.Duration `yaml:"pingInterval"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	MaxMessageSize int64         `yaml:"maxMessageSize"`

	// SyntheticJitterMs bounds the random delay a synthetic producer
	// inserts between frames, to exercise the buffer's hysteresis.
	SyntheticJitterMs int `yaml:"syntheticJitterMs"`
}

// SinkConfig selects and configures the demo's consumer.
type SinkConfig struct {
	Play            bool    `yaml:"play"`
	SampleRate      float64 `yaml:"sampleRate"`
	Channels        int     `yaml:"channels"`
	FramesPerBuffer int     `yaml:"framesPerBuffer"`
	QueueDepth      int     `yaml:"queueDepth"`
}

// Config is the root of the demo's configuration tree.
type Config struct {
	Buffer BufferConfig `yaml:"buffer"`
	Source SourceConfig `yaml:"source"`
	Sink   SinkConfig   `yaml:"sink"`
}

// DefaultConfig returns the demo's out-of-the-box configuration: a
// synthetic source, no playback device, and jitterbuffer.DefaultConfig's
// values expressed in YAML-friendly form.
func DefaultConfig() Config {
	return Config{
		Buffer: BufferConfig{
			Capacity:             11 * 1024,
			WithHeader:           false,
			FrameSize:            512,
			FrameIntervalMs:      20,
			HighWater:            20,
			LowWater:             10,
			OutputSilenceOnEmpty: false,
			AudioFormat:          "opus",
		},
		Source: SourceConfig{
			Mode:              "synthetic",
			ReconnectDelay:    5 * time.Second,
			PingInterval:      30 * time.Second,
			WriteTimeout:      10 * time.Second,
			ReadTimeout:       60 * time.Second,
			MaxMessageSize:    1024 * 1024,
			SyntheticJitterMs: 15,
		},
		Sink: SinkConfig{
			Play:            false,
			SampleRate:      16000,
			Channels:        1,
			FramesPerBuffer: 256,
			QueueDepth:      32,
		},
	}
}

// Load reads path as YAML and overlays it onto DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("democonfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("democonfig: parse %s: %w", path, err)
	}
	return cfg, nil
}
