package main

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/shootao/jitterbuffer/internal/democonfig"
	"github.com/shootao/jitterbuffer/pkg/jitterbuffer"
)

// runSyntheticProducer writes fixed-size frames to buf at a roughly
// 20ms cadence, jittered by up to cfg.SyntheticJitterMs, until ctx is
// canceled. It exists to exercise the buffer's hysteresis without a
// real network source, the way jitter_buffer.h's simple_example
// synthesizes timing variance.
func runSyntheticProducer(ctx context.Context, buf *jitterbuffer.Buffer, cfg democonfig.SourceConfig, frameSize uint32) {
	frame := make([]byte, frameSize)
	seq := byte(0)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		for i := range frame {
			frame[i] = seq
		}
		seq++

		if err := buf.Write(frame); err != nil && errors.Is(err, jitterbuffer.ErrClosed) {
			return
		}

		jitter := time.Duration(0)
		if cfg.SyntheticJitterMs > 0 {
			jitter = time.Duration(rand.Intn(cfg.SyntheticJitterMs)) * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(20*time.Millisecond + jitter):
		}
	}
}
