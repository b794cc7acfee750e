// Package audioplayer drives a PortAudio output stream from frames
// handed to it by a jitterbuffer.Buffer's OnOutputData callback.
//
// Grounded on the teacher's internal/audio.Player.playAudio, adapted
// from PortAudio's callback-driven model (the teacher fills an int16
// slice inside the audio callback by reading its own ring buffer) to
// PortAudio's blocking Write model: our ring buffering, framing and
// silence synthesis are already done by jitterbuffer.Buffer, so the
// player only needs to push fixed-size chunks to the device as they
// arrive, via a small bounded channel so OnOutputData never blocks on
// the audio device.
package audioplayer

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
)

// Player writes 16-bit little-endian PCM frames to the default output
// device.
type Player struct {
	stream   *portaudio.Stream
	out      []int16
	frames   chan []byte
	done     chan struct{}
	logger   *log.Logger
	channels int
}

// New opens the default PortAudio output stream at sampleRate with the
// given channel count and a queue depth of queueDepth pending frames,
// and starts the player's feed goroutine.
func New(sampleRate float64, channels, framesPerBuffer, queueDepth int, logger *log.Logger) (*Player, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audioplayer: initialize: %w", err)
	}

	out := make([]int16, framesPerBuffer*channels)
	stream, err := portaudio.OpenDefaultStream(0, channels, sampleRate, framesPerBuffer, out)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audioplayer: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("audioplayer: start stream: %w", err)
	}

	p := &Player{
		stream:   stream,
		out:      out,
		frames:   make(chan []byte, queueDepth),
		done:     make(chan struct{}),
		logger:   logger,
		channels: channels,
	}
	go p.run()
	return p, nil
}

// Feed is a jitterbuffer.Config.OnOutputData-compatible callback: it
// copies data and enqueues it for playback, dropping it (and logging)
// if the player falls behind rather than blocking the pump.
func (p *Player) Feed(data []byte) {
	cp := append([]byte(nil), data...)
	select {
	case p.frames <- cp:
	default:
		p.logger.Warn("audioplayer: queue full, dropping frame", "bytes", len(data))
	}
}

func (p *Player) run() {
	for {
		select {
		case frame := <-p.frames:
			p.writeFrame(frame)
		case <-p.done:
			return
		}
	}
}

func (p *Player) writeFrame(frame []byte) {
	n := len(frame) / 2
	if n > len(p.out) {
		n = len(p.out)
	}
	for i := 0; i < n; i++ {
		p.out[i] = int16(frame[i*2]) | int16(frame[i*2+1])<<8
	}
	for i := n; i < len(p.out); i++ {
		p.out[i] = 0
	}
	if err := p.stream.Write(); err != nil {
		p.logger.Warn("audioplayer: write failed", "error", err)
	}
}

// Close stops the feed goroutine and tears down the PortAudio stream.
func (p *Player) Close() error {
	close(p.done)
	err := p.stream.Stop()
	if closeErr := p.stream.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	portaudio.Terminate()
	return err
}
