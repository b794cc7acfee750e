package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shootao/jitterbuffer/internal/audioplayer"
	"github.com/shootao/jitterbuffer/internal/control"
	"github.com/shootao/jitterbuffer/internal/democonfig"
	"github.com/shootao/jitterbuffer/internal/wsproducer"
	"github.com/shootao/jitterbuffer/pkg/jitterbuffer"
)

var (
	runConfigPath string
	runSourceURL  string
	runPlay       bool
	runSilence    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Stream into the jitter buffer with an interactive console",
	Run:   runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a YAML config overlay")
	runCmd.Flags().StringVar(&runSourceURL, "source", "", "websocket URL to stream from (overrides config); omit for a synthetic source")
	runCmd.Flags().BoolVar(&runPlay, "play", false, "play buffer output through the default audio device")
	runCmd.Flags().BoolVar(&runSilence, "silence", false, "emit silence when the buffer has no frame ready")
}

func runRun(cmd *cobra.Command, args []string) {
	logger := log.Default()
	runID := uuid.NewString()
	logger = logger.With("run", runID)

	cfg := democonfig.DefaultConfig()
	if runConfigPath != "" {
		loaded, err := democonfig.Load(runConfigPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if runSourceURL != "" {
		cfg.Source.Mode = "websocket"
		cfg.Source.URL = runSourceURL
	}
	if runPlay {
		cfg.Sink.Play = true
	}
	if runSilence {
		cfg.Buffer.OutputSilenceOnEmpty = true
	}

	var player *audioplayer.Player
	if cfg.Sink.Play {
		p, err := audioplayer.New(cfg.Sink.SampleRate, cfg.Sink.Channels, cfg.Sink.FramesPerBuffer, cfg.Sink.QueueDepth, logger)
		if err != nil {
			logger.Error("failed to open audio player", "error", err)
			os.Exit(1)
		}
		player = p
		defer player.Close()
	}

	bufCfg := toBufferConfig(cfg.Buffer)
	if player != nil {
		bufCfg.OnOutputData = player.Feed
	} else {
		bufCfg.OnOutputData = func(data []byte) {}
	}

	buf, err := jitterbuffer.New(bufCfg)
	if err != nil {
		logger.Error("failed to create jitter buffer", "error", err)
		os.Exit(1)
	}
	defer buf.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := buf.Start(); err != nil {
		logger.Error("failed to start buffer", "error", err)
		os.Exit(1)
	}

	switch cfg.Source.Mode {
	case "websocket":
		producer := wsproducer.New(wsproducer.Config{
			URL:            cfg.Source.URL,
			ReconnectDelay: cfg.Source.ReconnectDelay,
			PingInterval:   cfg.Source.PingInterval,
			WriteTimeout:   cfg.Source.WriteTimeout,
			ReadTimeout:    cfg.Source.ReadTimeout,
			MaxMessageSize: cfg.Source.MaxMessageSize,
		}, func(frame []byte) error { return buf.Write(frame) }, logger)
		producer.Start()
		defer producer.Stop()
	default:
		go runSyntheticProducer(ctx, buf, cfg.Source, cfg.Buffer.FrameSize)
	}

	monitor := &bufferCommandHandler{buf: buf, cancel: cancel, logger: logger}
	console := control.NewStdinMonitor(ctx, monitor, logger)
	console.Start()
	defer console.Stop()

	go printDiagnostics(ctx, buf, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case sig := <-sigCh:
		logger.Info("signal received, shutting down", "signal", sig)
	}
}

type bufferCommandHandler struct {
	buf    *jitterbuffer.Buffer
	cancel context.CancelFunc
	logger *log.Logger
}

func (h *bufferCommandHandler) HandleCommand(cmd control.Command) {
	switch cmd {
	case control.CmdStart:
		if err := h.buf.Start(); err != nil {
			h.logger.Warn("start failed", "error", err)
		}
	case control.CmdStop:
		if err := h.buf.Stop(); err != nil {
			h.logger.Warn("stop failed", "error", err)
		}
	case control.CmdReset:
		if err := h.buf.Reset(); err != nil {
			h.logger.Warn("reset failed", "error", err)
		}
	case control.CmdQuit:
		h.cancel()
	}
}

func printDiagnostics(ctx context.Context, buf *jitterbuffer.Buffer, logger *log.Logger) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d := buf.Diagnostics()
			fmt.Printf("state=%-9s frames=%-4d underruns=%-4d overruns=%-4d written=%d read=%d\n",
				d.State, d.FrameCount, d.UnderrunCount, d.OverrunCount, d.TotalWritten, d.TotalRead)
		}
	}
}
