package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shootao/jitterbuffer/internal/democonfig"
	"github.com/shootao/jitterbuffer/pkg/jitterbuffer"
)

var benchDuration time.Duration

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a synthetic producer for a fixed duration and report final counters",
	Run:   runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().DurationVar(&benchDuration, "duration", 10*time.Second, "how long to run before reporting")
}

func runBench(cmd *cobra.Command, args []string) {
	runID := uuid.NewString()
	logger := log.Default().With("run", runID, "mode", "bench")

	cfg := democonfig.DefaultConfig()
	var frameCount int
	bufCfg := toBufferConfig(cfg.Buffer)
	bufCfg.OnOutputData = func(data []byte) { frameCount++ }

	buf, err := jitterbuffer.New(bufCfg)
	if err != nil {
		logger.Error("failed to create jitter buffer", "error", err)
		return
	}
	defer buf.Close()

	if err := buf.Start(); err != nil {
		logger.Error("failed to start buffer", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), benchDuration)
	defer cancel()

	logger.Info("bench starting", "duration", benchDuration)
	runSyntheticProducer(ctx, buf, cfg.Source, cfg.Buffer.FrameSize)

	d := buf.Diagnostics()
	fmt.Printf("run=%s duration=%s callbacks=%d final_state=%s underruns=%d overruns=%d written=%d read=%d\n",
		runID, benchDuration, frameCount, d.State, d.UnderrunCount, d.OverrunCount, d.TotalWritten, d.TotalRead)
}
