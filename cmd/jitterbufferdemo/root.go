package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// logLevelFlag adapts charmbracelet/log's Level to pflag.Value so
// --log-level can be validated and parsed directly by pflag instead of
// cobra's thinner string-flag wrapper.
type logLevelFlag struct {
	level log.Level
}

func (f *logLevelFlag) String() string { return f.level.String() }

func (f *logLevelFlag) Set(s string) error {
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", s, err)
	}
	f.level = lvl
	return nil
}

func (f *logLevelFlag) Type() string { return "level" }

var logLevel = &logLevelFlag{level: log.InfoLevel}

var rootCmd = &cobra.Command{
	Use:   "jitterbufferdemo",
	Short: "Drive an adaptive audio jitter buffer from a synthetic or WebSocket source",
	Long: `jitterbufferdemo exercises pkg/jitterbuffer end to end: a producer
feeds frames into a Buffer, a periodic pump drains it under a
hysteretic BUFFERING/PLAYING/UNDERRUN policy, and an optional PortAudio
sink plays the result.

Commands:
  run   - stream from a synthetic generator or a WebSocket source, with
          an interactive start/stop/reset console on stdin
  bench - run a synthetic producer for a fixed duration and report
          final counters, no interactive console or playback`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetLevel(logLevel.level)
	},
}

func init() {
	var levelFlag pflag.Value = logLevel
	rootCmd.PersistentFlags().Var(levelFlag, "log-level", "log level: debug, info, warn, error")
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
