// Package control implements the demo harness's interactive command
// surface: a stdin line reader that starts, stops and resets a
// jitterbuffer.Buffer, grounded on the teacher's
// internal/control.StdinMonitor, redesigned around this domain's four
// commands instead of the chat client's recording commands.
package control

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Command is one of the operations a Handler understands.
type Command string

const (
	CmdStart Command = "start"
	CmdStop  Command = "stop"
	CmdReset Command = "reset"
	CmdQuit  Command = "quit"
)

// Handler reacts to commands read from stdin.
type Handler interface {
	HandleCommand(cmd Command)
}

// StdinMonitor reads commands from stdin until its context is canceled.
type StdinMonitor struct {
	handler Handler
	logger  *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewStdinMonitor returns a monitor that dispatches to handler.
func NewStdinMonitor(parentCtx context.Context, handler Handler, logger *log.Logger) *StdinMonitor {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	return &StdinMonitor{handler: handler, logger: logger, ctx: ctx, cancel: cancel}
}

// Start begins reading commands in a background goroutine.
func (sm *StdinMonitor) Start() {
	go sm.monitorLoop()
}

// Stop cancels the monitor. Does not unblock an in-flight stdin read.
func (sm *StdinMonitor) Stop() {
	sm.cancel()
}

func (sm *StdinMonitor) monitorLoop() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== jitterbufferdemo console ===")
	fmt.Println("  start | stop | reset | quit")

	for {
		select {
		case <-sm.ctx.Done():
			return
		default:
		}

		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			sm.logger.Warn("stdin read failed", "error", err)
			return
		}

		input = strings.TrimSpace(strings.ToLower(input))
		if input == "" {
			continue
		}
		sm.dispatch(input)
	}
}

func (sm *StdinMonitor) dispatch(input string) {
	var cmd Command
	switch input {
	case "start":
		cmd = CmdStart
	case "stop":
		cmd = CmdStop
	case "reset":
		cmd = CmdReset
	case "q", "quit", "exit":
		cmd = CmdQuit
	default:
		fmt.Printf("unknown command: %s\n", input)
		return
	}
	sm.handler.HandleCommand(cmd)
}
