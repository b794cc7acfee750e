// Command jitterbufferdemo drives a jitterbuffer.Buffer from either a
// synthetic jittered generator or a WebSocket source, optionally
// playing the output through PortAudio, and prints periodic
// diagnostics. It is the Go-native analogue of jitter_buffer.h's
// examples/simple_example, minus the out-of-scope verification and
// heap-leak probing logic that example performs.
package main

func main() {
	Execute()
}
