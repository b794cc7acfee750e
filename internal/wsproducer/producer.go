// Package wsproducer feeds a jitterbuffer.Buffer from a WebSocket
// connection carrying raw binary audio frames.
//
// Grounded on the teacher's internal/websocket.Client: the same
// connect/reconnect loop and ping keepalive, simplified to a single
// binary message type (no JSON envelope — this demo's producer is
// payload-oblivious, matching the jitter buffer's own Non-goals) and
// logged with charmbracelet/log instead of the standard log package.
package wsproducer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Config controls connection behavior.
type Config struct {
	URL            string
	ReconnectDelay time.Duration
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	MaxMessageSize int64
}

// FrameFunc receives one binary message read from the socket. It is
// typically jitterbuffer.Buffer.Write.
type FrameFunc func(frame []byte) error

// Producer connects to a WebSocket endpoint and delivers every binary
// message it receives to a FrameFunc, reconnecting on failure until
// Stop is called.
type Producer struct {
	cfg     Config
	onFrame FrameFunc
	logger  *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	conn *websocket.Conn
}

// New returns a Producer that has not yet connected; call Start.
func New(cfg Config, onFrame FrameFunc, logger *log.Logger) *Producer {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Producer{cfg: cfg, onFrame: onFrame, logger: logger, ctx: ctx, cancel: cancel}
}

// Start begins the connect/reconnect loop in a background goroutine.
func (p *Producer) Start() {
	go p.connectLoop()
}

// Stop cancels the producer and closes any open connection.
func (p *Producer) Stop() {
	p.cancel()
	p.mu.Lock()
	if p.conn != nil {
		p.conn.Close()
	}
	p.mu.Unlock()
}

func (p *Producer) connectLoop() {
	for {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		if err := p.connect(); err != nil {
			p.logger.Warn("websocket connect failed, retrying", "error", err, "delay", p.cfg.ReconnectDelay)
			select {
			case <-p.ctx.Done():
				return
			case <-time.After(p.cfg.ReconnectDelay):
				continue
			}
		}
		p.messageLoop()
	}
}

func (p *Producer) connect() error {
	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = p.cfg.WriteTimeout

	conn, _, err := dialer.Dial(p.cfg.URL, nil)
	if err != nil {
		return err
	}
	conn.SetReadLimit(p.cfg.MaxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(p.cfg.ReadTimeout)); err != nil {
		conn.Close()
		return fmt.Errorf("set read deadline: %w", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(p.cfg.ReadTimeout))
	})

	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()

	p.logger.Info("websocket connected", "url", p.cfg.URL)
	return nil
}

func (p *Producer) messageLoop() {
	defer func() {
		p.mu.Lock()
		if p.conn != nil {
			p.conn.Close()
			p.conn = nil
		}
		p.mu.Unlock()
	}()

	go p.pingLoop()

	for {
		p.mu.Lock()
		conn := p.conn
		p.mu.Unlock()
		if conn == nil {
			return
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			p.logger.Warn("websocket read error", "error", err)
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		if err := p.onFrame(data); err != nil {
			p.logger.Warn("frame rejected", "error", err)
		}
	}
}

func (p *Producer) pingLoop() {
	ticker := time.NewTicker(p.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.mu.Lock()
			conn := p.conn
			p.mu.Unlock()
			if conn == nil {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(p.cfg.WriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.logger.Warn("ping failed", "error", err)
				return
			}
		}
	}
}
