// Package realtime keeps the Socket.IO connection to the messaging backend,
// turns pushed events into bus events and emits typing signals.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/bus"
	"github.com/matheus3301/mchat/internal/metrics"
)

const (
	socketPath       = "/socket.io/"
	writeWait        = 10 * time.Second
	handshakeTimeout = 10 * time.Second
	readLimit        = 1 << 20

	defaultReconnectDelay = 3 * time.Second

	// Used until the open handshake announces the server's values.
	defaultPingInterval = 25 * time.Second
	defaultPingTimeout  = 20 * time.Second
)

// ErrNotConnected is returned by Emit while the namespace is not connected.
var ErrNotConnected = errors.New("realtime: not connected")

// Options configures a Manager.
type Options struct {
	ServerURL      string
	SessionCookie  string
	ReconnectDelay time.Duration
	Dialer         *websocket.Dialer
}

// Manager owns one persistent Socket.IO connection and reconnects it after a
// fixed delay until stopped.
type Manager struct {
	opts    Options
	bus     *bus.Bus
	machine *Machine
	logger  *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn

	writeMu sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a Manager. Call Start to connect.
func NewManager(opts Options, b *bus.Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = defaultReconnectDelay
	}
	if opts.Dialer == nil {
		d := *websocket.DefaultDialer
		d.HandshakeTimeout = handshakeTimeout
		opts.Dialer = &d
	}
	return &Manager{
		opts:    opts,
		bus:     b,
		machine: NewMachine(b),
		logger:  logger,
	}
}

// SocketURL derives the websocket endpoint from the backend base URL.
func SocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + socketPath
	u.RawQuery = url.Values{"EIO": {"4"}, "transport": {"websocket"}}.Encode()
	return u.String(), nil
}

// State returns the connection state.
func (m *Manager) State() State {
	return m.machine.Current()
}

// Start connects in the background and keeps reconnecting until ctx ends or
// Stop is called.
func (m *Manager) Start(ctx context.Context) error {
	endpoint, err := SocketURL(m.opts.ServerURL)
	if err != nil {
		return err
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.run(ctx, endpoint)
	return nil
}

// Stop closes the connection and waits for the loop to exit.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}

func (m *Manager) run(ctx context.Context, endpoint string) {
	defer close(m.done)
	for {
		err := m.session(ctx, endpoint)
		if ctx.Err() != nil {
			return
		}
		m.logger.Warn("realtime connection lost",
			zap.Error(err),
			zap.Duration("retry_in", m.opts.ReconnectDelay),
		)
		metrics.RealtimeReconnectsTotal.Inc()
		select {
		case <-time.After(m.opts.ReconnectDelay):
		case <-ctx.Done():
			return
		}
	}
}

// session runs one connection from dial to close.
func (m *Manager) session(ctx context.Context, endpoint string) error {
	if err := m.machine.Transition(Connecting); err != nil {
		return err
	}

	header := http.Header{}
	if cookie := api.CookieHeader(m.opts.SessionCookie); cookie != "" {
		header.Set("Cookie", cookie)
	}
	conn, resp, err := m.opts.Dialer.DialContext(ctx, endpoint, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		_ = m.machine.Transition(Disconnected)
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	err = m.readLoop(conn)

	m.mu.Lock()
	wasConnected := m.conn != nil
	m.conn = nil
	m.mu.Unlock()
	_ = conn.Close()
	_ = m.machine.Transition(Disconnected)
	if wasConnected {
		m.bus.Publish(bus.NewEvent(bus.KindDisconnect, nil))
		metrics.RecordEvent("disconnect")
	}
	return err
}

func (m *Manager) readLoop(conn *websocket.Conn) error {
	conn.SetReadLimit(readLimit)
	deadline := defaultPingInterval + defaultPingTimeout
	_ = conn.SetReadDeadline(time.Now().Add(deadline))

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(deadline))

		pkt, err := Decode(frame)
		if err != nil {
			m.logger.Debug("skipping undecodable frame", zap.Error(err))
			continue
		}

		switch pkt.Type {
		case PacketOpen:
			var hs Handshake
			if err := json.Unmarshal(pkt.Data, &hs); err == nil && hs.PingInterval > 0 {
				deadline = time.Duration(hs.PingInterval+hs.PingTimeout) * time.Millisecond
				_ = conn.SetReadDeadline(time.Now().Add(deadline))
			}
			if err := m.write(conn, []byte(frameConnect)); err != nil {
				return err
			}
		case PacketPing:
			if err := m.write(conn, []byte(framePong)); err != nil {
				return err
			}
		case PacketConnect:
			if err := m.onConnect(conn); err != nil {
				return err
			}
		case PacketEvent:
			m.dispatch(pkt)
		case PacketConnectError:
			return fmt.Errorf("connect rejected: %s", pkt.Data)
		case PacketDisconnect, PacketClose:
			return errors.New("server closed the connection")
		}
	}
}

func (m *Manager) onConnect(conn *websocket.Conn) error {
	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()
	if err := m.machine.Transition(Connected); err != nil {
		m.logger.Warn("unexpected connect", zap.Error(err))
	}
	m.logger.Info("realtime connected")
	m.bus.Publish(bus.NewEvent(bus.KindConnect, nil))
	metrics.RecordEvent("connect")

	if err := m.Emit(EventJoinUserRoom, nil); err != nil {
		return err
	}
	return m.Emit(EventRequestUnreadCount, nil)
}

func (m *Manager) dispatch(pkt Packet) {
	kind, payload, ok, err := decodeEvent(pkt.Event, pkt.Data)
	if !ok {
		m.logger.Debug("ignoring realtime event", zap.String("event", pkt.Event))
		return
	}
	if err != nil {
		m.logger.Warn("malformed realtime event", zap.String("event", pkt.Event), zap.Error(err))
		return
	}
	metrics.RecordEvent(pkt.Event)
	m.bus.Publish(bus.NewEvent(kind, payload))
}

// Emit sends an event on the connected namespace.
func (m *Manager) Emit(event string, data any) error {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	frame, err := EncodeEvent(event, data)
	if err != nil {
		return err
	}
	return m.write(conn, frame)
}

// RequestUnreadCount asks the server to push a fresh unread count.
func (m *Manager) RequestUnreadCount() error {
	return m.Emit(EventRequestUnreadCount, nil)
}

func (m *Manager) write(conn *websocket.Conn, frame []byte) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
