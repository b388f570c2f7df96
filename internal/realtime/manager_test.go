package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheus3301/mchat/internal/bus"
)

// fakeServer speaks just enough Engine.IO/Socket.IO to drive a Manager.
type fakeServer struct {
	t        *testing.T
	upgrader websocket.Upgrader
	conns    atomic.Int32
	cookie   atomic.Value
	script   func(conn *websocket.Conn, n int32)
}

func (s *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != socketPath || r.URL.Query().Get("EIO") != "4" {
		http.NotFound(w, r)
		return
	}
	s.cookie.Store(r.Header.Get("Cookie"))
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	n := s.conns.Add(1)

	send := func(frame string) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(frame))
	}
	expect := func(want string) bool {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, got, err := conn.ReadMessage()
		if err != nil {
			return false
		}
		assert.Equal(s.t, want, string(got))
		return true
	}

	send(`0{"sid":"e1","pingInterval":25000,"pingTimeout":20000}`)
	if !expect("40") {
		return
	}
	send(`40{"sid":"s1"}`)
	if !expect(`42["join_user_room"]`) || !expect(`42["request_unread_count"]`) {
		return
	}
	s.script(conn, n)
}

func startFake(t *testing.T, script func(conn *websocket.Conn, n int32)) (*fakeServer, *httptest.Server) {
	t.Helper()
	fs := &fakeServer{t: t, script: script}
	srv := httptest.NewServer(fs)
	t.Cleanup(srv.Close)
	return fs, srv
}

func waitEvent(t *testing.T, ch <-chan bus.Event, kind string) bus.Event {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Kind == kind {
				return evt
			}
		case <-timeout:
			t.Fatalf("timeout waiting for %s", kind)
			return bus.Event{}
		}
	}
}

func TestSocketURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://clinic.local:5000", "ws://clinic.local:5000/socket.io/?EIO=4&transport=websocket"},
		{"https://clinic.example/app/", "wss://clinic.example/app/socket.io/?EIO=4&transport=websocket"},
	}
	for _, tt := range tests {
		got, err := SocketURL(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := SocketURL("ftp://x")
	assert.Error(t, err)
}

func TestManagerConnectsAndPublishesEvents(t *testing.T) {
	pong := make(chan string, 1)
	fs, srv := startFake(t, func(conn *websocket.Conn, _ int32) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`42["new_message",{"message":{"id":5,"sender_id":2,"sender_name":"Ana","content":"hi"},"notification":{"title":"New message from Ana"}}]`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`42["message_delivered",{"message_id":5,"delivered_at":"2026-10-19T10:00:00"}]`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`2`))
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, frame, err := conn.ReadMessage(); err == nil {
			pong <- string(frame)
		}
		// Hold the connection until the client goes away.
		_, _, _ = conn.ReadMessage()
	})

	b := bus.New()
	ch, unsub := b.Subscribe(bus.NamespaceRealtime, 64)
	defer unsub()

	m := NewManager(Options{ServerURL: srv.URL, SessionCookie: "tok", ReconnectDelay: 10 * time.Millisecond}, b, nil)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	waitEvent(t, ch, bus.KindConnect)
	evt := waitEvent(t, ch, bus.KindNewMessage)
	msg, ok := evt.Payload.(NewMessage)
	require.True(t, ok, "payload %T", evt.Payload)
	assert.Equal(t, int64(5), msg.Message.ID)
	assert.Equal(t, "New message from Ana", msg.Notification.Title)

	evt = waitEvent(t, ch, bus.KindMessageDelivered)
	assert.Equal(t, int64(5), evt.Payload.(Delivered).MessageID)

	select {
	case frame := <-pong:
		assert.Equal(t, "3", frame)
	case <-time.After(2 * time.Second):
		t.Fatal("no pong")
	}
	assert.Equal(t, "session=tok", fs.cookie.Load())
	assert.Equal(t, Connected, m.State())
}

func TestManagerReconnects(t *testing.T) {
	fs, srv := startFake(t, func(conn *websocket.Conn, n int32) {
		if n == 1 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`41`))
			return
		}
		_, _, _ = conn.ReadMessage()
	})

	b := bus.New()
	ch, unsub := b.Subscribe(bus.NamespaceRealtime, 64)
	defer unsub()

	m := NewManager(Options{ServerURL: srv.URL, ReconnectDelay: 10 * time.Millisecond}, b, nil)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	waitEvent(t, ch, bus.KindConnect)
	waitEvent(t, ch, bus.KindDisconnect)
	waitEvent(t, ch, bus.KindConnect)
	assert.GreaterOrEqual(t, fs.conns.Load(), int32(2))
}

func TestEmitWhileDisconnected(t *testing.T) {
	m := NewManager(Options{ServerURL: "http://127.0.0.1:1"}, bus.New(), nil)
	assert.ErrorIs(t, m.Emit(EventTypingStart, typingPayload{RecipientID: 1}), ErrNotConnected)
	assert.Equal(t, Disconnected, m.State())
}

func TestStopEndsLoop(t *testing.T) {
	_, srv := startFake(t, func(conn *websocket.Conn, _ int32) {
		_, _, _ = conn.ReadMessage()
	})
	b := bus.New()
	ch, unsub := b.Subscribe(bus.NamespaceRealtime, 64)
	defer unsub()

	m := NewManager(Options{ServerURL: srv.URL}, b, nil)
	require.NoError(t, m.Start(context.Background()))
	waitEvent(t, ch, bus.KindConnect)

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.Equal(t, Disconnected, m.State())
}
