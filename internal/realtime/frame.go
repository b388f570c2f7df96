package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PacketType identifies a decoded Engine.IO/Socket.IO frame.
type PacketType int

const (
	PacketOpen PacketType = iota
	PacketClose
	PacketPing
	PacketPong
	PacketNoop
	PacketConnect
	PacketDisconnect
	PacketEvent
	PacketConnectError
)

func (t PacketType) String() string {
	switch t {
	case PacketOpen:
		return "open"
	case PacketClose:
		return "close"
	case PacketPing:
		return "ping"
	case PacketPong:
		return "pong"
	case PacketNoop:
		return "noop"
	case PacketConnect:
		return "connect"
	case PacketDisconnect:
		return "disconnect"
	case PacketEvent:
		return "event"
	case PacketConnectError:
		return "connect_error"
	}
	return fmt.Sprintf("packet(%d)", int(t))
}

// Frames the client writes verbatim.
const (
	frameConnect = "40"
	framePong    = "3"
)

// Packet is one decoded text frame. Event and Data are set for events;
// Data also carries the open handshake and connect payloads.
type Packet struct {
	Type  PacketType
	Event string
	Data  json.RawMessage
}

// Handshake is the Engine.IO open payload.
type Handshake struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

var errEmptyFrame = errors.New("empty frame")

// Decode parses one Engine.IO v4 text frame carrying Socket.IO v5 packets on
// the default namespace.
func Decode(frame []byte) (Packet, error) {
	if len(frame) == 0 {
		return Packet{}, errEmptyFrame
	}
	switch frame[0] {
	case '0':
		return Packet{Type: PacketOpen, Data: json.RawMessage(frame[1:])}, nil
	case '1':
		return Packet{Type: PacketClose}, nil
	case '2':
		return Packet{Type: PacketPing}, nil
	case '3':
		return Packet{Type: PacketPong}, nil
	case '6':
		return Packet{Type: PacketNoop}, nil
	case '4':
		return decodeSocketIO(frame[1:])
	}
	return Packet{}, fmt.Errorf("unknown engine.io packet %q", frame[0])
}

func decodeSocketIO(body []byte) (Packet, error) {
	if len(body) == 0 {
		return Packet{}, fmt.Errorf("socket.io packet: %w", errEmptyFrame)
	}
	kind, rest := body[0], body[1:]
	switch kind {
	case '0':
		return Packet{Type: PacketConnect, Data: json.RawMessage(rest)}, nil
	case '1':
		return Packet{Type: PacketDisconnect}, nil
	case '4':
		return Packet{Type: PacketConnectError, Data: json.RawMessage(rest)}, nil
	case '2':
		return decodeEventArgs(rest)
	}
	return Packet{}, fmt.Errorf("unsupported socket.io packet %q", kind)
}

func decodeEventArgs(body []byte) (Packet, error) {
	// Skip an optional ack id.
	i := 0
	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		i++
	}
	var args []json.RawMessage
	if err := json.Unmarshal(body[i:], &args); err != nil {
		return Packet{}, fmt.Errorf("decode event args: %w", err)
	}
	if len(args) == 0 {
		return Packet{}, errors.New("event without name")
	}
	var name string
	if err := json.Unmarshal(args[0], &name); err != nil {
		return Packet{}, fmt.Errorf("decode event name: %w", err)
	}
	pkt := Packet{Type: PacketEvent, Event: name}
	if len(args) > 1 {
		pkt.Data = args[1]
	}
	return pkt, nil
}

// EncodeEvent builds a "42[...]" event frame. A nil data emits the event
// without arguments.
func EncodeEvent(event string, data any) ([]byte, error) {
	args := []any{event}
	if data != nil {
		args = append(args, data)
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return append([]byte("42"), body...), nil
}
