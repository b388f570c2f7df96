package bus

import "time"

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Namespaces.
const (
	NamespaceRealtime = "rt."
	NamespaceChat     = "chat."
)

// Realtime event kinds, one per consumed socket event plus connection state.
const (
	KindConnect          = "rt.connect"
	KindDisconnect       = "rt.disconnect"
	KindNewMessage       = "rt.new_message"
	KindUserTyping       = "rt.user_typing"
	KindMessageDelivered = "rt.message_delivered"
	KindMessageRead      = "rt.message_read"
	KindUnreadCount      = "rt.unread_count_update"
	KindStateChanged     = "rt.state_changed"
)

// Chat event kinds published by the orchestrator for headless consumers.
const (
	KindMessageStatus = "chat.message_status"
)

// NewEvent stamps an event with the current time.
func NewEvent(kind string, payload any) Event {
	return Event{Kind: kind, Timestamp: time.Now(), Payload: payload}
}
