package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/bus"
)

// Events consumed from the server.
const (
	EventNewMessage       = "new_message"
	EventUserTyping       = "user_typing"
	EventMessageDelivered = "message_delivered"
	EventMessageRead      = "message_read"
	EventUnreadCount      = "unread_count_update"
)

// Events emitted to the server.
const (
	EventJoinUserRoom       = "join_user_room"
	EventRequestUnreadCount = "request_unread_count"
	EventTypingStart        = "typing_start"
	EventTypingStop         = "typing_stop"
)

// Notification accompanies a pushed message.
type Notification struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Priority  string `json:"priority"`
	Timestamp string `json:"timestamp"`
}

// NewMessage is the new_message payload.
type NewMessage struct {
	Message      api.Message  `json:"message"`
	Notification Notification `json:"notification"`
}

// UserTyping is the user_typing payload.
type UserTyping struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	Typing   bool   `json:"typing"`
}

// Delivered is the message_delivered payload.
type Delivered struct {
	MessageID   int64  `json:"message_id"`
	DeliveredAt string `json:"delivered_at"`
	Timezone    string `json:"timezone"`
}

// ReadReceipt is the message_read payload.
type ReadReceipt struct {
	MessageID  int64  `json:"message_id"`
	ReadAt     string `json:"read_at"`
	ReaderID   int64  `json:"reader_id"`
	ReaderName string `json:"reader_name"`
	Timezone   string `json:"timezone"`
}

// UnreadCount is the unread_count_update payload.
type UnreadCount struct {
	Count int `json:"count"`
}

type typingPayload struct {
	RecipientID int64 `json:"recipient_id"`
}

// decodeEvent maps a server event to its bus kind and typed payload.
// Unknown events report ok=false.
func decodeEvent(name string, data json.RawMessage) (kind string, payload any, ok bool, err error) {
	switch name {
	case EventNewMessage:
		var p NewMessage
		err = unmarshal(data, &p)
		return bus.KindNewMessage, p, true, err
	case EventUserTyping:
		var p UserTyping
		err = unmarshal(data, &p)
		return bus.KindUserTyping, p, true, err
	case EventMessageDelivered:
		var p Delivered
		err = unmarshal(data, &p)
		return bus.KindMessageDelivered, p, true, err
	case EventMessageRead:
		var p ReadReceipt
		err = unmarshal(data, &p)
		return bus.KindMessageRead, p, true, err
	case EventUnreadCount:
		var p UnreadCount
		err = unmarshal(data, &p)
		return bus.KindUnreadCount, p, true, err
	}
	return "", nil, false, nil
}

func unmarshal(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
