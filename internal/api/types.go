package api

import "strings"

// User is a messaging participant as returned by the backend.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// FullName returns "First Last".
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Message is a single internal message.
type Message struct {
	ID           int64   `json:"id,omitempty"`
	TempID       string  `json:"temp_id,omitempty"`
	SenderID     int64   `json:"sender_id"`
	SenderName   string  `json:"sender_name,omitempty"`
	SenderRole   string  `json:"sender_role,omitempty"`
	RecipientID  int64   `json:"recipient_id,omitempty"`
	Subject      string  `json:"subject,omitempty"`
	Content      string  `json:"content"`
	MessageType  string  `json:"message_type,omitempty"`
	Priority     string  `json:"priority,omitempty"`
	IsRead       bool    `json:"is_read"`
	CreatedAt    string  `json:"created_at"`
	ReadAt       *string `json:"read_at,omitempty"`
}

// Conversation summarises the thread with one other user.
type Conversation struct {
	OtherUser   User     `json:"other_user"`
	LastMessage *Message `json:"last_message"`
	UnreadCount int      `json:"unread_count"`
}

// ConversationsResponse is returned by GET /messages/api/conversations.
type ConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	Timezone      string         `json:"timezone,omitempty"`
}

// UsersResponse is returned by GET /messages/api/users.
type UsersResponse struct {
	Users []User `json:"users"`
}

// ConversationResponse is returned by GET /messages/api/conversation/:userId.
type ConversationResponse struct {
	OtherUser User      `json:"other_user"`
	Messages  []Message `json:"messages"`
	Timezone  string    `json:"timezone,omitempty"`
}

// Message priorities accepted by the backend.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Priorities lists the priorities in display order.
var Priorities = []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// Defaults used for chat-style sends.
const (
	DefaultSubject     = "Chat Message"
	DefaultMessageType = "general"
)

// SendRequest is the body of POST /messages/api/send.
type SendRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Content     string `json:"content"`
	Subject     string `json:"subject"`
	Priority    string `json:"priority"`
	MessageType string `json:"message_type"`
	TempID      string `json:"temp_id,omitempty"`
}

// SendResponse is returned by POST /messages/api/send.
type SendResponse struct {
	Success  bool     `json:"success"`
	Message  *Message `json:"message,omitempty"`
	Error    string   `json:"error,omitempty"`
	Timezone string   `json:"timezone,omitempty"`
}

// UnreadCountResponse is returned by GET /messages/api/unread_count.
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// SetTimezoneRequest is the body of POST /api/set_timezone.
type SetTimezoneRequest struct {
	Timezone string `json:"timezone"`
}

// SetTimezoneResponse is returned by POST /api/set_timezone.
type SetTimezoneResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}
