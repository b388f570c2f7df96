package chat

import (
	"context"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/realtime"
	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/status"
)

// Toast is a transient notice about a message from another conversation.
type Toast struct {
	Title    string
	Body     string
	SenderID int64
}

// View is the set of commands the chat logic issues to the interface.
// Implementations must be safe to call from any goroutine.
type View interface {
	status.Indicator

	RenderConversations(rows []render.ConversationRow)
	HideLoading()
	ShowEmptyState()
	ShowChatItems()
	SelectConversation(userID int64)

	ShowChatView()
	ShowWelcome()
	RenderHeader(h render.Header)
	RenderMessages(bubbles []render.Bubble)
	AppendMessage(b render.Bubble)

	EnableInput()
	DisableInput()
	ClearInput()
	SetSendEnabled(enabled bool)

	ShowTyping(userName string)
	HideTyping()
	ShowToast(t Toast)
	PlayNotification()

	SetUnreadCount(n int)
	SetRecipients(options []Recipient)
	SetConnectionState(state string)
	SetTimezone(name string)
}

// Backend is the HTTP surface the chat logic depends on.
type Backend interface {
	Conversations(ctx context.Context) (*api.ConversationsResponse, error)
	Users(ctx context.Context) (*api.UsersResponse, error)
	Conversation(ctx context.Context, userID int64) (*api.ConversationResponse, error)
	Send(ctx context.Context, req api.SendRequest) (*api.SendResponse, error)
	MarkConversationRead(ctx context.Context, userID int64) error
	UnreadCount(ctx context.Context) (int, error)
	SetTimezone(ctx context.Context, tz string) error
}

// Signaler emits outbound typing signals.
type Signaler interface {
	StartTyping(recipient int64)
	StopTyping(recipient int64)
	ForceStopTyping() bool
}

var (
	_ Backend  = (*api.Client)(nil)
	_ Signaler = (*realtime.Typing)(nil)
)
