package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/status"
)

// callLog is shared by the fakes so tests can assert cross-component order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.mu.Lock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *callLog) count(prefix string) int {
	n := 0
	for _, c := range l.all() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

type fakeBackend struct {
	log *callLog

	mu            sync.Mutex
	conversations []api.Conversation
	convErr       error
	convTimezone  string
	threads       map[int64]*api.ConversationResponse
	users         []api.User
	sendResp      *api.SendResponse
	sendErr       error
	sent          []api.SendRequest
	unread        int
	timezones     []string
	// beforeSend runs inside Send, before it returns.
	beforeSend func()
	// onConversation runs inside Conversation, before it returns.
	onConversation func(userID int64)
}

func newFakeBackend(log *callLog) *fakeBackend {
	return &fakeBackend{log: log, threads: make(map[int64]*api.ConversationResponse)}
}

func (f *fakeBackend) Conversations(ctx context.Context) (*api.ConversationsResponse, error) {
	f.log.add("http:conversations")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.convErr != nil {
		return nil, f.convErr
	}
	return &api.ConversationsResponse{Conversations: f.conversations, Timezone: f.convTimezone}, nil
}

func (f *fakeBackend) Users(ctx context.Context) (*api.UsersResponse, error) {
	f.log.add("http:users")
	f.mu.Lock()
	defer f.mu.Unlock()
	return &api.UsersResponse{Users: f.users}, nil
}

func (f *fakeBackend) Conversation(ctx context.Context, userID int64) (*api.ConversationResponse, error) {
	f.log.add("http:conversation:%d", userID)
	if f.onConversation != nil {
		f.onConversation(userID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.threads[userID]; ok {
		return t, nil
	}
	return &api.ConversationResponse{OtherUser: api.User{ID: userID, FirstName: "User", LastName: fmt.Sprint(userID), Role: "doctor"}}, nil
}

func (f *fakeBackend) Send(ctx context.Context, req api.SendRequest) (*api.SendResponse, error) {
	f.log.add("http:send:%d", req.RecipientID)
	if f.beforeSend != nil {
		f.beforeSend()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, req)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if f.sendResp != nil {
		return f.sendResp, nil
	}
	return &api.SendResponse{Success: true, Message: &api.Message{ID: 100, SenderID: 1, RecipientID: req.RecipientID, Content: req.Content}}, nil
}

func (f *fakeBackend) MarkConversationRead(ctx context.Context, userID int64) error {
	f.log.add("http:mark_read:%d", userID)
	return nil
}

func (f *fakeBackend) UnreadCount(ctx context.Context) (int, error) {
	f.log.add("http:unread")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread, nil
}

func (f *fakeBackend) SetTimezone(ctx context.Context, tz string) error {
	f.log.add("http:set_timezone:%s", tz)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timezones = append(f.timezones, tz)
	return nil
}

type fakeSignaler struct {
	log    *callLog
	mu     sync.Mutex
	active int64
}

func (f *fakeSignaler) StartTyping(r int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active != r {
		f.active = r
		f.log.add("typing:start:%d", r)
	}
}

func (f *fakeSignaler) StopTyping(r int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == r && r != 0 {
		f.active = 0
		f.log.add("typing:stop:%d", r)
	}
}

func (f *fakeSignaler) ForceStopTyping() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == 0 {
		return false
	}
	f.log.add("typing:stop:%d", f.active)
	f.active = 0
	return true
}

type fakeView struct {
	log *callLog

	mu          sync.Mutex
	rows        []render.ConversationRow
	bubbles     []render.Bubble
	statuses    map[string]status.Status
	toasts      []Toast
	unread      int
	recipients  []Recipient
	typingShown bool
	inputOn     bool
	sendOn      bool
	connection  string
	timezone    string
	header      render.Header
}

func newFakeView(log *callLog) *fakeView {
	return &fakeView{log: log, statuses: make(map[string]status.Status)}
}

func (v *fakeView) PatchStatus(key string, s status.Status) {
	v.log.add("view:patch:%s=%s", key, s)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses[key] = s
}

func (v *fakeView) Rekey(oldKey, newKey string) {
	v.log.add("view:rekey:%s->%s", oldKey, newKey)
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.bubbles {
		if v.bubbles[i].Key == oldKey {
			v.bubbles[i].Key = newKey
		}
	}
	v.statuses[newKey] = v.statuses[oldKey]
	delete(v.statuses, oldKey)
}

func (v *fakeView) RenderConversations(rows []render.ConversationRow) {
	v.log.add("view:conversations:%d", len(rows))
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rows = rows
}

func (v *fakeView) HideLoading()    { v.log.add("view:hide_loading") }
func (v *fakeView) ShowEmptyState() { v.log.add("view:empty") }
func (v *fakeView) ShowChatItems()  { v.log.add("view:items") }

func (v *fakeView) SelectConversation(userID int64) { v.log.add("view:select:%d", userID) }
func (v *fakeView) ShowChatView()                   { v.log.add("view:chat") }
func (v *fakeView) ShowWelcome()                    { v.log.add("view:welcome") }

func (v *fakeView) RenderHeader(h render.Header) {
	v.log.add("view:header:%d", h.UserID)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.header = h
}

func (v *fakeView) RenderMessages(bubbles []render.Bubble) {
	v.log.add("view:messages:%d", len(bubbles))
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bubbles = append([]render.Bubble(nil), bubbles...)
	clear(v.statuses)
	for _, b := range bubbles {
		v.statuses[b.Key] = b.Status
	}
}

func (v *fakeView) AppendMessage(b render.Bubble) {
	v.log.add("view:append:%s", b.Key)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bubbles = append(v.bubbles, b)
	v.statuses[b.Key] = b.Status
}

func (v *fakeView) EnableInput() {
	v.log.add("view:input_on")
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputOn = true
}

func (v *fakeView) DisableInput() {
	v.log.add("view:input_off")
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputOn = false
}

func (v *fakeView) ClearInput() { v.log.add("view:clear_input") }

func (v *fakeView) SetSendEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sendOn = enabled
}

func (v *fakeView) ShowTyping(userName string) {
	v.log.add("view:typing:%s", userName)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.typingShown = true
}

func (v *fakeView) HideTyping() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.typingShown = false
}

func (v *fakeView) ShowToast(t Toast) {
	v.log.add("view:toast:%d", t.SenderID)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.toasts = append(v.toasts, t)
}

func (v *fakeView) PlayNotification() { v.log.add("view:bell") }

func (v *fakeView) SetUnreadCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.unread = n
}

func (v *fakeView) SetRecipients(options []Recipient) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recipients = options
}

func (v *fakeView) SetConnectionState(state string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.connection = state
}

func (v *fakeView) SetTimezone(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.timezone = name
}

func (v *fakeView) statusOf(key string) status.Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.statuses[key]
}

func (v *fakeView) snapshotBubbles() []render.Bubble {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]render.Bubble(nil), v.bubbles...)
}

func (v *fakeView) isTypingShown() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.typingShown
}
