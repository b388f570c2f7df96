package chat

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/bus"
	"github.com/matheus3301/mchat/internal/metrics"
	"github.com/matheus3301/mchat/internal/prefs"
	"github.com/matheus3301/mchat/internal/realtime"
	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/search"
	"github.com/matheus3301/mchat/internal/status"
	"github.com/matheus3301/mchat/internal/store"
	"github.com/matheus3301/mchat/internal/timefmt"
)

// RemoteTypingTimeout hides a remote typing indicator that was never
// explicitly cleared.
const RemoteTypingTimeout = 3 * time.Second

const notificationPrefix = "New message from "

// Options configures a System.
type Options struct {
	CurrentUserID int64

	// LocalTimezone overrides local zone detection when set.
	LocalTimezone       string
	RemoteTypingTimeout time.Duration

	// Session holds process-lifetime preferences; Durable survives restarts.
	Session prefs.Store
	Durable prefs.Store

	Now   func() time.Time
	NewID func() string
}

// MessageStatus is published on the bus whenever a tracked message changes.
type MessageStatus struct {
	Key    string
	Status status.Status
}

// System wires the chat components together and exposes the user actions.
type System struct {
	session *Session
	conv    *Conversations
	tz      *Timezones
	tracker *status.Tracker
	typing  Signaler
	view    View
	bus     *bus.Bus
	search  *search.Manager
	format  *timefmt.Formatter
	durable prefs.Store
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string

	typingTimeout time.Duration
	typingMu      sync.Mutex
	typingTimer   *time.Timer
	typingGen     uint64

	connectedOnce bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSystem builds the orchestrator.
func NewSystem(opts Options, backend Backend, typing Signaler, view View, b *bus.Bus, logger *zap.Logger) *System {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Session == nil {
		opts.Session = prefs.NewSession()
	}
	if opts.Durable == nil {
		opts.Durable = prefs.NewSession()
	}
	if opts.RemoteTypingTimeout <= 0 {
		opts.RemoteTypingTimeout = RemoteTypingTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}

	var detect func() string
	if opts.LocalTimezone != "" {
		tz := opts.LocalTimezone
		detect = func() string { return tz }
	}

	session := NewSession(opts.CurrentUserID)
	format := timefmt.New(time.Local)
	tracker := status.NewTracker(view)
	sm := search.NewManager()

	return &System{
		session:       session,
		conv:          NewConversations(backend, session, view, tracker, format, sm, logger),
		tz:            NewTimezones(backend, opts.Session, format, detect, logger),
		tracker:       tracker,
		typing:        typing,
		view:          view,
		bus:           b,
		search:        sm,
		format:        format,
		durable:       opts.Durable,
		logger:        logger,
		now:           opts.Now,
		newID:         opts.NewID,
		typingTimeout: opts.RemoteTypingTimeout,
	}
}

// Session exposes the shared session context.
func (s *System) Session() *Session { return s.session }

// Conversations exposes the conversation manager.
func (s *System) Conversations() *Conversations { return s.conv }

// Tracker exposes the status tracker.
func (s *System) Tracker() *status.Tracker { return s.tracker }

// Formatter exposes the time formatter in use.
func (s *System) Formatter() *timefmt.Formatter { return s.format }

// Init syncs the timezone and loads the initial state.
func (s *System) Init(ctx context.Context) {
	name := s.tz.Sync(ctx)
	s.view.SetTimezone(name)
	_ = s.conv.LoadConversations(ctx)
	_ = s.conv.LoadUsers(ctx)
	s.conv.RefreshUnread(ctx)
}

// Start consumes realtime events from the bus until Stop.
func (s *System) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	ch, unsub := s.bus.Subscribe(bus.NamespaceRealtime, 256)

	go func() {
		defer close(s.done)
		defer unsub()
		for {
			select {
			case evt := <-ch:
				s.HandleEvent(ctx, evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends event consumption and silences any typing signal.
func (s *System) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	s.typing.ForceStopTyping()
	s.hideRemoteTyping()
}

// OpenChat opens userID's conversation. Switching away from another
// conversation first stops any outbound typing and hides the remote
// indicator.
func (s *System) OpenChat(ctx context.Context, userID int64) {
	if userID <= 0 {
		return
	}
	prev := s.session.ActiveChat()
	if prev != 0 && prev != userID {
		s.typing.ForceStopTyping()
		s.hideRemoteTyping()
	}
	s.session.SetActiveChat(userID)
	s.view.SelectConversation(userID)
	s.view.ShowChatView()
	_ = s.conv.LoadChatMessages(ctx, userID)
	s.view.EnableInput()
}

// CloseChat closes the open conversation and returns to the welcome panel.
func (s *System) CloseChat() {
	prev := s.session.SetActiveChat(0)
	if prev == 0 {
		return
	}
	s.typing.StopTyping(prev)
	s.hideRemoteTyping()
	s.tracker.Reset()
	s.view.DisableInput()
	s.view.SelectConversation(0)
	s.view.ShowWelcome()
}

// SendMessage sends content to the open conversation with an optimistic
// bubble. Blank content or no open conversation is ignored. It reports
// whether a send was attempted.
func (s *System) SendMessage(ctx context.Context, content string) bool {
	content = strings.TrimSpace(content)
	to := s.session.ActiveChat()
	if content == "" || to == 0 {
		return false
	}

	s.view.DisableInput()
	s.typing.StopTyping(to)

	tempID := "temp_" + s.newID()
	me := s.session.UserID()
	tz := s.session.Timezone()
	optimistic := api.Message{
		TempID:      tempID,
		SenderID:    me,
		SenderName:  "You",
		RecipientID: to,
		Subject:     api.DefaultSubject,
		Content:     content,
		CreatedAt:   s.now().UTC().Format(time.RFC3339Nano),
	}
	s.tracker.Track(tempID, status.Sending)
	s.session.AppendThread(to, ThreadEntry{Message: optimistic, Timezone: tz})
	s.view.AppendMessage(render.MessageBubble(optimistic, status.Sending, me, tz, s.format))

	res := s.conv.send(ctx, api.SendRequest{
		RecipientID: to,
		Content:     content,
		Subject:     api.DefaultSubject,
		Priority:    api.PriorityNormal,
		MessageType: api.DefaultMessageType,
		TempID:      tempID,
	})
	stillOpen := s.session.ActiveChat() == to

	if res.Success {
		metrics.RecordSend(metrics.OutcomeSent)
		key := tempID
		if res.Message != nil && res.Message.ID > 0 {
			key = strconv.FormatInt(res.Message.ID, 10)
			confirmed := *res.Message
			if confirmed.CreatedAt == "" {
				confirmed.CreatedAt = optimistic.CreatedAt
			}
			s.session.ReplaceInThread(tempID, confirmed)
			st, _ := s.tracker.Reconcile(tempID, key, status.Sent)
			s.publishStatus(key, st)
		} else {
			st, _ := s.tracker.Update(tempID, status.Sent)
			s.publishStatus(key, st)
		}
		if stillOpen {
			s.view.ClearInput()
		}
	} else {
		metrics.RecordSend(metrics.OutcomeFailed)
		st, _ := s.tracker.Update(tempID, status.Failed)
		s.publishStatus(tempID, st)
	}

	if stillOpen {
		s.view.EnableInput()
	}
	if res.Success {
		_ = s.conv.LoadConversations(ctx)
	}
	return true
}

// Compose sends a message from the compose form and opens the recipient's
// conversation on success.
func (s *System) Compose(ctx context.Context, req ComposeRequest) SendResult {
	if err := req.Validate(); err != nil {
		return SendResult{RecipientID: req.RecipientID, Error: err.Error()}
	}
	res := s.conv.SendNewMessage(ctx, req.SendRequest())
	if res.Success {
		metrics.RecordSend(metrics.OutcomeSent)
		s.OpenChat(ctx, res.RecipientID)
	} else {
		metrics.RecordSend(metrics.OutcomeFailed)
	}
	return res
}

// InputChanged reacts to edits of the message input.
func (s *System) InputChanged(text string) {
	active := s.session.ActiveChat()
	hasText := strings.TrimSpace(text) != ""
	s.view.SetSendEnabled(hasText && active != 0)
	if active == 0 {
		return
	}
	if hasText {
		s.typing.StartTyping(active)
	} else {
		s.typing.StopTyping(active)
	}
}

// InputBlurred stops typing when focus leaves the input.
func (s *System) InputBlurred() {
	if active := s.session.ActiveChat(); active != 0 {
		s.typing.StopTyping(active)
	}
}

// Search filters the conversation list. An empty term shows every row.
func (s *System) Search(term string) {
	s.search.SetTerm(term)
	s.conv.RenderList()
}

// RefreshTimes re-renders every timestamp, e.g. after a zone change or as
// relative times age.
func (s *System) RefreshTimes() {
	s.conv.RenderList()
	s.conv.RenderThread()
}

// SidebarCollapsed reports the persisted sidebar state.
func (s *System) SidebarCollapsed() bool {
	return prefs.Bool(s.durable, store.PrefSidebarCollapsed, false)
}

// ToggleSidebar flips and persists the sidebar state, returning the new one.
func (s *System) ToggleSidebar() bool {
	collapsed := !s.SidebarCollapsed()
	if err := prefs.SetBool(s.durable, store.PrefSidebarCollapsed, collapsed); err != nil {
		s.logger.Warn("failed to persist sidebar state", zap.Error(err))
	}
	return collapsed
}

// HandleEvent applies one realtime event.
func (s *System) HandleEvent(ctx context.Context, evt bus.Event) {
	switch p := evt.Payload.(type) {
	case realtime.NewMessage:
		s.handleNewMessage(ctx, p)
	case realtime.UserTyping:
		s.handleTyping(p)
	case realtime.Delivered:
		s.applyReceipt(p.MessageID, status.Delivered)
	case realtime.ReadReceipt:
		s.applyReceipt(p.MessageID, status.Read)
	case realtime.UnreadCount:
		s.view.SetUnreadCount(p.Count)
	case realtime.StateChange:
		s.view.SetConnectionState(string(p.To))
	default:
		if evt.Kind == bus.KindConnect {
			s.handleConnect(ctx)
		}
	}
}

func (s *System) handleNewMessage(ctx context.Context, p realtime.NewMessage) {
	from := p.Message.SenderID
	if from != 0 && from == s.session.ActiveChat() {
		msg := p.Message
		if name := strings.TrimPrefix(p.Notification.Title, notificationPrefix); name != "" && name != p.Notification.Title {
			msg.SenderName = name
		}
		tz := s.session.Timezone()
		if s.session.AppendThread(from, ThreadEntry{Message: msg, Timezone: tz}) {
			s.view.AppendMessage(render.MessageBubble(msg, status.Received, s.session.UserID(), tz, s.format))
		}
		s.hideRemoteTyping()
		s.conv.MarkConversationRead(ctx, from)
	} else {
		s.view.PlayNotification()
		s.view.ShowToast(Toast{
			Title:    p.Notification.Title,
			Body:     p.Notification.Body,
			SenderID: from,
		})
	}
	_ = s.conv.LoadConversations(ctx)
	s.conv.RefreshUnread(ctx)
}

func (s *System) handleTyping(p realtime.UserTyping) {
	if p.UserID == 0 || p.UserID != s.session.ActiveChat() {
		return
	}
	if !p.Typing {
		s.hideRemoteTyping()
		return
	}
	s.typingMu.Lock()
	s.typingGen++
	gen := s.typingGen
	if s.typingTimer != nil {
		s.typingTimer.Stop()
	}
	s.typingTimer = time.AfterFunc(s.typingTimeout, func() {
		s.typingMu.Lock()
		stale := gen != s.typingGen
		s.typingMu.Unlock()
		if !stale {
			s.view.HideTyping()
		}
	})
	s.typingMu.Unlock()
	s.view.ShowTyping(p.UserName)
}

func (s *System) hideRemoteTyping() {
	s.typingMu.Lock()
	s.typingGen++
	if s.typingTimer != nil {
		s.typingTimer.Stop()
		s.typingTimer = nil
	}
	s.typingMu.Unlock()
	s.view.HideTyping()
}

func (s *System) applyReceipt(messageID int64, st status.Status) {
	if messageID <= 0 {
		return
	}
	key := strconv.FormatInt(messageID, 10)
	if merged, changed := s.tracker.Update(key, st); changed {
		s.publishStatus(key, merged)
	}
}

// handleConnect reloads state after a reconnect so pushes missed while
// offline are picked up.
func (s *System) handleConnect(ctx context.Context) {
	if !s.connectedOnce {
		s.connectedOnce = true
		return
	}
	_ = s.conv.LoadConversations(ctx)
	s.conv.RefreshUnread(ctx)
}

func (s *System) publishStatus(key string, st status.Status) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.NewEvent(bus.KindMessageStatus, MessageStatus{Key: key, Status: st}))
}
