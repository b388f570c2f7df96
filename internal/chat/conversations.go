package chat

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/search"
	"github.com/matheus3301/mchat/internal/status"
	"github.com/matheus3301/mchat/internal/timefmt"
)

// SendResult is the outcome of a send. Failures are reported here rather
// than as errors.
type SendResult struct {
	Success     bool
	RecipientID int64
	Message     *api.Message
	Error       string
}

// Conversations fetches and sends data over HTTP and owns the in-memory
// conversation and user lists.
type Conversations struct {
	backend Backend
	session *Session
	view    View
	tracker *status.Tracker
	format  *timefmt.Formatter
	search  *search.Manager
	logger  *zap.Logger
	loadSeq atomic.Uint64
}

// NewConversations wires a conversation manager.
func NewConversations(backend Backend, session *Session, view View, tracker *status.Tracker,
	format *timefmt.Formatter, sm *search.Manager, logger *zap.Logger) *Conversations {
	return &Conversations{
		backend: backend,
		session: session,
		view:    view,
		tracker: tracker,
		format:  format,
		search:  sm,
		logger:  logger,
	}
}

// LoadConversations replaces the list with a fresh one from the backend.
// A failure empties the list. Responses overtaken by a newer load are
// dropped.
func (c *Conversations) LoadConversations(ctx context.Context) error {
	seq := c.loadSeq.Add(1)
	resp, err := c.backend.Conversations(ctx)
	if err != nil {
		c.logger.Error("failed to load conversations", zap.Error(err))
		if c.session.ApplyConversations(seq, nil) {
			c.view.RenderConversations(nil)
			c.view.HideLoading()
			c.view.ShowEmptyState()
		}
		return err
	}
	if !c.session.ApplyConversations(seq, resp.Conversations) {
		c.logger.Debug("dropping stale conversation list", zap.Uint64("seq", seq))
		return nil
	}
	if resp.Timezone != "" {
		c.adoptTimezone(resp.Timezone)
	}

	c.RenderList()
	c.view.HideLoading()
	if len(resp.Conversations) == 0 {
		c.view.ShowEmptyState()
	} else {
		c.view.ShowChatItems()
	}
	return nil
}

// RenderList repaints the list from session state, applying the active
// search term.
func (c *Conversations) RenderList() {
	rows := render.Conversations(c.session.Conversations(), c.session.ActiveChat(), c.format)
	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.SearchText()
	}
	visible := c.search.Visible(texts)
	filtered := make([]render.ConversationRow, 0, len(visible))
	for _, i := range visible {
		filtered = append(filtered, rows[i])
	}
	c.view.RenderConversations(filtered)
}

// LoadUsers fills the compose recipients.
func (c *Conversations) LoadUsers(ctx context.Context) error {
	resp, err := c.backend.Users(ctx)
	if err != nil {
		c.logger.Error("failed to load users", zap.Error(err))
		return err
	}
	c.session.SetUsers(resp.Users)
	c.view.SetRecipients(Recipients(resp.Users))
	return nil
}

// LoadChatMessages loads userID's thread, re-seeds status tracking and
// marks the conversation read. The result is dropped if another
// conversation was opened meanwhile.
func (c *Conversations) LoadChatMessages(ctx context.Context, userID int64) error {
	resp, err := c.backend.Conversation(ctx, userID)
	if err != nil {
		c.logger.Error("failed to load messages", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	if c.session.ActiveChat() != userID {
		c.logger.Debug("dropping thread for closed conversation", zap.Int64("user_id", userID))
		return nil
	}
	if resp.Timezone != "" {
		c.adoptTimezone(resp.Timezone)
	}

	entries := make([]ThreadEntry, len(resp.Messages))
	for i, m := range resp.Messages {
		entries[i] = ThreadEntry{Message: m, Timezone: resp.Timezone}
	}
	if !c.session.SetThread(userID, resp.OtherUser, entries) {
		return nil
	}

	me := c.session.UserID()
	c.tracker.Reset()
	bubbles := make([]render.Bubble, len(entries))
	for i, e := range entries {
		st := status.ForMessage(e.Message.SenderID, me, e.Message.IsRead)
		if st.Outbound() {
			c.tracker.Track(render.MessageKey(e.Message), st)
			st = c.tracker.Status(render.MessageKey(e.Message))
		}
		bubbles[i] = render.MessageBubble(e.Message, st, me, e.Timezone, c.format)
	}
	c.view.RenderHeader(render.ChatHeader(resp.OtherUser))
	c.view.RenderMessages(bubbles)

	c.MarkConversationRead(ctx, userID)
	return nil
}

// RenderThread repaints the open thread from session state.
func (c *Conversations) RenderThread() {
	other, entries := c.session.Thread()
	if c.session.ActiveChat() == 0 || other.ID == 0 {
		return
	}
	me := c.session.UserID()
	bubbles := make([]render.Bubble, len(entries))
	for i, e := range entries {
		bubbles[i] = render.MessageBubble(e.Message, c.statusOf(e.Message), me, e.Timezone, c.format)
	}
	c.view.RenderHeader(render.ChatHeader(other))
	c.view.RenderMessages(bubbles)
}

func (c *Conversations) statusOf(m api.Message) status.Status {
	if m.SenderID != c.session.UserID() {
		return status.Received
	}
	return c.tracker.Status(render.MessageKey(m))
}

// MarkConversationRead marks userID's messages read and refreshes the badge.
func (c *Conversations) MarkConversationRead(ctx context.Context, userID int64) {
	if err := c.backend.MarkConversationRead(ctx, userID); err != nil {
		c.logger.Warn("failed to mark conversation read", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	c.RefreshUnread(ctx)
}

// RefreshUnread updates the unread badge. Failures leave it unchanged.
func (c *Conversations) RefreshUnread(ctx context.Context) {
	n, err := c.backend.UnreadCount(ctx)
	if err != nil {
		c.logger.Warn("failed to fetch unread count", zap.Error(err))
		return
	}
	c.view.SetUnreadCount(n)
}

// SendNewMessage posts req and refreshes the list on success.
func (c *Conversations) SendNewMessage(ctx context.Context, req api.SendRequest) SendResult {
	res := c.send(ctx, req)
	if res.Success {
		_ = c.LoadConversations(ctx)
	}
	return res
}

func (c *Conversations) send(ctx context.Context, req api.SendRequest) SendResult {
	resp, err := c.backend.Send(ctx, req)
	if err != nil {
		c.logger.Error("failed to send message", zap.Int64("recipient_id", req.RecipientID), zap.Error(err))
		return SendResult{RecipientID: req.RecipientID, Error: err.Error()}
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "message was not accepted"
		}
		c.logger.Error("backend refused message", zap.Int64("recipient_id", req.RecipientID), zap.String("error", msg))
		return SendResult{RecipientID: req.RecipientID, Error: msg}
	}
	if resp.Timezone != "" {
		c.adoptTimezone(resp.Timezone)
	}
	return SendResult{Success: true, RecipientID: req.RecipientID, Message: resp.Message}
}

// adoptTimezone switches rendering to the zone the backend reports.
func (c *Conversations) adoptTimezone(name string) {
	if name == c.session.Timezone() {
		return
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		c.logger.Warn("ignoring unknown timezone", zap.String("timezone", name), zap.Error(err))
		return
	}
	c.session.SetTimezone(name)
	c.format.SetLocation(loc)
	c.view.SetTimezone(name)
}
