// Package api is the HTTP client for the clinic messaging backend.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/matheus3301/mchat/internal/metrics"
)

// Endpoint paths. Path parameters use resty's {name} syntax.
const (
	PathConversations = "/messages/api/conversations"
	PathUsers         = "/messages/api/users"
	PathConversation  = "/messages/api/conversation/{userId}"
	PathSend          = "/messages/api/send"
	PathMarkRead      = "/messages/api/mark_conversation_read/{userId}"
	PathUnreadCount   = "/messages/api/unread_count"
	PathSetTimezone   = "/api/set_timezone"
)

// Options configures a Client.
type Options struct {
	BaseURL       string
	SessionCookie string
	Timeout       time.Duration
}

// Client talks to the backend REST API.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// New creates a Client. The session cookie may be given either as
// "name=value" or as a bare value for the default "session" cookie.
func New(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "mchat/1.0")
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	if cookie := CookieHeader(opts.SessionCookie); cookie != "" {
		c.SetHeader("Cookie", cookie)
	}
	return &Client{http: c, logger: logger}
}

// CookieHeader normalises a configured session cookie into a Cookie header value.
func CookieHeader(cookie string) string {
	cookie = strings.TrimSpace(cookie)
	if cookie == "" || strings.Contains(cookie, "=") {
		return cookie
	}
	return "session=" + cookie
}

// Conversations lists the current user's conversations.
func (c *Client) Conversations(ctx context.Context) (*ConversationsResponse, error) {
	var out ConversationsResponse
	if err := c.do(ctx, http.MethodGet, PathConversations, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists the users the current user may message.
func (c *Client) Users(ctx context.Context) (*UsersResponse, error) {
	var out UsersResponse
	if err := c.do(ctx, http.MethodGet, PathUsers, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Conversation fetches the full thread with userID.
func (c *Client) Conversation(ctx context.Context, userID int64) (*ConversationResponse, error) {
	var out ConversationResponse
	if err := c.do(ctx, http.MethodGet, PathConversation, userParam(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Send posts a message. A backend rejection is returned as *ServerError.
func (c *Client) Send(ctx context.Context, req SendRequest) (*SendResponse, error) {
	var out SendResponse
	if err := c.do(ctx, http.MethodPost, PathSend, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkConversationRead marks every message from userID as read.
func (c *Client) MarkConversationRead(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodPost, PathMarkRead, userParam(userID), nil, nil)
}

// UnreadCount returns the current user's unread message count.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out UnreadCountResponse
	if err := c.do(ctx, http.MethodGet, PathUnreadCount, nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// SetTimezone stores tz as the user's preferred zone on the backend.
func (c *Client) SetTimezone(ctx context.Context, tz string) error {
	var out SetTimezoneResponse
	if err := c.do(ctx, http.MethodPost, PathSetTimezone, nil, SetTimezoneRequest{Timezone: tz}, &out); err != nil {
		return err
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "timezone rejected"
		}
		return &ServerError{Status: http.StatusOK, Message: msg}
	}
	return nil
}

func userParam(id int64) map[string]string {
	return map[string]string{"userId": strconv.FormatInt(id, 10)}
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body, result any) error {
	var apiErr errorBody
	req := c.http.R().SetContext(ctx).SetError(&apiErr)
	if params != nil {
		req.SetPathParams(params)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		metrics.RecordRequest(method, path, 0, time.Since(start))
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	metrics.RecordRequest(method, path, resp.StatusCode(), resp.Time())

	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.Status()
		}
		c.logger.Warn("backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
			zap.String("error", msg),
		)
		return &ServerError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}
