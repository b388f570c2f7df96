package chat

import (
	"errors"
	"strings"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/render"
)

// Recipient is one option of the compose form.
type Recipient struct {
	UserID int64
	Label  string
}

// Recipients builds the compose options in backend order.
func Recipients(users []api.User) []Recipient {
	out := make([]Recipient, len(users))
	for i, u := range users {
		out[i] = Recipient{UserID: u.ID, Label: render.RecipientLabel(u)}
	}
	return out
}

// ComposeRequest is what the compose form submits.
type ComposeRequest struct {
	RecipientID int64
	Subject     string
	Content     string
	Priority    string
}

// Compose validation errors.
var (
	ErrNoRecipient = errors.New("select a recipient")
	ErrNoContent   = errors.New("message is empty")
)

// Validate checks the fields the backend requires.
func (r ComposeRequest) Validate() error {
	if r.RecipientID <= 0 {
		return ErrNoRecipient
	}
	if strings.TrimSpace(r.Content) == "" {
		return ErrNoContent
	}
	return nil
}

// SendRequest converts the form into the backend's send body, filling in
// the chat defaults for blank fields.
func (r ComposeRequest) SendRequest() api.SendRequest {
	req := api.SendRequest{
		RecipientID: r.RecipientID,
		Content:     strings.TrimSpace(r.Content),
		Subject:     strings.TrimSpace(r.Subject),
		Priority:    r.Priority,
		MessageType: api.DefaultMessageType,
	}
	if req.Subject == "" {
		req.Subject = api.DefaultSubject
	}
	if req.Priority == "" {
		req.Priority = api.PriorityNormal
	}
	return req
}
