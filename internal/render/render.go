// Package render turns backend data into display-ready rows, headers and
// message bubbles. It has no widget state; the terminal UI paints its output.
package render

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/timefmt"
)

// PreviewLimit is the number of runes of the last message shown in the list.
const PreviewLimit = 40

// NoMessages is the preview shown for a conversation without messages.
const NoMessages = "No messages yet"

// ConversationRow is one entry of the conversation list.
type ConversationRow struct {
	UserID   int64
	Initials string
	Name     string
	Preview  string
	Time     string
	FullTime string
	Unread   int
	Selected bool
}

// SearchText is the row's visible text, used for filtering.
func (r ConversationRow) SearchText() string {
	parts := []string{r.Initials, r.Name, r.Time, r.Preview}
	if r.Unread > 0 {
		parts = append(parts, strconv.Itoa(r.Unread))
	}
	return strings.Join(parts, " ")
}

// Conversation builds the list row for c. activeID marks the open conversation.
func Conversation(c api.Conversation, activeID int64, f *timefmt.Formatter) ConversationRow {
	row := ConversationRow{
		UserID:   c.OtherUser.ID,
		Initials: Initials(c.OtherUser),
		Name:     c.OtherUser.FullName(),
		Preview:  NoMessages,
		Unread:   c.UnreadCount,
		Selected: activeID != 0 && activeID == c.OtherUser.ID,
	}
	if m := c.LastMessage; m != nil {
		row.Preview = Preview(m.Content)
		if ts, err := timefmt.Parse(m.CreatedAt); err == nil {
			row.Time = f.FormatTime(ts)
			row.FullTime = f.FullDateTime(ts)
		}
	}
	return row
}

// Conversations builds every list row in order.
func Conversations(list []api.Conversation, activeID int64, f *timefmt.Formatter) []ConversationRow {
	rows := make([]ConversationRow, len(list))
	for i, c := range list {
		rows[i] = Conversation(c, activeID, f)
	}
	return rows
}

// Header is the open conversation's title block.
type Header struct {
	UserID   int64
	Initials string
	Name     string
	Role     string
}

// ChatHeader builds the header for u.
func ChatHeader(u api.User) Header {
	return Header{
		UserID:   u.ID,
		Initials: Initials(u),
		Name:     u.FullName(),
		Role:     Capitalize(u.Role),
	}
}

// RecipientLabel is the compose form's option text: "First Last - Role".
func RecipientLabel(u api.User) string {
	return u.FullName() + " - " + Capitalize(u.Role)
}

// Initials returns the upper-cased first letters of first and last name.
func Initials(u api.User) string {
	var b strings.Builder
	for _, name := range []string{u.FirstName, u.LastName} {
		if r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name)); r != utf8.RuneError {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Preview truncates content to PreviewLimit runes, marking the cut with "...".
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= PreviewLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:PreviewLimit]) + "..."
}

// UnreadBadge is the total unread indicator: empty at zero, capped at 99+.
func UnreadBadge(n int) string {
	switch {
	case n <= 0:
		return ""
	case n > 99:
		return "99+"
	}
	return strconv.Itoa(n)
}
