package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/status"
	"github.com/matheus3301/mchat/internal/timefmt"
)

var now = time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

func formatter() *timefmt.Formatter {
	return timefmt.New(time.UTC).WithClock(func() time.Time { return now })
}

func TestConversationRow(t *testing.T) {
	c := api.Conversation{
		OtherUser: api.User{ID: 3, FirstName: "ana", LastName: "Silva", Role: "doctor"},
		LastMessage: &api.Message{
			Content:   strings.Repeat("a", 45),
			CreatedAt: now.Add(-30 * time.Minute).Format(time.RFC3339),
		},
		UnreadCount: 2,
	}

	row := Conversation(c, 3, formatter())
	assert.Equal(t, "AS", row.Initials)
	assert.Equal(t, "ana Silva", row.Name)
	assert.Equal(t, strings.Repeat("a", 40)+"...", row.Preview)
	assert.Equal(t, "2:30 PM", row.Time)
	assert.Equal(t, "October 19, 2026 at 2:30 PM", row.FullTime)
	assert.Equal(t, 2, row.Unread)
	assert.True(t, row.Selected)
	assert.Contains(t, row.SearchText(), "ana Silva")
}

func TestConversationRowWithoutMessages(t *testing.T) {
	row := Conversation(api.Conversation{OtherUser: api.User{ID: 4, FirstName: "Bo", LastName: "Li"}}, 3, formatter())
	assert.Equal(t, NoMessages, row.Preview)
	assert.Empty(t, row.Time)
	assert.False(t, row.Selected)
}

func TestPreviewCountsRunes(t *testing.T) {
	s := strings.Repeat("é", 40)
	assert.Equal(t, s, Preview(s))
	assert.Equal(t, s+"...", Preview(s+"x"))
}

func TestHeaderAndRecipientLabel(t *testing.T) {
	u := api.User{ID: 1, FirstName: "Carla", LastName: "Lima", Role: "receptionist"}
	h := ChatHeader(u)
	assert.Equal(t, "CL", h.Initials)
	assert.Equal(t, "Receptionist", h.Role)
	assert.Equal(t, "Carla Lima - Receptionist", RecipientLabel(u))
}

func TestInitialsFallback(t *testing.T) {
	assert.Equal(t, "?", Initials(api.User{}))
	assert.Equal(t, "B", Initials(api.User{FirstName: "bo"}))
}

func TestUnreadBadge(t *testing.T) {
	assert.Equal(t, "", UnreadBadge(0))
	assert.Equal(t, "7", UnreadBadge(7))
	assert.Equal(t, "99", UnreadBadge(99))
	assert.Equal(t, "99+", UnreadBadge(100))
}

func TestMessageBubble(t *testing.T) {
	created := now.Add(-2 * time.Hour).Format(time.RFC3339)
	own := api.Message{ID: 10, SenderID: 1, SenderName: "Me", Content: "hi", CreatedAt: created}
	other := api.Message{ID: 11, SenderID: 2, SenderName: "Ana Silva", Content: "hey", CreatedAt: created}

	b := MessageBubble(own, status.Delivered, 1, "UTC", formatter())
	assert.Equal(t, "10", b.Key)
	assert.True(t, b.Own)
	assert.Empty(t, b.Sender)
	assert.True(t, b.HasIcon)
	assert.Equal(t, "Delivered", b.Icon.Title)
	assert.Equal(t, "1:00 PM", b.Time)
	assert.Equal(t, "October 19, 2026 at 1:00 PM (2 hours ago)", b.Tooltip)

	b = MessageBubble(other, status.Received, 1, "", formatter())
	assert.False(t, b.Own)
	assert.Equal(t, "Ana Silva", b.Sender)
	assert.False(t, b.HasIcon)
}

func TestMessageKeyPrefersServerID(t *testing.T) {
	assert.Equal(t, "temp_x", MessageKey(api.Message{TempID: "temp_x"}))
	assert.Equal(t, "5", MessageKey(api.Message{ID: 5, TempID: "temp_x"}))
}

func TestIconUnknownRendersAsSent(t *testing.T) {
	assert.Equal(t, Icon(status.Sent), Icon(status.Unknown))
	assert.Equal(t, "Failed to send", Icon(status.Failed).Title)
}
