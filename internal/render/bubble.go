package render

import (
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/status"
	"github.com/matheus3301/mchat/internal/timefmt"
)

// StatusIcon is the glyph painted in a bubble's status cell.
type StatusIcon struct {
	Glyph string
	Title string
	Color tcell.Color
}

var icons = map[status.Status]StatusIcon{
	status.Sending:   {Glyph: "◷", Title: "Sending...", Color: tcell.ColorGray},
	status.Sent:      {Glyph: "✓", Title: "Sent", Color: tcell.ColorGray},
	status.Delivered: {Glyph: "✓✓", Title: "Delivered", Color: tcell.ColorGray},
	status.Read:      {Glyph: "✓✓", Title: "Read", Color: tcell.ColorDodgerBlue},
	status.Failed:    {Glyph: "!", Title: "Failed to send", Color: tcell.ColorRed},
}

// Icon returns the indicator for s. Statuses without their own icon render
// as sent.
func Icon(s status.Status) StatusIcon {
	if icon, ok := icons[s]; ok {
		return icon
	}
	return icons[status.Sent]
}

// MessageKey is the identifier a row is tracked under: the server id once
// known, the temporary id before that.
func MessageKey(m api.Message) string {
	if m.ID > 0 {
		return strconv.FormatInt(m.ID, 10)
	}
	return m.TempID
}

// Bubble is one message row in the thread.
type Bubble struct {
	Key      string
	Own      bool
	Sender   string
	Content  string
	Time     string
	Tooltip  string
	Timezone string
	Status   status.Status
	// HasIcon is false for messages from the other user.
	HasIcon bool
	Icon    StatusIcon
}

// MessageBubble builds the row for m. tz is the zone tag the message was
// loaded with, kept for re-rendering.
func MessageBubble(m api.Message, s status.Status, currentUserID int64, tz string, f *timefmt.Formatter) Bubble {
	b := Bubble{
		Key:      MessageKey(m),
		Own:      m.SenderID == currentUserID,
		Content:  m.Content,
		Timezone: tz,
		Status:   s,
	}
	if !b.Own {
		b.Sender = m.SenderName
	}
	if ts, err := timefmt.Parse(m.CreatedAt); err == nil {
		b.Time = f.FormatTime(ts)
		b.Tooltip = f.Tooltip(ts)
	}
	if b.Own {
		b.HasIcon = true
		b.Icon = Icon(s)
	}
	return b
}
