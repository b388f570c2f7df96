package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/matheus3301/mchat/internal/render"
)

// ChatHeader shows who the open conversation is with.
type ChatHeader struct {
	*tview.TextView
	theme *Theme
}

// NewChatHeader creates a new header panel.
func NewChatHeader(theme *Theme) *ChatHeader {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ChatHeader{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders h. A zero header clears the panel.
func (ch *ChatHeader) Update(h render.Header) {
	ch.Clear()
	if h.UserID == 0 {
		return
	}
	_, _ = fmt.Fprintf(ch,
		"[%s::b](%s)[-:-:-] [::b]%s[-:-:-]\n[%s]%s[-]",
		ColorName(ch.theme.AvatarColor), tview.Escape(h.Initials),
		tview.Escape(h.Name),
		ColorName(ch.theme.MutedColor), tview.Escape(h.Role),
	)
}
