package views

import (
	"fmt"
	"strconv"

	"github.com/rivo/tview"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/timefmt"
	"github.com/matheus3301/mchat/internal/tui/ui"
)

// ConversationInfo shows details about the open conversation.
type ConversationInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewConversationInfo creates a new details view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderFocusColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Conversation Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConversationInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements ui.Component.
func (ci *ConversationInfo) Name() string { return "Details" }

// Hints implements ui.Component.
func (ci *ConversationInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// Update renders the details of other's conversation. conv may be nil
// when the conversation is not in the list yet.
func (ci *ConversationInfo) Update(other api.User, conv *api.Conversation, messages int, zone string, f *timefmt.Formatter) {
	ci.Clear()
	fg := ui.ColorName(ci.theme.MenuKeyColor)

	lastActive := "-"
	unread := 0
	if conv != nil {
		unread = conv.UnreadCount
		if conv.LastMessage != nil {
			if ts, err := timefmt.Parse(conv.LastMessage.CreatedAt); err == nil {
				lastActive = f.Tooltip(ts)
			}
		}
	}
	if zone == "" {
		zone = f.Location().String()
	}

	rows := [][2]string{
		{"Name", other.FullName()},
		{"Role", render.Capitalize(other.Role)},
		{"Unread", strconv.Itoa(unread)},
		{"Messages", strconv.Itoa(messages)},
		{"Last Active", lastActive},
		{"Timezone", zone},
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(ci, " [%s::b]%-12s[-:-:-] %s\n", fg, r[0]+":", tview.Escape(r[1]))
	}
	ci.SetTitle(fmt.Sprintf(" %s ", tview.Escape(other.FullName())))
}
