package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/matheus3301/mchat/internal/realtime"
	"github.com/matheus3301/mchat/internal/tui/ui"
)

// StatusBar shows the connection state, unread total, profile and the
// clock in the user's zone.
type StatusBar struct {
	*tview.TextView
	theme      *ui.Theme
	profile    string
	connection string
	unread     int
	collapsed  bool
	zone       string
	loc        *time.Location
	now        func() time.Time
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.StatusBarBg)

	sb := &StatusBar{
		TextView:   tv,
		theme:      theme,
		connection: string(realtime.Disconnected),
		loc:        time.Local,
		now:        time.Now,
	}
	sb.render()
	return sb
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetConnection updates the realtime connection state.
func (sb *StatusBar) SetConnection(state string) {
	sb.connection = state
	sb.render()
}

// SetUnread updates the unread total.
func (sb *StatusBar) SetUnread(n int) {
	sb.unread = n
	sb.render()
}

// Unread returns the unread total shown.
func (sb *StatusBar) Unread() int {
	return sb.unread
}

// SetCollapsed switches to the compact badge.
func (sb *StatusBar) SetCollapsed(collapsed bool) {
	sb.collapsed = collapsed
	sb.render()
}

// SetZone sets the zone the clock is shown in.
func (sb *StatusBar) SetZone(name string, loc *time.Location) {
	sb.zone = name
	if loc != nil {
		sb.loc = loc
	}
	sb.render()
}

// Tick re-renders the clock.
func (sb *StatusBar) Tick() {
	sb.render()
}

func (sb *StatusBar) render() {
	sb.SetText(sb.line())
}

func (sb *StatusBar) line() string {
	var parts []string

	color := sb.theme.OfflineColor
	switch sb.connection {
	case string(realtime.Connected):
		color = sb.theme.ConnectedColor
	case string(realtime.Connecting):
		color = sb.theme.ConnectingColor
	}
	parts = append(parts, fmt.Sprintf("[%s]●[-] %s", ui.ColorName(color), strings.ToLower(sb.connection)))

	if b := badge(sb.unread, sb.collapsed); b != "" {
		parts = append(parts, fmt.Sprintf("[::b]%s unread[::-]", b))
	}
	if sb.profile != "" {
		parts = append(parts, tview.Escape(sb.profile))
	}

	clock := sb.now().In(sb.loc).Format("3:04 PM")
	if sb.zone != "" {
		clock = tview.Escape(sb.zone) + " " + clock
	}
	parts = append(parts, clock)

	return " " + strings.Join(parts, " │ ")
}
