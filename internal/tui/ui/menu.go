package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// Menu displays keyboard shortcut hints on one line.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates a new hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.MutedColor)

	return &Menu{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders hints as "<key> description" pairs.
func (m *Menu) Update(hints []MenuHint) {
	m.SetText(FormatHints(hints, ColorName(m.theme.MenuKeyColor)))
}

// FormatHints renders hints with keys in keyColor.
func FormatHints(hints []MenuHint, keyColor string) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, fmt.Sprintf("[%s::b]<%s>[-:-:-] %s", keyColor, tview.Escape(h.Key), h.Description))
	}
	return " " + strings.Join(parts, "  ")
}
