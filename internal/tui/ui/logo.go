package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Logo is the sidebar title. Collapsed, it shrinks to a single glyph.
type Logo struct {
	*tview.TextView
	theme *Theme
}

// NewLogo creates a new logo component.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)

	l := &Logo{
		TextView: tv,
		theme:    theme,
	}
	l.Render(false)
	return l
}

// Render draws the full or collapsed logo.
func (l *Logo) Render(collapsed bool) {
	l.Clear()
	title := ColorName(l.theme.TitleColor)
	if collapsed {
		_, _ = fmt.Fprintf(l, " [%s::b]✉[-:-:-]", title)
		return
	}
	_, _ = fmt.Fprintf(l, " [%s::b]✉ Messages[-:-:-]", title)
}
