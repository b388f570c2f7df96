package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/status"
	"github.com/matheus3301/mchat/internal/tui/ui"
)

// WrapWidth bounds the width of message text in runes.
const WrapWidth = 60

// Thread columns.
const (
	colText = iota
	colTime
	colStatus
)

// MessageThread shows the open conversation, one or more rows per message.
// Each own message keeps a status cell that is patched in place.
type MessageThread struct {
	*tview.Table
	theme      *ui.Theme
	statusRows map[string]int
	tooltips   map[int]string
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.FgColor).
		Background(theme.ActiveRowBg))

	return &MessageThread{
		Table:      table,
		theme:      theme,
		statusRows: make(map[string]int),
		tooltips:   make(map[int]string),
	}
}

// Name implements ui.Component.
func (mt *MessageThread) Name() string { return "Messages" }

// Hints implements ui.Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "↑/↓", Description: "Scroll"},
	}
}

// Update replaces every message.
func (mt *MessageThread) Update(bubbles []render.Bubble) {
	mt.Reset()
	for _, b := range bubbles {
		mt.add(b)
	}
	mt.ScrollToEnd()
}

// Append adds one message at the bottom.
func (mt *MessageThread) Append(b render.Bubble) {
	mt.add(b)
	mt.ScrollToEnd()
}

// Reset empties the thread.
func (mt *MessageThread) Reset() {
	mt.Clear()
	clear(mt.statusRows)
	clear(mt.tooltips)
}

// PatchStatus repaints the status cell of key's message. Unknown keys are
// ignored.
func (mt *MessageThread) PatchStatus(key string, s status.Status) {
	row, ok := mt.statusRows[key]
	if !ok {
		return
	}
	icon := render.Icon(s)
	mt.GetCell(row, colStatus).
		SetText(" " + icon.Glyph).
		SetTextColor(icon.Color)
}

// Rekey moves the status cell of oldKey to newKey.
func (mt *MessageThread) Rekey(oldKey, newKey string) {
	row, ok := mt.statusRows[oldKey]
	if !ok {
		return
	}
	delete(mt.statusRows, oldKey)
	mt.statusRows[newKey] = row
}

// StatusText returns the glyph shown for key, for tests and details.
func (mt *MessageThread) StatusText(key string) (string, bool) {
	row, ok := mt.statusRows[key]
	if !ok {
		return "", false
	}
	return mt.GetCell(row, colStatus).Text, true
}

// Tooltip returns the full timestamp of the message on row.
func (mt *MessageThread) Tooltip(row int) string {
	return mt.tooltips[row]
}

func (mt *MessageThread) add(b render.Bubble) {
	row := mt.GetRowCount()
	align := tview.AlignLeft
	color := mt.theme.OtherColor
	if b.Own {
		align = tview.AlignRight
		color = mt.theme.OwnColor
	}

	if !b.Own && b.Sender != "" {
		mt.SetCell(row, colText, tview.NewTableCell(" "+tview.Escape(singleLine(b.Sender))).
			SetTextColor(mt.theme.SenderColor).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
		row++
	}

	lines := wrapText(sanitizeForTerminal(b.Content), WrapWidth)
	for i, line := range lines {
		mt.SetCell(row, colText, tview.NewTableCell(" "+tview.Escape(line)+" ").
			SetTextColor(color).
			SetAlign(align).
			SetExpansion(1))
		last := i == len(lines)-1
		timeText := ""
		if last {
			timeText = " " + b.Time
			mt.tooltips[row] = b.Tooltip
		}
		mt.SetCell(row, colTime, tview.NewTableCell(timeText).
			SetTextColor(mt.theme.MutedColor).
			SetAlign(tview.AlignRight))

		statusCell := tview.NewTableCell("")
		if last && b.HasIcon {
			statusCell.SetText(" " + b.Icon.Glyph).SetTextColor(b.Icon.Color)
			mt.statusRows[b.Key] = row
		}
		mt.SetCell(row, colStatus, statusCell)
		row++
	}
}

// TypingLine shows "<name> is typing...".
type TypingLine struct {
	*tview.TextView
	theme *ui.Theme
}

// NewTypingLine creates an empty typing line.
func NewTypingLine(theme *ui.Theme) *TypingLine {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.TypingColor)
	return &TypingLine{TextView: tv, theme: theme}
}

// Show displays the indicator for name.
func (tl *TypingLine) Show(name string) {
	if name == "" {
		name = "Someone"
	}
	tl.SetText(" [::i]" + tview.Escape(singleLine(name)) + " is typing...[::-]")
}

// Hide clears the indicator.
func (tl *TypingLine) Hide() {
	tl.SetText("")
}
