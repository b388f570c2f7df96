package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/tui/ui"
)

// Placeholders shown instead of rows.
const (
	LoadingText = "Loading conversations..."
	EmptyText   = "No conversations yet"
)

// ConversationList is the sidebar list of conversations.
type ConversationList struct {
	*tview.Table
	theme       *ui.Theme
	rows        []render.ConversationRow
	collapsed   bool
	placeholder string
}

// NewConversationList creates a new conversation list table.
func NewConversationList(theme *ui.Theme) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.SelectedFg).
		Background(theme.SelectedBg))
	table.SetTitleColor(theme.TitleColor)

	cl := &ConversationList{
		Table:       table,
		theme:       theme,
		placeholder: LoadingText,
	}
	cl.render()
	return cl
}

// Name implements ui.Component.
func (cl *ConversationList) Name() string { return "Conversations" }

// Hints implements ui.Component.
func (cl *ConversationList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
	}
}

// SetLoading shows the loading placeholder.
func (cl *ConversationList) SetLoading() {
	cl.placeholder = LoadingText
	cl.render()
}

// HideLoading drops the loading placeholder.
func (cl *ConversationList) HideLoading() {
	if cl.placeholder == LoadingText {
		cl.placeholder = ""
		cl.render()
	}
}

// SetEmpty shows the empty-state placeholder.
func (cl *ConversationList) SetEmpty() {
	cl.placeholder = EmptyText
	cl.render()
}

// ShowItems shows the rows.
func (cl *ConversationList) ShowItems() {
	cl.placeholder = ""
	cl.render()
}

// Update replaces the rows.
func (cl *ConversationList) Update(rows []render.ConversationRow) {
	selected := cl.SelectedUserID()
	cl.rows = rows
	cl.render()
	cl.selectUser(selected)
}

// SetActive highlights userID's row as the open conversation.
func (cl *ConversationList) SetActive(userID int64) {
	for i := range cl.rows {
		cl.rows[i].Selected = cl.rows[i].UserID == userID
	}
	cl.render()
	if userID != 0 {
		cl.selectUser(userID)
	}
}

// SetCollapsed switches between the full and the avatar-only layout.
func (cl *ConversationList) SetCollapsed(collapsed bool) {
	cl.collapsed = collapsed
	cl.render()
}

// Collapsed reports the current layout.
func (cl *ConversationList) Collapsed() bool {
	return cl.collapsed
}

// SelectedUserID returns the user id of the selected row, 0 when none.
func (cl *ConversationList) SelectedUserID() int64 {
	row, _ := cl.GetSelection()
	return cl.UserAt(row)
}

// UserAt returns the user id shown on row, 0 when none.
func (cl *ConversationList) UserAt(row int) int64 {
	cell := cl.GetCell(row, 0)
	if cell == nil {
		return 0
	}
	id, _ := cell.GetReference().(int64)
	return id
}

// UserByIndex returns the user id of the n-th row (1-based).
func (cl *ConversationList) UserByIndex(n int) int64 {
	if n < 1 || n > len(cl.rows) || cl.placeholder != "" {
		return 0
	}
	return cl.rows[n-1].UserID
}

// Rows returns the rendered rows.
func (cl *ConversationList) Rows() []render.ConversationRow {
	return cl.rows
}

func (cl *ConversationList) selectUser(userID int64) {
	if userID == 0 {
		return
	}
	for row := 0; row < cl.GetRowCount(); row++ {
		if cl.UserAt(row) == userID {
			cl.Select(row, 0)
			return
		}
	}
}

func (cl *ConversationList) render() {
	cl.Clear()
	if cl.collapsed {
		cl.SetTitle("")
	} else {
		cl.SetTitle(fmt.Sprintf(" Conversations (%d) ", len(cl.rows)))
	}

	if cl.placeholder != "" {
		text := cl.placeholder
		if cl.collapsed {
			text = "…"
		}
		cl.SetCell(0, 0, tview.NewTableCell(" "+text).
			SetSelectable(false).
			SetTextColor(cl.theme.MutedColor).
			SetExpansion(1))
		return
	}

	for row, r := range cl.rows {
		bg := cl.theme.BgColor
		if r.Selected {
			bg = cl.theme.ActiveRowBg
		}
		avatar := tview.NewTableCell(" (" + tview.Escape(r.Initials) + ")").
			SetReference(r.UserID).
			SetTextColor(cl.theme.AvatarColor).
			SetBackgroundColor(bg)
		cl.SetCell(row, 0, avatar)

		b := badge(r.Unread, cl.collapsed)
		badgeCell := tview.NewTableCell(b).
			SetTextColor(cl.theme.BadgeFg).
			SetBackgroundColor(bg).
			SetAlign(tview.AlignRight)
		if b != "" {
			badgeCell.SetText(" " + b + " ").SetBackgroundColor(cl.theme.BadgeBg)
		}

		if cl.collapsed {
			cl.SetCell(row, 1, badgeCell)
			continue
		}

		name := tview.NewTableCell(" " + tview.Escape(singleLine(r.Name))).
			SetTextColor(cl.theme.FgColor).
			SetBackgroundColor(bg).
			SetMaxWidth(22)
		if r.Unread > 0 {
			name.SetAttributes(tcell.AttrBold)
		}
		preview := tview.NewTableCell(" " + tview.Escape(singleLine(r.Preview))).
			SetTextColor(cl.theme.MutedColor).
			SetBackgroundColor(bg).
			SetExpansion(1)
		ts := tview.NewTableCell(" " + r.Time).
			SetTextColor(cl.theme.MutedColor).
			SetBackgroundColor(bg).
			SetAlign(tview.AlignRight)

		cl.SetCell(row, 1, name)
		cl.SetCell(row, 2, preview)
		cl.SetCell(row, 3, ts)
		cl.SetCell(row, 4, badgeCell)
	}
}
