package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/matheus3301/mchat/internal/tui/keys"
	"github.com/matheus3301/mchat/internal/tui/ui"
)

// HelpView lists the key bindings and prompt commands.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a help view for the bindings in r.
func NewHelpView(theme *ui.Theme, r *keys.Registry) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderFocusColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.SetText(hv.text(r))
	return hv
}

// Name implements ui.Component.
func (hv *HelpView) Name() string { return "Help" }

// Hints implements ui.Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (hv *HelpView) text(r *keys.Registry) string {
	kc := ui.ColorName(hv.theme.MenuKeyColor)
	var b strings.Builder

	section := func(title string, bindings []keys.Binding) {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", title)
		for _, k := range bindings {
			fmt.Fprintf(&b, "  [%s]%-8s[-] %s\n", kc, tview.Escape(k.Label), k.Command)
		}
	}
	section("Global", r.Bindings(keys.ScopeGlobal))
	section("Conversation list", r.Bindings(keys.ScopeList))
	section("Open conversation", r.Bindings(keys.ScopeChat))

	fmt.Fprintf(&b, "\n  [::b]Composer[-:-:-]\n\n")
	fmt.Fprintf(&b, "  [%s]%-8s[-] send\n", kc, "Enter")
	fmt.Fprintf(&b, "  [%s]%-8s[-] new line\n", kc, "Alt-Enter")

	fmt.Fprintf(&b, "\n  [::b]Commands (:)[-:-:-]\n\n")
	for _, c := range CommandHelp {
		fmt.Fprintf(&b, "  [%s]%-16s[-] %s\n", kc, tview.Escape(c[0]), c[1])
	}
	return b.String()
}

// CommandHelp documents the prompt commands.
var CommandHelp = [][2]string{
	{"compose [name]", "new message"},
	{"open <name>", "open a conversation"},
	{"search <term>", "filter conversations"},
	{"sidebar", "collapse or expand the sidebar"},
	{"close", "close the conversation"},
	{"help", "show this help"},
	{"quit", "quit"},
}
