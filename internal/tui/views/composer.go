package views

import (
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/mchat/internal/tui/ui"
)

// MaxComposerLines caps how far the composer grows.
const MaxComposerLines = 5

// Composer is the multi-line message input. Enter sends; Alt+Enter or
// Shift+Enter inserts a newline.
type Composer struct {
	*tview.TextArea
	theme    *ui.Theme
	enabled  bool
	lines    int
	onSend   func(text string)
	onChange func(text string)
	onResize func(height int)
}

// NewComposer creates a new message composer.
func NewComposer(theme *ui.Theme) *Composer {
	ta := tview.NewTextArea().
		SetPlaceholder("Type a message...")
	ta.SetBorder(true)
	ta.SetBorderColor(theme.BorderColor)
	ta.SetBackgroundColor(theme.BgColor)
	ta.SetTextStyle(tcell.StyleDefault.Foreground(theme.FgColor).Background(theme.BgColor))
	ta.SetPlaceholderStyle(tcell.StyleDefault.Foreground(theme.MutedColor).Background(theme.BgColor))

	c := &Composer{
		TextArea: ta,
		theme:    theme,
		lines:    1,
	}

	ta.SetChangedFunc(func() {
		text := c.GetText()
		c.resize(text)
		if c.onChange != nil {
			c.onChange(text)
		}
	})

	ta.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape, tcell.KeyTab, tcell.KeyBacktab, tcell.KeyCtrlC:
			return event
		}
		if !c.enabled {
			return nil
		}
		if event.Key() == tcell.KeyEnter && event.Modifiers()&(tcell.ModAlt|tcell.ModShift) == 0 {
			text := c.GetText()
			if strings.TrimSpace(text) != "" && c.onSend != nil {
				c.onSend(text)
			}
			return nil
		}
		return event
	})

	c.SetEnabled(false)
	return c
}

// SetOnSend sets the callback when Enter is pressed with text.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}

// SetOnChange sets the callback for every edit.
func (c *Composer) SetOnChange(fn func(text string)) {
	c.onChange = fn
}

// SetOnResize sets the callback when the wanted height changes.
func (c *Composer) SetOnResize(fn func(height int)) {
	c.onResize = fn
}

// SetEnabled allows or blocks editing.
func (c *Composer) SetEnabled(enabled bool) {
	c.enabled = enabled
	if enabled {
		c.SetBorderColor(c.theme.BorderColor)
		c.SetTitle("")
	} else {
		c.SetBorderColor(c.theme.MutedColor)
	}
}

// Enabled reports whether editing is allowed.
func (c *Composer) Enabled() bool {
	return c.enabled
}

// SetSendReady tints the border when the text can be sent.
func (c *Composer) SetSendReady(ready bool) {
	if !c.enabled {
		return
	}
	if ready {
		c.SetBorderColor(c.theme.BorderFocusColor)
		c.SetTitle(" Enter to send ")
	} else {
		c.SetBorderColor(c.theme.BorderColor)
		c.SetTitle("")
	}
	c.SetTitleAlign(tview.AlignRight)
}

// Reset clears the text and shrinks back to one line.
func (c *Composer) Reset() {
	c.SetText("", true)
}

// Height returns the wanted height including the border.
func (c *Composer) Height() int {
	return c.lines + 2
}

func (c *Composer) resize(text string) {
	_, _, width, _ := c.GetInnerRect()
	n := composerLines(text, width)
	if n == c.lines {
		return
	}
	c.lines = n
	if c.onResize != nil {
		c.onResize(c.Height())
	}
}

// composerLines counts the visual lines of text at width, between 1 and
// MaxComposerLines. A width of 0 counts only hard line breaks.
func composerLines(text string, width int) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		runes := utf8.RuneCountInString(line)
		if width > 0 && runes > width {
			n += (runes + width - 1) / width
		} else {
			n++
		}
		if n >= MaxComposerLines {
			return MaxComposerLines
		}
	}
	return max(n, 1)
}
