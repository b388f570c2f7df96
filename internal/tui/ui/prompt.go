package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PromptMode indicates what the prompt is collecting.
type PromptMode int

const (
	PromptCommand PromptMode = iota
	PromptSearch
)

// Prompt is a one-line input for commands and the conversation search.
// In search mode every edit is reported through the change callback.
type Prompt struct {
	*tview.InputField
	theme    *Theme
	mode     PromptMode
	onSubmit func(mode PromptMode, text string)
	onChange func(mode PromptMode, text string)
	onCancel func(mode PromptMode)
}

// NewPrompt creates a new prompt input bar.
func NewPrompt(theme *Theme) *Prompt {
	input := tview.NewInputField()
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)
	input.SetPlaceholderTextColor(theme.MutedColor)

	p := &Prompt{
		InputField: input,
		theme:      theme,
	}

	input.SetChangedFunc(func(text string) {
		if p.onChange != nil {
			p.onChange(p.mode, text)
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := p.GetText()
			if p.onSubmit != nil {
				p.onSubmit(p.mode, text)
			}
			if p.mode == PromptCommand {
				p.SetText("")
			}
		case tcell.KeyEscape:
			if p.mode == PromptCommand {
				p.SetText("")
			}
			if p.onCancel != nil {
				p.onCancel(p.mode)
			}
		}
	})

	p.Activate(PromptSearch)
	return p
}

// SetOnSubmit sets the callback when Enter is pressed.
func (p *Prompt) SetOnSubmit(fn func(mode PromptMode, text string)) {
	p.onSubmit = fn
}

// SetOnChange sets the callback for every edit.
func (p *Prompt) SetOnChange(fn func(mode PromptMode, text string)) {
	p.onChange = fn
}

// SetOnCancel sets the callback when Esc is pressed.
func (p *Prompt) SetOnCancel(fn func(mode PromptMode)) {
	p.onCancel = fn
}

// Activate switches the prompt to mode. Switching clears the text.
func (p *Prompt) Activate(mode PromptMode) {
	changed := p.mode != mode
	p.mode = mode
	if changed {
		p.SetText("")
	}
	switch mode {
	case PromptCommand:
		p.SetLabel(" : ")
		p.SetPlaceholder("compose | open <name> | sidebar | help | quit")
	case PromptSearch:
		p.SetLabel(" / ")
		p.SetPlaceholder("Search conversations")
	}
}

// Mode returns the current prompt mode.
func (p *Prompt) Mode() PromptMode {
	return p.mode
}
