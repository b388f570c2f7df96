package ui

import "github.com/rivo/tview"

// Pages is a stack-based page manager wrapping tview.Pages. The bottom page
// stays visible under modals.
type Pages struct {
	*tview.Pages
	stack    []string
	onChange func(top string)
}

// NewPages creates a new stack-based page manager.
func NewPages() *Pages {
	return &Pages{
		Pages: tview.NewPages(),
	}
}

// SetOnChange sets a callback that fires with the new top page.
func (p *Pages) SetOnChange(fn func(top string)) {
	p.onChange = fn
}

// Base installs the root page and resets the stack to it.
func (p *Pages) Base(name string, item tview.Primitive) {
	p.AddPage(name, item, true, true)
	for _, n := range p.stack {
		if n != name {
			p.HidePage(n)
		}
	}
	p.stack = []string{name}
	p.notify()
}

// PushModal shows item centered over the current page with the given size.
// Pushing a page already on top is a no-op.
func (p *Pages) PushModal(name string, item tview.Primitive, width, height int) {
	if p.Current() == name {
		return
	}
	p.AddPage(name, Centered(item, width, height), true, true)
	p.stack = append(p.stack, name)
	p.notify()
}

// Pop removes the top modal. The base page is never popped.
// Returns the name of the popped page, or empty.
func (p *Pages) Pop() string {
	if len(p.stack) <= 1 {
		return ""
	}
	top := p.stack[len(p.stack)-1]
	p.RemovePage(top)
	p.stack = p.stack[:len(p.stack)-1]
	p.notify()
	return top
}

// Current returns the name of the top page.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// HasModal reports whether a modal is shown.
func (p *Pages) HasModal() bool {
	return len(p.stack) > 1
}

// Depth returns the current stack depth.
func (p *Pages) Depth() int {
	return len(p.stack)
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Current())
	}
}

// Centered wraps item in a layout that centers it at the given size.
func Centered(item tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(item, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}
