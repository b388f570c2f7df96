package ui

// MenuHint describes a keyboard shortcut for the hint bar.
type MenuHint struct {
	Key         string
	Description string
}

// Component is a page that contributes hints to the hint bar.
type Component interface {
	Name() string
	Hints() []MenuHint
}
