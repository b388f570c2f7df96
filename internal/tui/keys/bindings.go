package keys

import "github.com/gdamore/tcell/v2"

// Command is a user action a key can trigger.
type Command int

const (
	None Command = iota
	Quit
	Help
	Search
	CommandMode
	Compose
	ToggleSidebar
	FocusInput
	FocusList
	CloseChat
	OpenToast
	Details
)

var commandNames = map[Command]string{
	Quit:          "quit",
	Help:          "help",
	Search:        "search",
	CommandMode:   "command",
	Compose:       "compose",
	ToggleSidebar: "sidebar",
	FocusInput:    "input",
	FocusList:     "list",
	CloseChat:     "close",
	OpenToast:     "open-toast",
	Details:       "details",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return "none"
}

// Executor runs commands. It reports false when the command does not apply
// in the current state, letting the key through.
type Executor interface {
	Execute(Command) bool
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(Command) bool

func (f ExecutorFunc) Execute(c Command) bool { return f(c) }

// Scopes a binding can live in. Global bindings apply in every scope.
const (
	ScopeGlobal = ""
	ScopeList   = "list"
	ScopeChat   = "chat"
)

// Binding maps a key to a command.
type Binding struct {
	Key     tcell.Key
	Rune    rune
	Label   string
	Command Command
	Hint    string
}

// Matches reports whether the key (and rune, for KeyRune) triggers this
// binding.
func (b Binding) Matches(key tcell.Key, r rune) bool {
	if b.Key != tcell.KeyRune {
		return key == b.Key
	}
	return key == tcell.KeyRune && r == b.Rune
}

// Registry holds bindings per scope in registration order.
type Registry struct {
	scopes map[string][]Binding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{scopes: make(map[string][]Binding)}
}

// Bind adds b to scope.
func (r *Registry) Bind(scope string, b Binding) {
	r.scopes[scope] = append(r.scopes[scope], b)
}

// Lookup finds the command for a key in scope, falling back to global
// bindings.
func (r *Registry) Lookup(scope string, key tcell.Key, ch rune) (Command, bool) {
	if scope != ScopeGlobal {
		for _, b := range r.scopes[scope] {
			if b.Matches(key, ch) {
				return b.Command, true
			}
		}
	}
	for _, b := range r.scopes[ScopeGlobal] {
		if b.Matches(key, ch) {
			return b.Command, true
		}
	}
	return None, false
}

// Dispatch looks ev up and runs it on x. It reports whether the key was
// consumed.
func (r *Registry) Dispatch(scope string, ev *tcell.EventKey, x Executor) bool {
	return r.dispatch(scope, ev.Key(), ev.Rune(), x)
}

func (r *Registry) dispatch(scope string, key tcell.Key, ch rune, x Executor) bool {
	cmd, ok := r.Lookup(scope, key, ch)
	if !ok {
		return false
	}
	return x.Execute(cmd)
}

// Hints returns the bindings with a hint for scope, scope-specific first.
func (r *Registry) Hints(scope string) []Binding {
	var out []Binding
	if scope != ScopeGlobal {
		for _, b := range r.scopes[scope] {
			if b.Hint != "" {
				out = append(out, b)
			}
		}
	}
	for _, b := range r.scopes[ScopeGlobal] {
		if b.Hint != "" {
			out = append(out, b)
		}
	}
	return out
}

// Default returns the standard key map.
func Default() *Registry {
	r := NewRegistry()
	r.Bind(ScopeGlobal, Binding{Key: tcell.KeyCtrlC, Label: "Ctrl-C", Command: Quit})
	r.Bind(ScopeGlobal, Binding{Key: tcell.KeyRune, Rune: 'q', Label: "q", Command: Quit, Hint: "Quit"})
	r.Bind(ScopeGlobal, Binding{Key: tcell.KeyRune, Rune: '?', Label: "?", Command: Help, Hint: "Help"})
	r.Bind(ScopeGlobal, Binding{Key: tcell.KeyRune, Rune: '/', Label: "/", Command: Search, Hint: "Search"})
	r.Bind(ScopeGlobal, Binding{Key: tcell.KeyRune, Rune: ':', Label: ":", Command: CommandMode, Hint: "Command"})
	r.Bind(ScopeGlobal, Binding{Key: tcell.KeyRune, Rune: 'c', Label: "c", Command: Compose, Hint: "Compose"})
	r.Bind(ScopeGlobal, Binding{Key: tcell.KeyRune, Rune: 'b', Label: "b", Command: ToggleSidebar, Hint: "Sidebar"})
	r.Bind(ScopeGlobal, Binding{Key: tcell.KeyRune, Rune: 'o', Label: "o", Command: OpenToast})

	r.Bind(ScopeChat, Binding{Key: tcell.KeyRune, Rune: 'i', Label: "i", Command: FocusInput, Hint: "Write"})
	r.Bind(ScopeChat, Binding{Key: tcell.KeyRune, Rune: 'd', Label: "d", Command: Details, Hint: "Details"})
	r.Bind(ScopeChat, Binding{Key: tcell.KeyTab, Label: "Tab", Command: FocusList, Hint: "List"})
	r.Bind(ScopeChat, Binding{Key: tcell.KeyEscape, Label: "Esc", Command: CloseChat, Hint: "Close"})

	r.Bind(ScopeList, Binding{Key: tcell.KeyTab, Label: "Tab", Command: FocusInput})
	return r
}

// Bindings returns a copy of scope's own bindings.
func (r *Registry) Bindings(scope string) []Binding {
	return append([]Binding(nil), r.scopes[scope]...)
}
