// Package tui is the terminal front end of the chat client. App implements
// chat.View; every widget update is queued onto the tview event loop and
// every chat action runs off the UI goroutine, in order.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/chat"
	"github.com/matheus3301/mchat/internal/tui/keys"
	"github.com/matheus3301/mchat/internal/tui/ui"
	"github.com/matheus3301/mchat/internal/tui/views"
)

// Sidebar widths in columns.
const (
	sidebarWidth          = 52
	sidebarCollapsedWidth = 10
)

// Page names.
const (
	pageMain    = "main"
	pageCompose = "compose"
	pageHelp    = "help"
	pageDetails = "details"

	chatWelcome = "welcome"
	chatOpen    = "chat"
)

const welcomeText = `

  [::b]Welcome to Messages[-:-:-]

  Select a conversation on the left, or press [::b]c[-:-:-] to start a new one.
  Press [::b]?[-:-:-] for help.`

// Options configures the App.
type Options struct {
	Profile string
	Theme   *ui.Theme
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	screen   tcell.Screen
	theme    *ui.Theme
	registry *keys.Registry
	flash    *ui.FlashModel
	logger   *zap.Logger

	pages     *ui.Pages
	root      *tview.Flex
	body      *tview.Flex
	sidebar   *tview.Flex
	logo      *ui.Logo
	prompt    *ui.Prompt
	list      *views.ConversationList
	chatPages *tview.Pages
	chatBox   *tview.Flex
	header    *ui.ChatHeader
	thread    *views.MessageThread
	typing    *views.TypingLine
	composer  *views.Composer
	menu      *ui.Menu
	flashBar  *ui.FlashBar
	statusBar *views.StatusBar
	compose   *views.ComposeForm
	help      *views.HelpView
	details   *views.ConversationInfo

	sys     *chat.System
	actions chan func()

	// activeChat mirrors the open conversation; UI goroutine only.
	activeChat int64
	collapsed  bool

	ctx     context.Context
	cancel  context.CancelFunc
	stopped atomic.Bool
}

var _ chat.View = (*App)(nil)

// NewApp creates the TUI application. Bind must be called before Run.
func NewApp(opts Options, logger *zap.Logger) *App {
	if opts.Theme == nil {
		opts.Theme = ui.DefaultTheme()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	theme := opts.Theme
	registry := keys.Default()

	a := &App{
		app:       tview.NewApplication(),
		theme:     theme,
		registry:  registry,
		flash:     ui.NewFlashModel(),
		logger:    logger,
		pages:     ui.NewPages(),
		logo:      ui.NewLogo(theme),
		prompt:    ui.NewPrompt(theme),
		list:      views.NewConversationList(theme),
		chatPages: tview.NewPages(),
		header:    ui.NewChatHeader(theme),
		thread:    views.NewMessageThread(theme),
		typing:    views.NewTypingLine(theme),
		composer:  views.NewComposer(theme),
		menu:      ui.NewMenu(theme),
		flashBar:  ui.NewFlashBar(theme),
		statusBar: views.NewStatusBar(theme),
		compose:   views.NewComposeForm(theme),
		help:      views.NewHelpView(theme, registry),
		details:   views.NewConversationInfo(theme),
		actions:   make(chan func(), 64),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.statusBar.SetProfile(opts.Profile)
	a.setupLayout()
	a.setupCallbacks()
	return a
}

// Bind attaches the chat system driving this view.
func (a *App) Bind(sys *chat.System) {
	a.sys = sys
	a.applySidebar(sys.SidebarCollapsed())
}

func (a *App) setupLayout() {
	a.sidebar = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.logo, 1, 0, false).
		AddItem(a.prompt, 1, 0, false).
		AddItem(a.list, 0, 1, true)

	welcome := tview.NewTextView().
		SetDynamicColors(true).
		SetText(welcomeText)
	welcome.SetBackgroundColor(a.theme.BgColor)
	welcome.SetTextColor(a.theme.MutedColor)

	a.chatBox = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.header, 2, 0, false).
		AddItem(a.thread, 0, 1, false).
		AddItem(a.typing, 1, 0, false).
		AddItem(a.composer, a.composer.Height(), 0, true)
	a.chatBox.SetBorder(true)
	a.chatBox.SetBorderColor(a.theme.BorderColor)

	a.chatPages.AddPage(chatWelcome, welcome, true, true)
	a.chatPages.AddPage(chatOpen, a.chatBox, true, false)

	a.body = tview.NewFlex().
		AddItem(a.sidebar, sidebarWidth, 0, true).
		AddItem(a.chatPages, 0, 1, false)

	a.pages.SetOnChange(func(string) { a.updateHints() })
	a.pages.Base(pageMain, a.body)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.flashBar, 1, 0, false).
		AddItem(a.menu, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(a.root, true)
	a.app.SetInputCapture(a.capture)
}

func (a *App) setupCallbacks() {
	a.list.SetSelectedFunc(func(row, _ int) {
		a.openChat(a.list.UserAt(row))
	})

	a.thread.SetSelectionChangedFunc(func(row, _ int) {
		if tip := a.thread.Tooltip(row); tip != "" {
			a.showFlash(a.flash.Info(tip))
		}
	})

	a.composer.SetOnSend(func(text string) {
		a.composer.SetEnabled(false)
		a.do(func() { a.sys.SendMessage(a.ctx, text) })
	})
	a.composer.SetOnChange(func(text string) {
		a.do(func() { a.sys.InputChanged(text) })
	})
	a.composer.SetOnResize(func(height int) {
		a.chatBox.ResizeItem(a.composer, height, 0)
	})
	a.composer.SetBlurFunc(func() {
		a.do(a.sys.InputBlurred)
	})

	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptSearch {
			a.do(func() { a.sys.Search(text) })
		}
	})
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptCommand {
			a.prompt.Activate(ui.PromptSearch)
			a.focus(a.list)
			a.runCommand(ParseCommand(text))
			return
		}
		a.focus(a.list)
	})
	a.prompt.SetOnCancel(func(mode ui.PromptMode) {
		if mode == ui.PromptSearch {
			a.prompt.SetText("")
		} else {
			a.prompt.Activate(ui.PromptSearch)
		}
		a.focus(a.list)
	})

	a.compose.SetOnSubmit(func(req chat.ComposeRequest) {
		a.compose.SetBusy(true)
		a.do(func() {
			res := a.sys.Compose(a.ctx, req)
			a.queue(func() {
				a.compose.SetBusy(false)
				if !res.Success {
					a.compose.ShowError(res.Error)
					return
				}
				a.closeModal()
				a.compose.Reset()
				a.showFlash(a.flash.Info("Message sent"))
			})
		})
	})
	a.compose.SetOnCancel(a.closeModal)
}

// capture routes keys: modals and text inputs first, then the registry.
func (a *App) capture(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() == tcell.KeyCtrlC {
		a.Stop()
		return nil
	}

	if a.pages.HasModal() {
		if ev.Key() == tcell.KeyEscape {
			a.closeModal()
			return nil
		}
		if a.pages.Current() != pageCompose && ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
			a.closeModal()
			return nil
		}
		return ev
	}

	switch {
	case a.composer.HasFocus():
		switch ev.Key() {
		case tcell.KeyEscape:
			a.focus(a.thread)
			return nil
		case tcell.KeyTab:
			a.focus(a.list)
			return nil
		}
		return ev
	case a.prompt.HasFocus():
		return ev
	}

	scope := a.scope()
	if scope == keys.ScopeList && ev.Key() == tcell.KeyRune && ev.Rune() >= '1' && ev.Rune() <= '9' {
		if id := a.list.UserByIndex(int(ev.Rune() - '0')); id != 0 {
			a.openChat(id)
			return nil
		}
	}
	if a.registry.Dispatch(scope, ev, a) {
		return nil
	}
	return ev
}

func (a *App) scope() string {
	if a.thread.HasFocus() || a.composer.HasFocus() {
		return keys.ScopeChat
	}
	return keys.ScopeList
}

// Execute implements keys.Executor.
func (a *App) Execute(cmd keys.Command) bool {
	switch cmd {
	case keys.Quit:
		a.Stop()
	case keys.Help:
		a.pages.PushModal(pageHelp, a.help, 64, 34)
		a.focus(a.help)
	case keys.Search:
		a.prompt.Activate(ui.PromptSearch)
		if a.collapsed {
			a.toggleSidebar()
		}
		a.focus(a.prompt)
	case keys.CommandMode:
		a.prompt.Activate(ui.PromptCommand)
		if a.collapsed {
			a.toggleSidebar()
		}
		a.focus(a.prompt)
	case keys.Compose:
		a.openCompose(0)
	case keys.ToggleSidebar:
		a.toggleSidebar()
	case keys.FocusInput:
		if a.activeChat == 0 {
			return false
		}
		a.focus(a.composer)
	case keys.FocusList:
		a.focus(a.list)
	case keys.CloseChat:
		if a.activeChat == 0 {
			return false
		}
		a.do(a.sys.CloseChat)
	case keys.OpenToast:
		id, ok := a.flash.ToastSender()
		if !ok {
			return false
		}
		if m := a.flash.Current(); m != nil {
			a.flash.Dismiss(m.Seq)
		}
		a.flashBar.Update(nil)
		a.openChat(id)
	case keys.Details:
		if a.activeChat == 0 {
			return false
		}
		a.showDetails()
	default:
		return false
	}
	return true
}

func (a *App) runCommand(cmd Command) {
	if k := cmd.Key(); k != keys.None {
		a.Execute(k)
		return
	}
	switch cmd.Name {
	case "":
	case "open":
		if id, ok := matchConversation(a.list.Rows(), cmd.Args); ok {
			a.openChat(id)
			return
		}
		a.warn("No conversation matches " + cmd.Args)
	case "compose":
		id, ok := matchUser(a.sys.Session().Users(), cmd.Args)
		if !ok {
			a.warn("No recipient matches " + cmd.Args)
			return
		}
		a.openCompose(id)
	case "search":
		a.focus(a.prompt)
		a.prompt.SetText(cmd.Args)
	default:
		a.warn("Unknown command: " + cmd.Name)
	}
}

func (a *App) openChat(userID int64) {
	if userID == 0 {
		return
	}
	a.do(func() { a.sys.OpenChat(a.ctx, userID) })
}

func (a *App) openCompose(userID int64) {
	a.compose.Reset()
	if userID != 0 {
		a.compose.Preselect(userID)
	}
	a.pages.PushModal(pageCompose, a.compose, 72, 24)
	a.focus(a.compose)
}

func (a *App) showDetails() {
	other, entries := a.sys.Session().Thread()
	var conv *api.Conversation
	for _, c := range a.sys.Session().Conversations() {
		if c.OtherUser.ID == other.ID {
			conv = &c
			break
		}
	}
	a.details.Update(other, conv, len(entries), a.sys.Session().Timezone(), a.sys.Formatter())
	a.pages.PushModal(pageDetails, a.details, 56, 14)
	a.focus(a.details)
}

func (a *App) closeModal() {
	if a.pages.Pop() == "" {
		return
	}
	if a.activeChat != 0 {
		a.focus(a.composer)
	} else {
		a.focus(a.list)
	}
}

func (a *App) toggleSidebar() {
	a.applySidebar(!a.collapsed)
	a.do(func() { a.sys.ToggleSidebar() })
}

func (a *App) applySidebar(collapsed bool) {
	a.collapsed = collapsed
	width := sidebarWidth
	if collapsed {
		width = sidebarCollapsedWidth
	}
	a.body.ResizeItem(a.sidebar, width, 0)
	a.list.SetCollapsed(collapsed)
	a.logo.Render(collapsed)
	a.statusBar.SetCollapsed(collapsed)
	if collapsed {
		a.sidebar.ResizeItem(a.prompt, 0, 0)
	} else {
		a.sidebar.ResizeItem(a.prompt, 1, 0)
	}
}

func (a *App) focus(p tview.Primitive) {
	a.app.SetFocus(p)
	a.updateHints()
}

func (a *App) updateHints() {
	var c ui.Component
	switch a.pages.Current() {
	case pageCompose:
		c = a.compose
	case pageHelp:
		c = a.help
	case pageDetails:
		c = a.details
	default:
		switch {
		case a.composer.HasFocus(), a.thread.HasFocus():
			c = a.thread
		default:
			c = a.list
		}
	}
	hints := c.Hints()
	if !a.pages.HasModal() {
		for _, b := range a.registry.Hints(a.scope()) {
			hints = append(hints, ui.MenuHint{Key: b.Label, Description: b.Hint})
		}
	}
	a.menu.Update(hints)
}

func (a *App) warn(msg string) {
	a.showFlash(a.flash.Warn(msg))
}

// do runs f on the action goroutine. Actions run one at a time in the
// order they were issued.
func (a *App) do(f func()) {
	if a.sys == nil || a.stopped.Load() {
		return
	}
	select {
	case a.actions <- f:
	default:
		a.logger.Warn("action queue full, running detached")
		go f()
	}
}

func (a *App) worker() {
	for {
		select {
		case f := <-a.actions:
			f()
		case <-a.ctx.Done():
			return
		}
	}
}

// queue schedules f on the UI goroutine and redraws.
func (a *App) queue(f func()) {
	if a.stopped.Load() {
		return
	}
	a.app.QueueUpdateDraw(f)
}

func (a *App) clock() {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			a.do(a.sys.RefreshTimes)
			a.queue(func() {
				a.statusBar.Tick()
				a.flashBar.Update(a.flash.Current())
			})
		case <-a.ctx.Done():
			return
		}
	}
}

// Run initializes the screen, loads the initial state and blocks until
// the application exits.
func (a *App) Run() error {
	if a.sys == nil {
		return errors.New("tui: no chat system bound")
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	a.screen = screen
	a.app.SetScreen(screen)

	go a.worker()
	go a.clock()
	a.do(func() { a.sys.Init(a.ctx) })

	a.focus(a.list)
	err = a.app.Run()
	a.stopped.Store(true)
	a.cancel()
	return err
}

// Stop exits the application.
func (a *App) Stop() {
	if a.stopped.Swap(true) {
		return
	}
	a.cancel()
	a.app.Stop()
}
