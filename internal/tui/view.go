package tui

import (
	"time"

	"github.com/matheus3301/mchat/internal/chat"
	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/status"
	"github.com/matheus3301/mchat/internal/tui/ui"
)

// PatchStatus implements status.Indicator.
func (a *App) PatchStatus(key string, s status.Status) {
	a.queue(func() { a.thread.PatchStatus(key, s) })
}

// Rekey implements status.Indicator.
func (a *App) Rekey(oldKey, newKey string) {
	a.queue(func() { a.thread.Rekey(oldKey, newKey) })
}

func (a *App) RenderConversations(rows []render.ConversationRow) {
	a.queue(func() { a.list.Update(rows) })
}

func (a *App) HideLoading() {
	a.queue(a.list.HideLoading)
}

func (a *App) ShowEmptyState() {
	a.queue(a.list.SetEmpty)
}

func (a *App) ShowChatItems() {
	a.queue(a.list.ShowItems)
}

func (a *App) SelectConversation(userID int64) {
	a.queue(func() {
		a.activeChat = userID
		a.list.SetActive(userID)
	})
}

func (a *App) ShowChatView() {
	a.queue(func() {
		a.chatPages.SwitchToPage(chatOpen)
		if !a.pages.HasModal() {
			a.focus(a.composer)
		}
	})
}

func (a *App) ShowWelcome() {
	a.queue(func() {
		a.chatPages.SwitchToPage(chatWelcome)
		a.thread.Reset()
		a.typing.Hide()
		a.composer.Reset()
		if !a.pages.HasModal() {
			a.focus(a.list)
		}
	})
}

func (a *App) RenderHeader(h render.Header) {
	a.queue(func() { a.header.Update(h) })
}

func (a *App) RenderMessages(bubbles []render.Bubble) {
	a.queue(func() { a.thread.Update(bubbles) })
}

func (a *App) AppendMessage(b render.Bubble) {
	a.queue(func() { a.thread.Append(b) })
}

func (a *App) EnableInput() {
	a.queue(func() { a.composer.SetEnabled(true) })
}

func (a *App) DisableInput() {
	a.queue(func() { a.composer.SetEnabled(false) })
}

func (a *App) ClearInput() {
	a.queue(a.composer.Reset)
}

func (a *App) SetSendEnabled(enabled bool) {
	a.queue(func() { a.composer.SetSendReady(enabled) })
}

func (a *App) ShowTyping(userName string) {
	a.queue(func() { a.typing.Show(userName) })
}

func (a *App) HideTyping() {
	a.queue(a.typing.Hide)
}

func (a *App) ShowToast(t chat.Toast) {
	a.queue(func() {
		a.showFlash(a.flash.Toast(t.Title, t.Body, t.SenderID))
	})
}

func (a *App) PlayNotification() {
	a.queue(func() {
		if a.screen != nil {
			_ = a.screen.Beep()
		}
	})
}

func (a *App) SetUnreadCount(n int) {
	a.queue(func() { a.statusBar.SetUnread(n) })
}

func (a *App) SetRecipients(options []chat.Recipient) {
	a.queue(func() { a.compose.SetRecipients(options) })
}

func (a *App) SetConnectionState(state string) {
	a.queue(func() { a.statusBar.SetConnection(state) })
}

func (a *App) SetTimezone(name string) {
	loc, _ := time.LoadLocation(name)
	a.queue(func() { a.statusBar.SetZone(name, loc) })
}

// showFlash displays m and clears it once it expires, unless a newer
// message replaced it. UI goroutine only.
func (a *App) showFlash(m ui.FlashMessage) {
	a.flashBar.Update(&m)
	time.AfterFunc(time.Until(m.Expires), func() {
		a.queue(func() {
			if a.flash.Dismiss(m.Seq) {
				a.flashBar.Update(nil)
			}
		})
	})
}
