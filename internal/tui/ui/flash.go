package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// ToastDuration is how long a new-message toast stays up.
const ToastDuration = 4 * time.Second

// FlashLevel represents the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
	FlashToast
)

// FlashMessage is a transient line on the status area. Toasts carry the
// sender so the user can jump to the conversation.
type FlashMessage struct {
	Text     string
	Level    FlashLevel
	SenderID int64
	Expires  time.Time
	Seq      uint64
}

// FlashModel holds the current flash message.
type FlashModel struct {
	mu      sync.RWMutex
	current FlashMessage
	seq     uint64
	now     func() time.Time
}

// NewFlashModel creates a new flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{now: time.Now}
}

// Info sets an info-level flash message.
func (f *FlashModel) Info(msg string) FlashMessage {
	return f.set(FlashMessage{Text: msg, Level: FlashInfo}, 5*time.Second)
}

// Warn sets a warn-level flash message.
func (f *FlashModel) Warn(msg string) FlashMessage {
	return f.set(FlashMessage{Text: msg, Level: FlashWarn}, 8*time.Second)
}

// Err sets an error-level flash message.
func (f *FlashModel) Err(err error) FlashMessage {
	return f.set(FlashMessage{Text: err.Error(), Level: FlashErr}, 10*time.Second)
}

// Toast shows a new-message notification from senderID.
func (f *FlashModel) Toast(title, body string, senderID int64) FlashMessage {
	text := title
	if body != "" {
		text += ": " + body
	}
	return f.set(FlashMessage{Text: text, Level: FlashToast, SenderID: senderID}, ToastDuration)
}

func (f *FlashModel) set(fm FlashMessage, d time.Duration) FlashMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	fm.Seq = f.seq
	fm.Expires = f.now().Add(d)
	f.current = fm
	return fm
}

// Dismiss clears the message if it is still the one numbered seq.
func (f *FlashModel) Dismiss(seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current.Seq != seq {
		return false
	}
	f.current = FlashMessage{}
	return true
}

// Current returns the live message, or nil if none or expired.
func (f *FlashModel) Current() *FlashMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current.Text == "" || !f.now().Before(f.current.Expires) {
		return nil
	}
	m := f.current
	return &m
}

// ToastSender returns the sender of the live toast, if any.
func (f *FlashModel) ToastSender() (int64, bool) {
	m := f.Current()
	if m == nil || m.Level != FlashToast || m.SenderID == 0 {
		return 0, false
	}
	return m.SenderID, true
}

// FlashBar is the UI component that displays flash messages.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates a new flash bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &FlashBar{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders msg, or clears the bar when msg is nil.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil {
		return
	}

	var color string
	switch msg.Level {
	case FlashInfo:
		color = ColorName(fb.theme.FlashInfoColor)
	case FlashWarn:
		color = ColorName(fb.theme.FlashWarnColor)
	case FlashErr:
		color = ColorName(fb.theme.FlashErrColor)
	case FlashToast:
		color = ColorName(fb.theme.ToastColor)
	}
	text := tview.Escape(msg.Text)
	if msg.Level == FlashToast {
		text = "✉ " + text + "  [::d](o to open)[::-]"
	}
	_, _ = fmt.Fprintf(fb, " [%s]%s[-]", color, text)
}
