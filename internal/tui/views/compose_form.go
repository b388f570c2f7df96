package views

import (
	"github.com/rivo/tview"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/chat"
	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/tui/ui"
)

const placeholderRecipient = "Select a recipient..."

// ComposeForm is the new-message modal.
type ComposeForm struct {
	*tview.Flex
	theme      *ui.Theme
	form       *tview.Form
	recipient  *tview.DropDown
	subject    *tview.InputField
	priority   *tview.DropDown
	content    *tview.TextArea
	errLine    *tview.TextView
	recipients []chat.Recipient
	busy       bool
	onSubmit   func(chat.ComposeRequest)
	onCancel   func()
}

// NewComposeForm creates the compose modal.
func NewComposeForm(theme *ui.Theme) *ComposeForm {
	recipient := tview.NewDropDown().
		SetLabel("To").
		SetOptions([]string{placeholderRecipient}, nil).
		SetCurrentOption(0)
	subject := tview.NewInputField().
		SetLabel("Subject").
		SetPlaceholder(api.DefaultSubject)
	priority := tview.NewDropDown().
		SetLabel("Priority")
	for _, p := range api.Priorities {
		priority.AddOption(render.Capitalize(p), nil)
	}
	content := tview.NewTextArea().
		SetLabel("Message").
		SetSize(5, 0)

	form := tview.NewForm().
		AddFormItem(recipient).
		AddFormItem(subject).
		AddFormItem(priority).
		AddFormItem(content)
	form.SetBackgroundColor(theme.BgColor)
	form.SetFieldBackgroundColor(theme.ActiveRowBg)
	form.SetLabelColor(theme.MenuKeyColor)
	form.SetButtonBackgroundColor(theme.BorderColor)

	errLine := tview.NewTextView().SetDynamicColors(true)
	errLine.SetBackgroundColor(theme.BgColor)
	errLine.SetTextColor(theme.FlashErrColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(errLine, 1, 0, false)
	flex.SetBorder(true)
	flex.SetBorderColor(theme.BorderFocusColor)
	flex.SetTitle(" New Message ")
	flex.SetTitleColor(theme.TitleColor)
	flex.SetBackgroundColor(theme.BgColor)

	cf := &ComposeForm{
		Flex:      flex,
		theme:     theme,
		form:      form,
		recipient: recipient,
		subject:   subject,
		priority:  priority,
		content:   content,
		errLine:   errLine,
	}

	form.AddButton("Send", cf.submit)
	form.AddButton("Cancel", cf.cancel)
	form.SetCancelFunc(cf.cancel)
	cf.Reset()
	return cf
}

// Name implements ui.Component.
func (cf *ComposeForm) Name() string { return "Compose" }

// Hints implements ui.Component.
func (cf *ComposeForm) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// SetOnSubmit sets the callback for Send.
func (cf *ComposeForm) SetOnSubmit(fn func(chat.ComposeRequest)) {
	cf.onSubmit = fn
}

// SetOnCancel sets the callback for Cancel and Esc.
func (cf *ComposeForm) SetOnCancel(fn func()) {
	cf.onCancel = fn
}

// SetRecipients replaces the recipient options, keeping the current choice
// when it is still offered.
func (cf *ComposeForm) SetRecipients(list []chat.Recipient) {
	current := cf.selectedRecipient()
	cf.recipients = list
	labels := make([]string, 0, len(list)+1)
	labels = append(labels, placeholderRecipient)
	selected := 0
	for i, r := range list {
		labels = append(labels, r.Label)
		if r.UserID == current {
			selected = i + 1
		}
	}
	cf.recipient.SetOptions(labels, nil)
	cf.recipient.SetCurrentOption(selected)
}

// Reset clears the form for a new message.
func (cf *ComposeForm) Reset() {
	cf.recipient.SetCurrentOption(0)
	cf.subject.SetText("")
	cf.priority.SetCurrentOption(1)
	cf.content.SetText("", false)
	cf.errLine.SetText("")
	cf.SetBusy(false)
	cf.form.SetFocus(0)
}

// Preselect chooses userID as the recipient if offered.
func (cf *ComposeForm) Preselect(userID int64) {
	for i, r := range cf.recipients {
		if r.UserID == userID {
			cf.recipient.SetCurrentOption(i + 1)
			return
		}
	}
}

// Request returns the form contents.
func (cf *ComposeForm) Request() chat.ComposeRequest {
	req := chat.ComposeRequest{
		RecipientID: cf.selectedRecipient(),
		Subject:     cf.subject.GetText(),
		Content:     cf.content.GetText(),
		Priority:    api.PriorityNormal,
	}
	if i, _ := cf.priority.GetCurrentOption(); i >= 0 && i < len(api.Priorities) {
		req.Priority = api.Priorities[i]
	}
	return req
}

// ShowError displays msg under the form.
func (cf *ComposeForm) ShowError(msg string) {
	cf.errLine.SetText(" " + tview.Escape(msg))
}

// SetBusy marks a send in flight; Send is ignored meanwhile.
func (cf *ComposeForm) SetBusy(busy bool) {
	cf.busy = busy
	label := "Send"
	if busy {
		label = "Sending..."
	}
	if b := cf.form.GetButton(0); b != nil {
		b.SetLabel(label)
	}
}

// Busy reports whether a send is in flight.
func (cf *ComposeForm) Busy() bool {
	return cf.busy
}

func (cf *ComposeForm) selectedRecipient() int64 {
	i, _ := cf.recipient.GetCurrentOption()
	if i <= 0 || i > len(cf.recipients) {
		return 0
	}
	return cf.recipients[i-1].UserID
}

func (cf *ComposeForm) submit() {
	if cf.busy {
		return
	}
	req := cf.Request()
	if err := req.Validate(); err != nil {
		cf.ShowError(err.Error())
		return
	}
	cf.errLine.SetText("")
	if cf.onSubmit != nil {
		cf.onSubmit(req)
	}
}

func (cf *ComposeForm) cancel() {
	if cf.onCancel != nil {
		cf.onCancel()
	}
}
