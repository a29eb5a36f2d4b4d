package views

import (
	"strings"

	"github.com/rivo/tview"
)

// ContactForm is the add-contact dialog: exact username plus an
// optional custom label.
type ContactForm struct {
	*tview.Flex
	form     *tview.Form
	errText  *tview.TextView
	onSubmit func(username, customName string)
	onCancel func()
}

func NewContactForm() *ContactForm {
	v := &ContactForm{}

	v.errText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	v.form = tview.NewForm().
		AddInputField("Username", "", 32, nil, nil).
		AddInputField("Custom name (optional)", "", 32, nil, nil)
	v.form.AddButton("Add", v.submit)
	v.form.AddButton("Cancel", func() {
		if v.onCancel != nil {
			v.onCancel()
		}
	})
	v.form.SetBorder(true).SetTitle(" Add Contact ")

	v.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(v.form, 11, 0, true).
		AddItem(v.errText, 1, 0, false).
		AddItem(tview.NewBox(), 0, 1, false)

	return v
}

func (v *ContactForm) SetOnSubmit(fn func(username, customName string)) {
	v.onSubmit = fn
}

func (v *ContactForm) SetOnCancel(fn func()) {
	v.onCancel = fn
}

func (v *ContactForm) submit() {
	if v.onSubmit == nil {
		return
	}
	username := strings.TrimSpace(v.form.GetFormItemByLabel("Username").(*tview.InputField).GetText())
	if username == "" {
		v.ShowError("username is required")
		return
	}
	custom := strings.TrimSpace(v.form.GetFormItemByLabel("Custom name (optional)").(*tview.InputField).GetText())
	v.onSubmit(username, custom)
}

func (v *ContactForm) ShowError(msg string) {
	v.errText.Clear()
	if msg != "" {
		v.errText.SetText("[red]" + tview.Escape(msg) + "[-]")
	}
}

func (v *ContactForm) Reset() {
	v.form.GetFormItemByLabel("Username").(*tview.InputField).SetText("")
	v.form.GetFormItemByLabel("Custom name (optional)").(*tview.InputField).SetText("")
	v.errText.Clear()
	v.form.SetFocus(0)
}
