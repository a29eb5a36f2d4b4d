package views

import (
	"strings"

	"github.com/rivo/tview"
)

// RegisterForm is the admin-only dialog for creating a new account.
type RegisterForm struct {
	*tview.Flex
	form     *tview.Form
	errText  *tview.TextView
	onSubmit func(username, password string, friendOfAdmin bool)
	onCancel func()
}

func NewRegisterForm() *RegisterForm {
	v := &RegisterForm{}

	v.errText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	v.form = tview.NewForm().
		AddInputField("Username", "", 32, nil, nil).
		AddPasswordField("Password", "", 32, '*', nil).
		AddCheckbox("Friend of admin", false, nil)
	v.form.AddButton("Create", v.submit)
	v.form.AddButton("Cancel", func() {
		if v.onCancel != nil {
			v.onCancel()
		}
	})
	v.form.SetBorder(true).SetTitle(" Register User ")

	v.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(v.form, 13, 0, true).
		AddItem(v.errText, 1, 0, false).
		AddItem(tview.NewBox(), 0, 1, false)

	return v
}

func (v *RegisterForm) SetOnSubmit(fn func(username, password string, friendOfAdmin bool)) {
	v.onSubmit = fn
}

func (v *RegisterForm) SetOnCancel(fn func()) {
	v.onCancel = fn
}

func (v *RegisterForm) submit() {
	if v.onSubmit == nil {
		return
	}
	username := strings.TrimSpace(v.form.GetFormItemByLabel("Username").(*tview.InputField).GetText())
	password := v.form.GetFormItemByLabel("Password").(*tview.InputField).GetText()
	if username == "" || password == "" {
		v.ShowError("username and password are required")
		return
	}
	friend := v.form.GetFormItemByLabel("Friend of admin").(*tview.Checkbox).IsChecked()
	v.onSubmit(username, password, friend)
}

func (v *RegisterForm) ShowError(msg string) {
	v.errText.Clear()
	if msg != "" {
		v.errText.SetText("[red]" + tview.Escape(msg) + "[-]")
	}
}

func (v *RegisterForm) Reset() {
	v.form.GetFormItemByLabel("Username").(*tview.InputField).SetText("")
	v.form.GetFormItemByLabel("Password").(*tview.InputField).SetText("")
	v.form.GetFormItemByLabel("Friend of admin").(*tview.Checkbox).SetChecked(false)
	v.errText.Clear()
	v.form.SetFocus(0)
}
