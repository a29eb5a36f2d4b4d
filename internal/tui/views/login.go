package views

import (
	"github.com/rivo/tview"
)

// LoginView is the username/password form shown while logged out.
type LoginView struct {
	*tview.Flex
	form     *tview.Form
	errText  *tview.TextView
	onSubmit func(username, password string)
}

func NewLoginView() *LoginView {
	v := &LoginView{}

	v.errText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	v.form = tview.NewForm().
		AddInputField("Username", "", 32, nil, nil).
		AddPasswordField("Password", "", 32, '*', nil)
	v.form.AddButton("Sign in", v.submit)
	v.form.SetBorder(true).SetTitle(" chatik ")

	v.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(v.form, 11, 0, true).
		AddItem(v.errText, 1, 0, false).
		AddItem(tview.NewBox(), 0, 1, false)

	return v
}

// SetOnSubmit sets the callback fired with the entered credentials.
func (v *LoginView) SetOnSubmit(fn func(username, password string)) {
	v.onSubmit = fn
}

func (v *LoginView) submit() {
	if v.onSubmit == nil {
		return
	}
	username := v.form.GetFormItemByLabel("Username").(*tview.InputField).GetText()
	password := v.form.GetFormItemByLabel("Password").(*tview.InputField).GetText()
	v.onSubmit(username, password)
}

// ShowError renders an inline error under the form. The password field
// is cleared, matching what a failed sign-in should do.
func (v *LoginView) ShowError(msg string) {
	v.errText.Clear()
	if msg != "" {
		v.errText.SetText("[red]" + tview.Escape(msg) + "[-]")
	}
	v.form.GetFormItemByLabel("Password").(*tview.InputField).SetText("")
}

// Reset clears both fields and any error.
func (v *LoginView) Reset() {
	v.form.GetFormItemByLabel("Username").(*tview.InputField).SetText("")
	v.form.GetFormItemByLabel("Password").(*tview.InputField).SetText("")
	v.errText.Clear()
	v.form.SetFocus(0)
}
