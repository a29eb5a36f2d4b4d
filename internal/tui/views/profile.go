package views

import (
	"github.com/rivo/tview"

	"github.com/dkoval/chatik/internal/remote"
)

// ProfileView is the profile setup form shown after first login and
// when editing the profile from settings.
type ProfileView struct {
	*tview.Flex
	form     *tview.Form
	errText  *tview.TextView
	onSubmit func(first, last, display, avatarURL string)
}

func NewProfileView() *ProfileView {
	v := &ProfileView{}

	v.errText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	v.form = tview.NewForm().
		AddInputField("First name", "", 32, nil, nil).
		AddInputField("Last name", "", 32, nil, nil).
		AddInputField("Display name", "", 32, nil, nil).
		AddInputField("Avatar URL", "", 48, nil, nil)
	v.form.AddButton("Save", v.submit)
	v.form.SetBorder(true).SetTitle(" Set up your profile ")

	v.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(v.form, 15, 0, true).
		AddItem(v.errText, 1, 0, false).
		AddItem(tview.NewBox(), 0, 1, false)

	return v
}

func (v *ProfileView) SetOnSubmit(fn func(first, last, display, avatarURL string)) {
	v.onSubmit = fn
}

func (v *ProfileView) field(label string) *tview.InputField {
	return v.form.GetFormItemByLabel(label).(*tview.InputField)
}

func (v *ProfileView) submit() {
	if v.onSubmit == nil {
		return
	}
	first := v.field("First name").GetText()
	last := v.field("Last name").GetText()
	display := v.field("Display name").GetText()
	if first == "" || display == "" {
		v.ShowError("first name and display name are required")
		return
	}
	v.onSubmit(first, last, display, v.field("Avatar URL").GetText())
}

// Prefill loads the identity's current values into the form so the
// same view serves both initial setup and later edits.
func (v *ProfileView) Prefill(id *remote.Identity) {
	if id == nil {
		return
	}
	v.field("First name").SetText(id.FirstName)
	v.field("Last name").SetText(id.LastName)
	v.field("Display name").SetText(id.DisplayName)
	v.field("Avatar URL").SetText(id.AvatarURL)
	v.errText.Clear()
}

func (v *ProfileView) ShowError(msg string) {
	v.errText.Clear()
	if msg != "" {
		v.errText.SetText("[red]" + tview.Escape(msg) + "[-]")
	}
}
