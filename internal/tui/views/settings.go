package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/dkoval/chatik/internal/remote"
)

// SettingsView shows the profile summary and account actions.
type SettingsView struct {
	*tview.Flex
	summary *tview.TextView
	actions *tview.List

	onEditProfile func()
	onToggleHide  func()
	onRegister    func()
	onLogout      func()
}

func NewSettingsView() *SettingsView {
	v := &SettingsView{}

	v.summary = tview.NewTextView().SetDynamicColors(true)
	v.summary.SetBorder(true).SetTitle(" Profile ")

	v.actions = tview.NewList().ShowSecondaryText(false)
	v.actions.SetBorder(true).SetTitle(" Settings ")

	v.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.summary, 8, 0, false).
		AddItem(v.actions, 0, 1, true)

	return v
}

func (v *SettingsView) SetCallbacks(editProfile, toggleHide, register, logout func()) {
	v.onEditProfile = editProfile
	v.onToggleHide = toggleHide
	v.onRegister = register
	v.onLogout = logout
}

// Update redraws the summary and action list for the identity and the
// current hide-status preference.
func (v *SettingsView) Update(id *remote.Identity, hideStatus bool) {
	v.summary.Clear()
	if id != nil {
		badges := ""
		if id.IsVerified {
			badges += " ✓"
		}
		if id.IsAdmin {
			badges += " [admin]"
		}
		fmt.Fprintf(v.summary, " [::b]%s[-:-:-]%s\n @%s\n %s %s\n",
			tview.Escape(id.DisplayName), badges,
			tview.Escape(id.Username),
			tview.Escape(id.FirstName), tview.Escape(id.LastName))
	}

	v.actions.Clear()
	v.actions.AddItem("Edit profile", "", 'e', v.onEditProfile)

	hideLabel := "Hide online status: off"
	if hideStatus {
		hideLabel = "Hide online status: on"
	}
	v.actions.AddItem(hideLabel, "", 'h', v.onToggleHide)

	if id != nil && id.IsAdmin {
		v.actions.AddItem("Register a new user", "", 'n', v.onRegister)
	}
	v.actions.AddItem("Log out", "", 'l', v.onLogout)
}
