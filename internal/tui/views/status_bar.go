package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// StatusBar is the one-line footer with the logged-in user, the
// current screen's key hints and transient flash messages.
type StatusBar struct {
	*tview.TextView
	user  string
	hints string
	flash string
	isErr bool
}

func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)
	return &StatusBar{TextView: tv}
}

// SetUser updates the logged-in user display.
func (sb *StatusBar) SetUser(name string) {
	sb.user = name
	sb.render()
}

// SetHints updates the key hint section.
func (sb *StatusBar) SetHints(hints string) {
	sb.hints = hints
	sb.render()
}

// SetFlash sets the transient message section.
func (sb *StatusBar) SetFlash(msg string, isErr bool) {
	sb.flash = msg
	sb.isErr = isErr
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	user := sb.user
	if user == "" {
		user = "not logged in"
	}
	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s", user, sb.hints, time.Now().Format("15:04"))
	if sb.flash != "" {
		color := "yellow"
		if sb.isErr {
			color = "red"
		}
		line += fmt.Sprintf(" | [%s]%s[-]", color, sb.flash)
	}
	_, _ = fmt.Fprint(sb, line)
}
