package views

import (
	"fmt"
	"time"

	"github.com/dkoval/chatik/internal/remote"
)

// formatWireTime renders a wire timestamp for list rows: "just now"
// and "Nm ago" for fresh activity, clock time for today, date
// otherwise. Wire timestamps are UTC; the same-day check and the
// rendered clock use now's zone. Unparseable values render empty.
func formatWireTime(raw string, now time.Time) string {
	t, ok := remote.ParseTimestamp(raw)
	if !ok {
		return ""
	}
	t = t.In(now.Location())
	age := now.Sub(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case t.Year() == now.Year() && t.YearDay() == now.YearDay():
		return t.Format("15:04")
	default:
		return t.Format("01/02")
	}
}

// formatMessageTime renders a message timestamp inside the thread, in
// the user's local zone.
func formatMessageTime(raw string) string {
	t, ok := remote.ParseTimestamp(raw)
	if !ok {
		return ""
	}
	return t.Local().Format("15:04")
}
