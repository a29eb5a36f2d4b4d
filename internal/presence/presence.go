// Package presence maps a contact's last-seen time and visibility setting
// into the coarse status label shown next to their name.
package presence

import "time"

// Visibility values carried on the contact record.
const (
	VisibilityEveryone = "everyone"
	VisibilityHidden   = "hidden"
)

// Status labels.
const (
	LabelOnline   = "online"
	LabelRecently = "recently"
	LabelOffline  = "offline"
	LabelDayAgo   = "last seen 1 day ago"
)

// Label computes the status label for a contact.
//
// Hidden visibility always reports the vague "recently" label, whatever the
// actual recency. Beyond the 24 hour threshold the label is a constant
// "1 day ago" regardless of how many days have really passed; that literal
// behavior is what the backend's clients have always shown, so it is kept
// as the contract here.
func Label(lastSeen *time.Time, visibility string, now time.Time) string {
	if visibility == VisibilityHidden {
		return LabelRecently
	}
	if lastSeen == nil {
		return LabelOffline
	}

	elapsed := now.Sub(*lastSeen)
	switch {
	case elapsed < time.Minute:
		return LabelOnline
	case elapsed < 24*time.Hour:
		return LabelRecently
	default:
		return LabelDayAgo
	}
}
