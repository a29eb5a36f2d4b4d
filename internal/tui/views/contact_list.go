package views

import (
	"time"

	"github.com/rivo/tview"

	"github.com/dkoval/chatik/internal/presence"
	"github.com/dkoval/chatik/internal/remote"
)

// ContactList is the contacts table with presence labels and badges.
type ContactList struct {
	*tview.Table
	contacts []remote.Contact
}

func NewContactList() *ContactList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Contacts ")
	return &ContactList{Table: table}
}

func (cl *ContactList) Update(contacts []remote.Contact) {
	row, _ := cl.GetSelection()
	cl.contacts = contacts
	cl.Clear()

	cl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" Username").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 2, tview.NewTableCell(" Status").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	now := time.Now()
	for i, contact := range contacts {
		name := contact.Label()
		if contact.IsVerified {
			name += " ✓"
		}
		if contact.IsFriendOfAdmin {
			name += " ★"
		}
		cl.SetCell(i+1, 0, tview.NewTableCell(" "+tview.Escape(name)).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(i+1, 1, tview.NewTableCell(" @"+tview.Escape(contact.Username)).SetMaxWidth(20).SetExpansion(1))
		cl.SetCell(i+1, 2, tview.NewTableCell(" "+presenceLabel(contact, now)).SetMaxWidth(24))
	}

	if row > 0 && row <= len(contacts) {
		cl.Select(row, 0)
	} else if len(contacts) > 0 {
		cl.Select(1, 0)
	}
}

// Selected returns the contact under the cursor.
func (cl *ContactList) Selected() (remote.Contact, bool) {
	row, _ := cl.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(cl.contacts) {
		return remote.Contact{}, false
	}
	return cl.contacts[idx], true
}

func presenceLabel(contact remote.Contact, now time.Time) string {
	var lastSeen *time.Time
	if t, ok := remote.ParseTimestamp(contact.LastSeen); ok {
		lastSeen = &t
	}
	return presence.Label(lastSeen, contact.StatusVisibility, now)
}
