package views

import (
	"time"

	"github.com/rivo/tview"

	"github.com/dkoval/chatik/internal/remote"
)

// ConversationList is the chat list table on the main screen.
type ConversationList struct {
	*tview.Table
	chats []remote.Conversation
}

func NewConversationList() *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Chats ")
	return &ConversationList{Table: table}
}

// Update redraws the table from a fresh snapshot.
func (cl *ConversationList) Update(chats []remote.Conversation) {
	row, _ := cl.GetSelection()
	cl.chats = chats
	cl.Clear()

	cl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" Last Message").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 2, tview.NewTableCell(" Time").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	now := time.Now()
	for i, chat := range chats {
		name := chat.DisplayName
		if name == "" {
			name = chat.Username
		}
		cl.SetCell(i+1, 0, tview.NewTableCell(" "+tview.Escape(name)).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(i+1, 1, tview.NewTableCell(" "+tview.Escape(preview(chat.LastMessage))).SetMaxWidth(40).SetExpansion(2))
		cl.SetCell(i+1, 2, tview.NewTableCell(" "+formatWireTime(chat.LastMessageTime, now)).SetMaxWidth(12))
	}

	// Keep the cursor where it was across polls.
	if row > 0 && row <= len(chats) {
		cl.Select(row, 0)
	} else if len(chats) > 0 {
		cl.Select(1, 0)
	}
}

// Selected returns the conversation under the cursor.
func (cl *ConversationList) Selected() (remote.Conversation, bool) {
	row, _ := cl.GetSelection()
	idx := row - 1 // header row
	if idx < 0 || idx >= len(cl.chats) {
		return remote.Conversation{}, false
	}
	return cl.chats[idx], true
}

func preview(s string) string {
	const max = 60
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max-1]) + "…"
	}
	return s
}
