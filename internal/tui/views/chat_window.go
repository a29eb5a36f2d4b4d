package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/dkoval/chatik/internal/remote"
)

// ChatWindow is the open-conversation screen: the message thread, a
// one-line typing indicator and the composer.
type ChatWindow struct {
	*tview.Flex
	thread    *tview.TextView
	typingBar *tview.TextView
	Composer  *tview.InputField

	onSend   func(text string)
	onTyping func()
	peerName string
}

func NewChatWindow() *ChatWindow {
	w := &ChatWindow{}

	w.thread = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	w.thread.SetBorder(true)

	w.typingBar = tview.NewTextView().SetDynamicColors(true)

	w.Composer = tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	w.Composer.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter || w.onSend == nil {
			return
		}
		text := w.Composer.GetText()
		if text == "" {
			return
		}
		w.onSend(text)
		w.Composer.SetText("")
	})
	w.Composer.SetChangedFunc(func(string) {
		if w.onTyping != nil {
			w.onTyping()
		}
	})

	w.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(w.thread, 0, 1, false).
		AddItem(w.typingBar, 1, 0, false).
		AddItem(w.Composer, 1, 0, true)

	return w
}

// SetOnSend sets the callback fired when the user submits a message.
func (w *ChatWindow) SetOnSend(fn func(text string)) {
	w.onSend = fn
}

// SetOnTyping sets the callback fired on every composer keystroke.
func (w *ChatWindow) SetOnTyping(fn func()) {
	w.onTyping = fn
}

// SetPeer sets the conversation title.
func (w *ChatWindow) SetPeer(name string) {
	w.peerName = name
	w.thread.SetTitle(fmt.Sprintf(" %s ", tview.Escape(name)))
}

// Update redraws the thread. Own messages are right-tagged with "you".
func (w *ChatWindow) Update(msgs []remote.Message, selfID int64) {
	w.thread.Clear()
	for _, m := range msgs {
		sender := m.SenderName
		color := "aqua"
		if m.SenderID == selfID {
			sender = "you"
			color = "lime"
		}
		ts := formatMessageTime(m.CreatedAt)
		fmt.Fprintf(w.thread, "[%s]%s[-] [gray]%s[-]\n%s\n\n",
			color, tview.Escape(sender), ts, tview.Escape(m.Content))
		if m.MessageType != "" && m.MessageType != "text" && m.FileName != "" {
			fmt.Fprintf(w.thread, "[gray]attachment: %s[-]\n\n", tview.Escape(m.FileName))
		}
	}
	w.thread.ScrollToEnd()
}

// SetTyping toggles the typing indicator line.
func (w *ChatWindow) SetTyping(typing bool) {
	w.typingBar.Clear()
	if typing {
		fmt.Fprintf(w.typingBar, " [gray]%s is typing…[-]", tview.Escape(w.peerName))
	}
}

// Reset clears the window for a new conversation.
func (w *ChatWindow) Reset() {
	w.thread.Clear()
	w.typingBar.Clear()
	w.Composer.SetText("")
}
