package model

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dkoval/chatik/internal/remote"
	"github.com/dkoval/chatik/internal/session"
)

// typingThrottle is the minimum gap between set_typing calls while the
// user keeps typing. It stays under the server-side expiry so the flag
// never flickers for the peer.
const typingThrottle = 2 * time.Second

// ViewModel caches remote state for the views. Views read snapshots
// under the mutex; loads run on background goroutines.
type ViewModel struct {
	mu sync.RWMutex

	client   *remote.Client
	sessions *session.Manager

	Conversations []remote.Conversation
	Messages      []remote.Message
	Contacts      []remote.Contact
	SearchResults []remote.SearchResult
	ActiveChat    *remote.Conversation
	PeerTyping    bool
	Flash         Flash

	lastTypingAt time.Time
	hideStatus   bool
}

func NewViewModel(c *remote.Client, sessions *session.Manager) *ViewModel {
	return &ViewModel{client: c, sessions: sessions}
}

func (vm *ViewModel) selfID() (int64, error) {
	id := vm.sessions.Current()
	if id == nil {
		return 0, errors.New("not logged in")
	}
	return id.ID, nil
}

// Identity returns the logged-in identity, or nil.
func (vm *ViewModel) Identity() *remote.Identity {
	return vm.sessions.Current()
}

// LoadConversations refreshes the chat list.
func (vm *ViewModel) LoadConversations(ctx context.Context) error {
	self, err := vm.selfID()
	if err != nil {
		return err
	}
	chats, err := vm.client.Chat.ListConversations(ctx, self)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Conversations = chats
	vm.mu.Unlock()
	return nil
}

// OpenChat makes the conversation with the given user active, creating
// it on the server if it does not exist yet, and loads its messages.
func (vm *ViewModel) OpenChat(ctx context.Context, conv remote.Conversation) error {
	self, err := vm.selfID()
	if err != nil {
		return err
	}
	if conv.ChatID <= 0 {
		chatID, err := vm.client.Chat.CreateConversation(ctx, self, conv.OtherUserID)
		if err != nil {
			return err
		}
		conv.ChatID = chatID
	}
	vm.mu.Lock()
	vm.ActiveChat = &conv
	vm.Messages = nil
	vm.PeerTyping = false
	vm.mu.Unlock()
	return vm.LoadMessages(ctx)
}

// CloseChat deactivates the current conversation.
func (vm *ViewModel) CloseChat() {
	vm.mu.Lock()
	vm.ActiveChat = nil
	vm.Messages = nil
	vm.PeerTyping = false
	vm.mu.Unlock()
}

// LoadMessages refreshes the active conversation's messages.
func (vm *ViewModel) LoadMessages(ctx context.Context) error {
	vm.mu.RLock()
	active := vm.ActiveChat
	vm.mu.RUnlock()
	if active == nil {
		return nil
	}
	msgs, err := vm.client.Chat.ListMessages(ctx, active.ChatID)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	// The chat may have been closed or switched while loading.
	if vm.ActiveChat != nil && vm.ActiveChat.ChatID == active.ChatID {
		vm.Messages = msgs
	}
	vm.mu.Unlock()
	return nil
}

// LoadTyping refreshes the peer's typing flag for the active chat.
func (vm *ViewModel) LoadTyping(ctx context.Context) error {
	self, err := vm.selfID()
	if err != nil {
		return err
	}
	vm.mu.RLock()
	active := vm.ActiveChat
	vm.mu.RUnlock()
	if active == nil {
		return nil
	}
	typing, err := vm.client.Chat.IsTyping(ctx, active.ChatID, self)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	if vm.ActiveChat != nil && vm.ActiveChat.ChatID == active.ChatID {
		vm.PeerTyping = typing
	}
	vm.mu.Unlock()
	return nil
}

// Send posts a message to the active chat and refetches the thread so
// the sender sees it without waiting for the next poll.
func (vm *ViewModel) Send(ctx context.Context, text string) error {
	self, err := vm.selfID()
	if err != nil {
		return err
	}
	vm.mu.RLock()
	active := vm.ActiveChat
	vm.mu.RUnlock()
	if active == nil {
		return errors.New("no active conversation")
	}
	if _, err := vm.client.Chat.SendMessage(ctx, active.ChatID, self, text, "text"); err != nil {
		return err
	}
	return vm.LoadMessages(ctx)
}

// NotifyTyping tells the server the user is typing, throttled so rapid
// keystrokes produce one call per couple of seconds.
func (vm *ViewModel) NotifyTyping(ctx context.Context) error {
	self, err := vm.selfID()
	if err != nil {
		return err
	}
	vm.mu.Lock()
	active := vm.ActiveChat
	if active == nil || time.Since(vm.lastTypingAt) < typingThrottle {
		vm.mu.Unlock()
		return nil
	}
	vm.lastTypingAt = time.Now()
	chatID := active.ChatID
	vm.mu.Unlock()
	return vm.client.Chat.SetTyping(ctx, chatID, self)
}

// LoadContacts refreshes the contact list.
func (vm *ViewModel) LoadContacts(ctx context.Context) error {
	self, err := vm.selfID()
	if err != nil {
		return err
	}
	contacts, err := vm.client.Directory.ListContacts(ctx, self)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Contacts = contacts
	vm.mu.Unlock()
	return nil
}

// AddContactByUsername saves a contact by exact username and reloads
// the contact list.
func (vm *ViewModel) AddContactByUsername(ctx context.Context, username, customName string) error {
	self, err := vm.selfID()
	if err != nil {
		return err
	}
	if err := vm.client.Directory.AddContactByUsername(ctx, self, username, customName); err != nil {
		return err
	}
	return vm.LoadContacts(ctx)
}

// Search runs a user search and caches the results.
func (vm *ViewModel) Search(ctx context.Context, query string) error {
	self, err := vm.selfID()
	if err != nil {
		return err
	}
	results, err := vm.client.Directory.SearchUsers(ctx, query, self)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.SearchResults = results
	vm.mu.Unlock()
	return nil
}

// AddContactFromSearch saves a search result as a contact.
func (vm *ViewModel) AddContactFromSearch(ctx context.Context, targetUserID int64) error {
	self, err := vm.selfID()
	if err != nil {
		return err
	}
	return vm.client.Directory.AddContact(ctx, self, targetUserID)
}

func (vm *ViewModel) GetConversations() []remote.Conversation {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Conversations
}

func (vm *ViewModel) GetMessages() []remote.Message {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Messages
}

func (vm *ViewModel) GetContacts() []remote.Contact {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Contacts
}

func (vm *ViewModel) GetSearchResults() []remote.SearchResult {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.SearchResults
}

func (vm *ViewModel) GetActiveChat() *remote.Conversation {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.ActiveChat
}

func (vm *ViewModel) GetPeerTyping() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.PeerTyping
}

// HideStatus reports whether the user opted out of sharing presence.
func (vm *ViewModel) HideStatus() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.hideStatus
}

func (vm *ViewModel) SetHideStatus(hide bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.hideStatus = hide
}

// ToggleHideStatus flips the preference and returns the new value.
func (vm *ViewModel) ToggleHideStatus() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.hideStatus = !vm.hideStatus
	return vm.hideStatus
}
