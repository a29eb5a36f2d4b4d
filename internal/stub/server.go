// Package stub is an in-memory implementation of the three remote
// services, used for local development and integration tests. It
// mirrors the production wire contract: action-verb JSON bodies,
// success/error envelopes, and the same field names.
package stub

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dkoval/chatik/internal/remote"
)

// typingWindow is how long a set_typing call keeps the flag alive.
const typingWindow = 3 * time.Second

// wireTime mimics the naive ISO 8601 timestamps the services emit.
const wireTime = "2006-01-02T15:04:05.000000"

// VisibilityHidden matches the value users set to hide their presence.
const (
	VisibilityEveryone = "everyone"
	VisibilityHidden   = "hidden"
)

type user struct {
	id               int64
	username         string
	passwordHash     string
	displayName      string
	firstName        string
	lastName         string
	avatarURL        string
	isAdmin          bool
	isVerified       bool
	isFriendOfAdmin  bool
	lastSeen         time.Time
	statusVisibility string
}

type chat struct {
	id    int64
	user1 int64
	user2 int64
}

type message struct {
	id          int64
	chatID      int64
	senderID    int64
	content     string
	messageType string
	fileURL     string
	fileName    string
	createdAt   time.Time
}

type contact struct {
	id         int64
	targetID   int64
	customName string
	addedAt    time.Time
}

// Server holds the in-memory state behind the stub services.
type Server struct {
	logger *zap.Logger

	mu       sync.Mutex
	users    map[int64]*user
	chats    []*chat
	messages []*message
	contacts map[int64][]*contact // owner id -> entries
	typing   map[int64]map[int64]time.Time

	nextUserID    int64
	nextChatID    int64
	nextMessageID int64
	nextContactID int64

	// now is swappable so tests can control the typing window and
	// presence timestamps.
	now func() time.Time
}

func New(logger *zap.Logger) *Server {
	return &Server{
		logger:        logger,
		users:         make(map[int64]*user),
		contacts:      make(map[int64][]*contact),
		typing:        make(map[int64]map[int64]time.Time),
		nextUserID:    1,
		nextChatID:    1,
		nextMessageID: 1,
		nextContactID: 1,
		now:           time.Now,
	}
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// SeedOptions tweak a seeded user beyond the defaults.
type SeedOptions struct {
	DisplayName      string
	FirstName        string
	LastName         string
	IsAdmin          bool
	IsVerified       bool
	IsFriendOfAdmin  bool
	LastSeen         time.Time
	StatusVisibility string
}

// SeedUser creates a user directly in the store and returns its id.
func (s *Server) SeedUser(username, password string, opts SeedOptions) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &user{
		id:               s.nextUserID,
		username:         username,
		passwordHash:     hashPassword(password),
		displayName:      opts.DisplayName,
		firstName:        opts.FirstName,
		lastName:         opts.LastName,
		isAdmin:          opts.IsAdmin,
		isVerified:       opts.IsVerified,
		isFriendOfAdmin:  opts.IsFriendOfAdmin,
		lastSeen:         opts.LastSeen,
		statusVisibility: opts.StatusVisibility,
	}
	if u.statusVisibility == "" {
		u.statusVisibility = VisibilityEveryone
	}
	s.nextUserID++
	s.users[u.id] = u
	return u.id
}

// SetNow replaces the clock. Tests only.
func (s *Server) SetNow(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Server) identityFor(u *user) remote.Identity {
	return remote.Identity{
		ID:              u.id,
		Username:        u.username,
		DisplayName:     u.displayName,
		FirstName:       u.firstName,
		LastName:        u.lastName,
		AvatarURL:       u.avatarURL,
		IsAdmin:         u.isAdmin,
		IsVerified:      u.isVerified,
		IsFriendOfAdmin: u.isFriendOfAdmin,
	}
}

func (s *Server) userByName(username string) *user {
	for _, u := range s.users {
		if u.username == username {
			return u
		}
	}
	return nil
}

func (s *Server) chatBetween(a, b int64) *chat {
	for _, c := range s.chats {
		if (c.user1 == a && c.user2 == b) || (c.user1 == b && c.user2 == a) {
			return c
		}
	}
	return nil
}

func (s *Server) hasContact(owner, target int64) bool {
	for _, c := range s.contacts[owner] {
		if c.targetID == target {
			return true
		}
	}
	return false
}

func (s *Server) messageView(m *message) remote.Message {
	view := remote.Message{
		ID:          m.id,
		ChatID:      m.chatID,
		SenderID:    m.senderID,
		Content:     m.content,
		MessageType: m.messageType,
		FileURL:     m.fileURL,
		FileName:    m.fileName,
		CreatedAt:   m.createdAt.UTC().Format(wireTime),
	}
	if sender, ok := s.users[m.senderID]; ok {
		view.SenderName = sender.displayName
		if view.SenderName == "" {
			view.SenderName = sender.username
		}
		view.SenderAvatar = sender.avatarURL
	}
	return view
}

// chatsFor builds the chat list for a user, newest activity first.
func (s *Server) chatsFor(userID int64) []remote.Conversation {
	type row struct {
		conv remote.Conversation
		last time.Time
	}
	var rows []row
	for _, c := range s.chats {
		if c.user1 != userID && c.user2 != userID {
			continue
		}
		otherID := c.user1
		if otherID == userID {
			otherID = c.user2
		}
		conv := remote.Conversation{ChatID: c.id, OtherUserID: otherID}
		if other, ok := s.users[otherID]; ok {
			conv.Username = other.username
			conv.DisplayName = other.displayName
			conv.AvatarURL = other.avatarURL
		}
		var last time.Time
		for _, m := range s.messages {
			if m.chatID == c.id && m.createdAt.After(last) {
				last = m.createdAt
				conv.LastMessage = m.content
				conv.LastMessageTime = m.createdAt.UTC().Format(wireTime)
			}
		}
		rows = append(rows, row{conv: conv, last: last})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].last.After(rows[j].last) })
	out := make([]remote.Conversation, len(rows))
	for i, r := range rows {
		out[i] = r.conv
	}
	return out
}

func (s *Server) contactsFor(userID int64) []remote.Contact {
	entries := s.contacts[userID]
	out := make([]remote.Contact, 0, len(entries))
	for _, e := range entries {
		view := remote.Contact{
			ID:         e.id,
			UserID:     e.targetID,
			CustomName: e.customName,
		}
		if target, ok := s.users[e.targetID]; ok {
			view.Username = target.username
			view.DisplayName = target.displayName
			view.AvatarURL = target.avatarURL
			view.IsVerified = target.isVerified
			view.IsFriendOfAdmin = target.isFriendOfAdmin
			view.StatusVisibility = target.statusVisibility
			if !target.lastSeen.IsZero() {
				view.LastSeen = target.lastSeen.UTC().Format(wireTime)
			}
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label() < out[j].Label() })
	return out
}

func (s *Server) searchUsers(query string, userID int64) []remote.SearchResult {
	query = strings.ToLower(query)
	var out []remote.SearchResult
	for _, u := range s.users {
		if u.id == userID {
			continue
		}
		haystack := strings.ToLower(u.username + " " + u.displayName + " " + u.firstName + " " + u.lastName)
		if !strings.Contains(haystack, query) {
			continue
		}
		out = append(out, remote.SearchResult{
			UserID:      u.id,
			Username:    u.username,
			DisplayName: u.displayName,
			FirstName:   u.firstName,
			LastName:    u.lastName,
			AvatarURL:   u.avatarURL,
			IsVerified:  u.isVerified,
			IsContact:   s.hasContact(userID, u.id),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}
