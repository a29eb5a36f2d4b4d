package remote

import "time"

// Identity is the authenticated user record returned by the auth
// service on login, register and profile updates.
type Identity struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	AvatarURL       string `json:"avatar_url"`
	IsAdmin         bool   `json:"is_admin"`
	IsVerified      bool   `json:"is_verified"`
	IsFriendOfAdmin bool   `json:"is_friend_of_admin"`
}

// Conversation is one row of the chat list. LastMessageTime is kept as
// the raw wire string; use ParseTimestamp when a time.Time is needed.
type Conversation struct {
	ChatID          int64  `json:"chat_id"`
	OtherUserID     int64  `json:"other_user_id"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	AvatarURL       string `json:"avatar_url"`
	LastMessage     string `json:"last_message"`
	LastMessageTime string `json:"last_message_time"`
}

// Message is a single chat message as served by the messaging service.
type Message struct {
	ID           int64  `json:"id"`
	ChatID       int64  `json:"chat_id"`
	SenderID     int64  `json:"sender_id"`
	Content      string `json:"content"`
	MessageType  string `json:"message_type"`
	FileURL      string `json:"file_url"`
	FileName     string `json:"file_name"`
	CreatedAt    string `json:"created_at"`
	SenderName   string `json:"sender_name"`
	SenderAvatar string `json:"sender_avatar"`
}

// Contact is a saved contact with the target user's profile and
// presence fields joined in.
type Contact struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"user_id"`
	CustomName       string `json:"custom_name"`
	Username         string `json:"username"`
	DisplayName      string `json:"display_name"`
	AvatarURL        string `json:"avatar_url"`
	IsVerified       bool   `json:"is_verified"`
	IsFriendOfAdmin  bool   `json:"is_friend_of_admin"`
	LastSeen         string `json:"last_seen"`
	StatusVisibility string `json:"status_visibility"`
}

// Label returns the name to show for the contact: the custom name the
// owner assigned, falling back to display name, then username.
func (c Contact) Label() string {
	if c.CustomName != "" {
		return c.CustomName
	}
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Username
}

// SearchResult is one hit from the user search service.
type SearchResult struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AvatarURL   string `json:"avatar_url"`
	IsVerified  bool   `json:"is_verified"`
	IsContact   bool   `json:"is_contact"`
}

// Name returns the display name, falling back to username.
func (r SearchResult) Name() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Username
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses a wire timestamp. The services emit both
// RFC 3339 strings and naive ISO 8601 strings without a zone; naive
// values are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
