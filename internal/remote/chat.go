package remote

import (
	"context"
	"net/url"
	"strconv"
)

// ChatClient talks to the messaging service: conversations, messages
// and typing state.
//
// Chat id 0 is the "not yet created" placeholder used while a
// conversation is being opened for the first time. Every method that
// takes a chat id treats id <= 0 as a no-op and never touches the
// network for it.
type ChatClient struct {
	svc *service
}

// CreateConversation opens a direct conversation between two users and
// returns its id. The service is idempotent: calling it again for the
// same pair returns the existing id.
func (c *ChatClient) CreateConversation(ctx context.Context, userA, userB int64) (int64, error) {
	var resp struct {
		envelope
		ChatID int64 `json:"chat_id"`
	}
	body := map[string]any{
		"action":   "create_chat",
		"user1_id": userA,
		"user2_id": userB,
	}
	if err := c.svc.postJSON(ctx, body, &resp); err != nil {
		return 0, err
	}
	return resp.ChatID, nil
}

// ListConversations returns the user's chat list, most recent first.
func (c *ChatClient) ListConversations(ctx context.Context, userID int64) ([]Conversation, error) {
	var resp struct {
		envelope
		Chats []Conversation `json:"chats"`
	}
	q := url.Values{
		"action":  {"get_chats"},
		"user_id": {strconv.FormatInt(userID, 10)},
	}
	if err := c.svc.getJSON(ctx, q, &resp); err != nil {
		return nil, err
	}
	return resp.Chats, nil
}

// ListMessages returns the messages of a conversation in send order.
func (c *ChatClient) ListMessages(ctx context.Context, chatID int64) ([]Message, error) {
	if chatID <= 0 {
		return nil, nil
	}
	var resp struct {
		envelope
		Messages []Message `json:"messages"`
	}
	q := url.Values{
		"action":  {"get_messages"},
		"chat_id": {strconv.FormatInt(chatID, 10)},
	}
	if err := c.svc.getJSON(ctx, q, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// SendMessage posts a message and returns the stored record.
func (c *ChatClient) SendMessage(ctx context.Context, chatID, senderID int64, content, messageType string) (*Message, error) {
	if chatID <= 0 {
		return nil, nil
	}
	if messageType == "" {
		messageType = "text"
	}
	var resp struct {
		envelope
		Message Message `json:"message"`
	}
	body := map[string]any{
		"action":       "send_message",
		"chat_id":      chatID,
		"sender_id":    senderID,
		"content":      content,
		"message_type": messageType,
	}
	if err := c.svc.postJSON(ctx, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Message, nil
}

// SetTyping marks the user as typing in the conversation. The flag
// expires on the server side a few seconds later.
func (c *ChatClient) SetTyping(ctx context.Context, chatID, userID int64) error {
	if chatID <= 0 {
		return nil
	}
	body := map[string]any{
		"action":  "set_typing",
		"chat_id": chatID,
		"user_id": userID,
	}
	return c.svc.postJSON(ctx, body, nil)
}

// IsTyping reports whether the other participant is currently typing.
func (c *ChatClient) IsTyping(ctx context.Context, chatID, userID int64) (bool, error) {
	if chatID <= 0 {
		return false, nil
	}
	var resp struct {
		envelope
		IsTyping bool `json:"is_typing"`
	}
	q := url.Values{
		"action":  {"is_typing"},
		"chat_id": {strconv.FormatInt(chatID, 10)},
		"user_id": {strconv.FormatInt(userID, 10)},
	}
	if err := c.svc.getJSON(ctx, q, &resp); err != nil {
		return false, err
	}
	return resp.IsTyping, nil
}
