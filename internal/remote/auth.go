package remote

import (
	"context"
	"net/url"
	"strconv"
)

// AuthClient talks to the auth service: login, admin-driven
// registration and profile updates.
type AuthClient struct {
	svc *service
}

// Login authenticates a username/password pair and returns the user's
// identity. A wrong password surfaces as *APIError.
func (c *AuthClient) Login(ctx context.Context, username, password string) (*Identity, error) {
	var resp struct {
		envelope
		User Identity `json:"user"`
	}
	body := map[string]any{
		"action":   "login",
		"username": username,
		"password": password,
	}
	if err := c.svc.postJSON(ctx, body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// GetUser fetches a user's current record by id. Used to refresh a
// restored session so profile edits made elsewhere show up.
func (c *AuthClient) GetUser(ctx context.Context, userID int64) (*Identity, error) {
	var resp struct {
		envelope
		User Identity `json:"user"`
	}
	q := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	if err := c.svc.getJSON(ctx, q, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates a new account. Only admins may register users; the
// service rejects the call otherwise.
func (c *AuthClient) Register(ctx context.Context, adminID int64, username, password string, friendOfAdmin bool) (*Identity, error) {
	var resp struct {
		envelope
		User Identity `json:"user"`
	}
	body := map[string]any{
		"action":             "register",
		"admin_id":           adminID,
		"username":           username,
		"password":           password,
		"is_friend_of_admin": friendOfAdmin,
	}
	if err := c.svc.postJSON(ctx, body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateProfile sets the user's name and avatar fields and returns the
// updated identity.
func (c *AuthClient) UpdateProfile(ctx context.Context, userID int64, firstName, lastName, displayName, avatarURL string) (*Identity, error) {
	var resp struct {
		envelope
		User Identity `json:"user"`
	}
	body := map[string]any{
		"action":       "update_profile",
		"user_id":      userID,
		"first_name":   firstName,
		"last_name":    lastName,
		"display_name": displayName,
		"avatar_url":   avatarURL,
	}
	if err := c.svc.postJSON(ctx, body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
