package remote

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// DirectoryClient covers contacts and user search. Contacts live on
// the messaging service; search and search-driven contact adds live on
// the search service.
type DirectoryClient struct {
	messages *service
	search   *service
}

// ListContacts returns the user's saved contacts with presence fields.
func (c *DirectoryClient) ListContacts(ctx context.Context, userID int64) ([]Contact, error) {
	var resp struct {
		envelope
		Contacts []Contact `json:"contacts"`
	}
	q := url.Values{
		"action":  {"get_contacts"},
		"user_id": {strconv.FormatInt(userID, 10)},
	}
	if err := c.messages.getJSON(ctx, q, &resp); err != nil {
		return nil, err
	}
	return resp.Contacts, nil
}

// AddContactByUsername saves a contact by exact username, optionally
// with a custom label. An unknown username surfaces as *APIError.
func (c *DirectoryClient) AddContactByUsername(ctx context.Context, userID int64, username, customName string) error {
	body := map[string]any{
		"action":           "add_contact",
		"user_id":          userID,
		"contact_username": username,
		"custom_name":      customName,
	}
	return c.messages.postJSON(ctx, body, nil)
}

// SearchUsers finds users whose username or name contains the query,
// case-insensitively. A blank query returns no results and performs no
// request.
func (c *DirectoryClient) SearchUsers(ctx context.Context, query string, userID int64) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	var resp struct {
		envelope
		Users []SearchResult `json:"users"`
	}
	q := url.Values{
		"q":       {query},
		"user_id": {strconv.FormatInt(userID, 10)},
	}
	if err := c.search.getJSON(ctx, q, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// AddContact saves a search result as a contact by user id. Adding an
// existing contact is a no-op on the server.
func (c *DirectoryClient) AddContact(ctx context.Context, userID, targetUserID int64) error {
	body := map[string]any{
		"user_id":        userID,
		"target_user_id": targetUserID,
	}
	return c.search.postJSON(ctx, body, nil)
}
