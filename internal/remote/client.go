package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dkoval/chatik/internal/config"
)

const requestTimeout = 15 * time.Second

// Client bundles the typed clients for the three remote services.
type Client struct {
	Auth      *AuthClient
	Chat      *ChatClient
	Directory *DirectoryClient
}

// New builds the service clients from the configured endpoints. All
// three share one http.Client.
func New(cfg *config.Config, logger *zap.Logger) *Client {
	return NewWithTransport(cfg, logger, nil)
}

// NewWithTransport is New with a custom http.RoundTripper, mainly for
// instrumenting requests in tests.
func NewWithTransport(cfg *config.Config, logger *zap.Logger, rt http.RoundTripper) *Client {
	httpc := &http.Client{Timeout: requestTimeout, Transport: rt}
	auth := newService(cfg.AuthURL, httpc, logger.Named("auth"))
	msgs := newService(cfg.MessagesURL, httpc, logger.Named("messages"))
	search := newService(cfg.SearchURL, httpc, logger.Named("search"))
	return &Client{
		Auth:      &AuthClient{svc: auth},
		Chat:      &ChatClient{svc: msgs},
		Directory: &DirectoryClient{messages: msgs, search: search},
	}
}

// service is one endpoint plus the plumbing to call it. Every request
// and response body is a JSON object; the services signal rejection
// with success:false and an HTTP error status, so bodies are decoded
// regardless of status code.
type service struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

func newService(baseURL string, httpc *http.Client, logger *zap.Logger) *service {
	return &service{baseURL: baseURL, httpc: httpc, logger: logger}
}

// envelope holds the fields common to every response body. Success is
// a pointer because the search service omits the flag entirely and
// signals failure through the HTTP status alone.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (e envelope) failed(statusCode int) bool {
	if e.Success != nil {
		return !*e.Success
	}
	return statusCode >= 300
}

func (s *service) getJSON(ctx context.Context, query url.Values, out any) error {
	u := s.baseURL
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return s.do(req, out)
}

func (s *service) postJSON(ctx context.Context, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, out)
}

func (s *service) do(req *http.Request, out any) error {
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.logger.Warn("malformed response",
			zap.String("request_id", reqID),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}
	if env.failed(resp.StatusCode) {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return &APIError{Message: msg}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding response payload: %w", err)
		}
	}
	return nil
}
