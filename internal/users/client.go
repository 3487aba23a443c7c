package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	usersPath = "/api/users"

	// maxBodyBytes bounds how much of a response is read into memory.
	maxBodyBytes = 10 << 20
	// maxLoggedBody bounds how much of a failure body ends up in logs and errors.
	maxLoggedBody = 512
)

// Client talks to the remote users service
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	maxBody int64
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a users service client rooted at baseURL.
// Requests carry no client-side timeout; they end when the context does.
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  logger,
		maxBody: maxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the absolute URL of the users collection
func (c *Client) Endpoint() string {
	return c.baseURL + usersPath
}

// ListUsers fetches the whole collection in service order
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint(), nil)
	if err != nil {
		return nil, NewTransportError(OpList, err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(OpList, req, http.StatusOK)
	if err != nil {
		return nil, err
	}

	if !hasJSONPrefix(body, '[') {
		return nil, NewDecodeError(OpList, fmt.Errorf("expected a JSON array, got %s", truncate(body)))
	}

	// pointers so that null elements can be told apart from empty objects
	var items []*User
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, NewDecodeError(OpList, err)
	}

	list := make([]User, 0, len(items))
	for i, u := range items {
		if u == nil {
			return nil, NewDecodeError(OpList, fmt.Errorf("element %d is null, not a user", i))
		}
		list = append(list, *u)
	}

	c.logger.Debug("Users listed", zap.Int("count", len(list)))
	return list, nil
}

// CreateUser submits draft and returns the record the service created
func (c *Client) CreateUser(ctx context.Context, draft DraftUser) (*User, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, NewTransportError(OpCreate, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Submitting user",
		zap.String("name", draft.Name),
		zap.String("email", draft.Email),
		zap.String("url", c.Endpoint()))

	body, err := c.do(OpCreate, req, 0)
	if err != nil {
		return nil, err
	}

	if !hasJSONPrefix(body, '{') {
		return nil, NewDecodeError(OpCreate, fmt.Errorf("expected a JSON object, got %s", truncate(body)))
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, NewDecodeError(OpCreate, err)
	}
	if user.ID.IsZero() {
		c.logger.Warn("Service returned a user without an id", zap.String("name", user.Name))
	}

	c.logger.Debug("New user created", zap.Stringer("id", user.ID), zap.String("name", user.Name))
	return &user, nil
}

// do sends req and returns the body of a successful response. When want is
// non-zero the status must match it exactly; otherwise any 2xx is accepted.
// A rejected status wins over any failure reading its body.
func (c *Client) do(op string, req *http.Request, want int) ([]byte, error) {
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("Users request failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, NewTransportError(op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Response status",
		zap.String("op", op),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode))

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if want != 0 {
		ok = resp.StatusCode == want
	}
	if !ok {
		if readErr != nil {
			c.logger.Debug("Failed to read error response body",
				zap.String("op", op),
				zap.String("request_id", requestID),
				zap.Error(readErr))
		}
		return nil, NewHTTPStatusError(op, resp.StatusCode, resp.Status, truncate(body))
	}

	if readErr != nil {
		return nil, NewTransportError(op, fmt.Errorf("failed to read response body: %w", readErr))
	}
	if int64(len(body)) > c.maxBody {
		return nil, NewDecodeError(op, fmt.Errorf("response body exceeds %d bytes", c.maxBody))
	}
	return body, nil
}

func hasJSONPrefix(body []byte, want byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == want
}

func truncate(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "..."
	}
	return string(body)
}
