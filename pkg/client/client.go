package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/naveenspark/bartr/pkg/domain"
)

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateItemRequest is the payload for listing a new item.
type CreateItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}

// Client is the bartr API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a new API client. An empty token sends no Authorization header.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of c that authenticates with token.
// The copy shares the underlying http.Client.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// BaseURL returns the API base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- Auth ---

// Register creates an account and returns its token and user.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// GetMe returns the authenticated user.
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &u, nil
}

// --- Items ---

// ListItems fetches items. With excludeOwn the server leaves out the
// caller's own items, which is how the swipe deck is built.
func (c *Client) ListItems(ctx context.Context, excludeOwn bool) ([]domain.Item, error) {
	path := "/items"
	if excludeOwn {
		params := url.Values{}
		params.Set("exclude_own", "true")
		path += "?" + params.Encode()
	}

	var items []domain.Item
	if err := c.get(ctx, path, &items); err != nil {
		return nil, fmt.Errorf("client.ListItems: %w", err)
	}
	return items, nil
}

// CreateItem lists a new item owned by the caller.
func (c *Client) CreateItem(ctx context.Context, req CreateItemRequest) (*domain.Item, error) {
	var created domain.Item
	if err := c.post(ctx, "/items", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateItem: %w", err)
	}
	return &created, nil
}

// DeleteItem removes one of the caller's items.
func (c *Client) DeleteItem(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/items/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteItem: %w", err)
	}
	return nil
}

// --- Swipes & matches ---

// CreateSwipe records a swipe on an item.
func (c *Client) CreateSwipe(ctx context.Context, itemID int, dir domain.Direction) (*domain.Swipe, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("client.CreateSwipe: invalid direction %q", dir)
	}
	body := struct {
		ItemID    int              `json:"item_id"`
		Direction domain.Direction `json:"direction"`
	}{ItemID: itemID, Direction: dir}

	var swipe domain.Swipe
	if err := c.post(ctx, "/swipes", body, &swipe); err != nil {
		return nil, fmt.Errorf("client.CreateSwipe: %w", err)
	}
	return &swipe, nil
}

// ListMatches returns the caller's matches with their comments.
func (c *Client) ListMatches(ctx context.Context) ([]domain.Match, error) {
	var matches []domain.Match
	if err := c.get(ctx, "/matches", &matches); err != nil {
		return nil, fmt.Errorf("client.ListMatches: %w", err)
	}
	return matches, nil
}

// CreateComment posts a comment in a match.
func (c *Client) CreateComment(ctx context.Context, matchID int, content string) (*domain.Comment, error) {
	body := struct {
		MatchID int    `json:"match_id"`
		Content string `json:"content"`
	}{MatchID: matchID, Content: content}

	var comment domain.Comment
	if err := c.post(ctx, "/comments", body, &comment); err != nil {
		return nil, fmt.Errorf("client.CreateComment: %w", err)
	}
	return &comment, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request %s: %w", requestID, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, RequestID: requestID, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, RequestID: requestID, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, RequestID: requestID, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
