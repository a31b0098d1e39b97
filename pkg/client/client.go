package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/recreate-labs/recreate/internal/models"
)

// Client is a Go SDK for the recreate API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new recreate API client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Analysis waits on provider round trips, so the default is generous.
			Timeout: 5 * time.Minute,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Token returns the session token held by the client, if any
func (c *Client) Token() string { return c.token }

// ClearToken drops the held session token (logout)
func (c *Client) ClearToken() { c.token = "" }

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Login verifies credentials. On success the client holds the returned
// session token for subsequent privileged calls.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	body, err := json.Marshal(models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var result models.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", bytes.NewReader(body), "application/json", &result); err != nil {
		return nil, err
	}

	c.token = result.Token
	return &result, nil
}

// Upload sends an image file and returns its public URL together with the
// generated ideas.
func (c *Client) Upload(ctx context.Context, filename string, image io.Reader) (*models.UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to copy image data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	var result models.UploadResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/upload", &buf, mw.FormDataContentType(), &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Analyze requests ideas for an already-uploaded image URL
func (c *Client) Analyze(ctx context.Context, imageURL string) (*models.AnalyzeResponse, error) {
	body, err := json.Marshal(models.AnalyzeRequest{ImageURL: imageURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var result models.AnalyzeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/analyze", bytes.NewReader(body), "application/json", &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ChallengeDetails fetches step-by-step instructions for an idea
func (c *Client) ChallengeDetails(ctx context.Context, title, description string) (string, error) {
	body, err := json.Marshal(models.ChallengeDetailsRequest{Title: title, Description: description})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var result models.ChallengeDetailsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/challenge-details", bytes.NewReader(body), "application/json", &result); err != nil {
		return "", err
	}

	return result.Steps, nil
}

// CompleteProject marks an idea as completed and returns the server's
// authoritative totals. The session token from Login authenticates the call.
func (c *Client) CompleteProject(ctx context.Context, ideaID string) (*models.CompleteProjectResponse, error) {
	body, err := json.Marshal(models.CompleteProjectRequest{IdeaID: ideaID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var result models.CompleteProjectResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/complete-project", bytes.NewReader(body), "application/json", &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UserStats retrieves a user's points and completion history
func (c *Client) UserStats(ctx context.Context, username string) (*models.UserStats, error) {
	var result models.UserStatsResponse
	path := "/api/user-stats/" + url.PathEscape(username)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, "", &result); err != nil {
		return nil, err
	}

	return &result.Stats, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, "", &struct{}{})
}

// doJSON performs an HTTP request and decodes the JSON response into out.
// Non-2xx responses are returned as *APIError with the server's message.
func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr models.ErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
