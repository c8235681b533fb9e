package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultAPIURL is the Argo API host every harvest talks to
	DefaultAPIURL = "https://api.argo.hestia.ai"

	// ChatPageSize is the fixed page size of the chat listing. Only the
	// first page is ever requested.
	ChatPageSize = 10

	// maxErrorBody caps how much of an error response ends up in messages
	maxErrorBody = 512
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIClient talks to the Argo conversational-agent API
type APIClient struct {
	baseURL    string
	client     HTTPClient
	tokenField string
}

// ClientOption configures an APIClient
type ClientOption func(*APIClient)

// WithBaseURL points the client at another host
func WithBaseURL(baseURL string) ClientOption {
	return func(c *APIClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client HTTPClient) ClientOption {
	return func(c *APIClient) {
		c.client = client
	}
}

// WithTimeout sets a per-request timeout on the default HTTP client. Zero
// leaves the transport defaults in place.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *APIClient) {
		c.client = &http.Client{Timeout: timeout}
	}
}

// WithTokenField requires the token to be read from the named property of
// the authentication response instead of its first property.
func WithTokenField(field string) ClientOption {
	return func(c *APIClient) {
		c.tokenField = field
	}
}

// NewAPIClient creates a client for the default API host.
//
//	NewAPIClient(WithBaseURL(server.URL), WithTokenField("access_token"))
func NewAPIClient(opts ...ClientOption) *APIClient {
	c := &APIClient{
		baseURL: DefaultAPIURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API host the client talks to
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Ping checks that the API host answers HTTP. Any response, whatever its
// status, counts as reachable; the status is returned for display.
func (c *APIClient) Ping(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return 0, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error making HTTP request: %w", err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	return resp.StatusCode, nil
}

// Authenticate exchanges a username and password for a bearer token
func (c *APIClient) Authenticate(ctx context.Context, username, password string) (string, error) {
	form := url.Values{
		"grant_type":    {""},
		"username":      {username},
		"password":      {password},
		"scope":         {""},
		"client_id":     {""},
		"client_secret": {""},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("error creating token request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	LogDebug("Requesting token for %s", username)
	body, status, err := c.do(req)
	if err != nil {
		return "", &AuthError{StatusCode: status, Err: err}
	}

	token, err := ExtractToken(body, c.tokenField)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	return token, nil
}

// ListChats returns the first page of chats of an agent
func (c *APIClient) ListChats(ctx context.Context, agentID, token string) ([]ChatSummary, error) {
	query := url.Values{}
	query.Set("agent_id", agentID)
	query.Set("page", "1")
	query.Set("per_page", fmt.Sprint(ChatPageSize))

	req, err := c.newAuthorizedRequest(ctx, "/chat?"+query.Encode(), token)
	if err != nil {
		return nil, &ListError{AgentID: agentID, Err: err}
	}

	LogDebug("Listing chats for agent %s", agentID)
	body, status, err := c.do(req)
	if err != nil {
		return nil, &ListError{AgentID: agentID, StatusCode: status, Err: err}
	}

	var list ChatList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &ListError{AgentID: agentID, Err: fmt.Errorf("error parsing chat list: %w", err)}
	}
	// "items": [] is an empty agent; a missing or null list is a bad answer
	if list.Items == nil {
		return nil, &ListError{AgentID: agentID, Err: fmt.Errorf("chat list has no items")}
	}
	return list.Items, nil
}

// FetchMessages returns the raw message payload of one chat
func (c *APIClient) FetchMessages(ctx context.Context, chatID ChatID, token string) (json.RawMessage, error) {
	req, err := c.newAuthorizedRequest(ctx, "/chat/"+url.PathEscape(chatID.String())+"/message", token)
	if err != nil {
		return nil, &MessageError{ChatID: chatID, Err: err}
	}

	LogDebug("Fetching messages for chat %s", chatID)
	body, status, err := c.do(req)
	if err != nil {
		return nil, &MessageError{ChatID: chatID, StatusCode: status, Err: err}
	}

	if !json.Valid(body) {
		return nil, &MessageError{ChatID: chatID, Err: fmt.Errorf("message payload is not valid JSON")}
	}
	return json.RawMessage(body), nil
}

func (c *APIClient) newAuthorizedRequest(ctx context.Context, path, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	return req, nil
}

// do sends the request and returns the body of a 2xx response. On a non-2xx
// response the status code is returned alongside the error.
func (c *APIClient) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error making HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, resp.StatusCode, fmt.Errorf("request returned non-success status: %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}
