// Package client provides a client for the Obsidian Local REST API.
// Every method maps to exactly one HTTP request against the vault, except the batch read
// which issues one request per file, in order.
package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultProtocol = "https"
	DefaultHost     = "127.0.0.1"
	DefaultPort     = 27124
	DefaultTimeout  = 6 * time.Second
)

// maxErrorBodyBytes caps how much of an error response body is read while looking for the error code.
const maxErrorBodyBytes = 1 << 20

// Config holds the connection settings for the vault's REST endpoint.
// It is built once at startup and never modified afterwards.
type Config struct {
	APIKey    string
	Protocol  string
	Host      string
	Port      int
	VerifySSL bool
	Timeout   time.Duration
}

// DefaultConfig returns a Config pointing at the plugin's default local HTTPS endpoint.
func DefaultConfig() Config {
	return Config{
		Protocol: DefaultProtocol,
		Host:     DefaultHost,
		Port:     DefaultPort,
		Timeout:  DefaultTimeout,
	}
}

// BaseURL returns the root URL of the vault's REST endpoint, eg- https://127.0.0.1:27124
func (c Config) BaseURL() string {
	return fmt.Sprintf("%s://%s", c.Protocol, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)))
}

// Client talks to the Obsidian Local REST API on behalf of the MCP tools.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the REST API served at baseURL.
// The apiKey is sent as a bearer token with every request.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// New creates a client from a Config.
// TLS certificate verification is skipped unless conf.VerifySSL is set, because the
// REST plugin serves a self-signed certificate by default.
func New(conf Config) *Client {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !conf.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	return NewClient(conf.BaseURL(), conf.APIKey, httpClient)
}

// BaseURL returns the root URL this client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// constructAPIEndpoint joins the base URL with the given (unescaped) path and query.
func (c *Client) constructAPIEndpoint(p string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid vault base url %s: %w", c.baseURL, err)
	}
	u.Path = strings.TrimRight(u.Path, "/") + p
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// newRequest creates a new HTTP request with the vault API key attached.
func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

// do sends the request and converts failures into the client's error types.
// On success the caller owns the response body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, c.parseErrorResponse(resp)
	}
	return resp, nil
}

// parseErrorResponse builds an APIError from a failed response.
// The REST API reports failures as {"errorCode": <int>, "message": <string>}; missing fields
// fall back to code -1 and message "<unknown>".
func (c *Client) parseErrorResponse(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Code:       -1,
		Message:    "<unknown>",
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload struct {
		ErrorCode int    `json:"errorCode"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	if payload.ErrorCode != 0 {
		apiErr.Code = payload.ErrorCode
	}
	if payload.Message != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// decodeJSON decodes a successful response body into v.
func decodeJSON(resp *http.Response, v any) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// vaultPath returns the API path of a file or directory inside the vault.
func vaultPath(p string) string {
	return "/vault/" + strings.TrimPrefix(p, "/")
}

// vaultFilePath returns the API path of a file inside the vault.
// A path that is empty once its slashes are trimmed would address the vault root listing,
// so it is rejected.
func vaultFilePath(p string) (string, error) {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return "", fmt.Errorf("%w: '%s'", ErrEmptyPath, p)
	}
	return vaultPath(trimmed), nil
}
