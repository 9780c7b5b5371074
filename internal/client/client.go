// Package client talks to the Meshery server's adapter endpoints.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adapterctl/internal/adapters"

	"github.com/tidwall/gjson"
)

// Backend paths
const (
	PathAvailableAdapters = "/api/system/availableAdapters"
	PathAdapters          = "/api/system/adapters"
	PathManageAdapter     = "/api/system/adapter/manage"
	PathSync              = "/api/system/sync"
)

// DefaultServer is used when no server is configured.
const DefaultServer = "http://localhost:9081"

const (
	defaultTimeout    = 30 * time.Second
	errorMessageLimit = 4096
)

// AvailableAdapter is an entry of the available adapters list.
type AvailableAdapter struct {
	Name string `json:"name"`
	Port string `json:"port"`
}

// ConfiguredAdapter is an entry of the configured adapter URLs list.
type ConfiguredAdapter struct {
	Name string `json:"adapter_name"`
	Port string `json:"adapter_port"`
}

// Client is a Meshery server API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	provider   string
	timeout    time.Duration
	logger     *slog.Logger
}

// Option is a functional option for configuring a Client
type Option func(*Client)

// WithToken sets the session token sent as the "token" cookie
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithProvider sets the "meshery-provider" cookie
func WithProvider(provider string) Option {
	return func(c *Client) {
		c.provider = strings.TrimSpace(provider)
	}
}

// WithTimeout sets the request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultServer
	}
	parsed, err := url.ParseRequestURI(baseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				MaxIdleConns:          10,
				IdleConnTimeout:       30 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		}
	}
	return c, nil
}

// BaseURL returns the server URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AvailableAdapters lists the adapters the server knows how to run.
func (c *Client) AvailableAdapters(ctx context.Context) ([]AvailableAdapter, error) {
	const op = "list available adapters"
	body, err := c.do(ctx, op, http.MethodGet, PathAvailableAdapters, nil, "")
	if err != nil {
		return nil, err
	}

	list, err := parseArray(op, body)
	if err != nil {
		return nil, err
	}
	out := make([]AvailableAdapter, 0, len(list))
	for _, item := range list {
		out = append(out, AvailableAdapter{
			Name: item.Get("name").String(),
			Port: item.Get("port").String(),
		})
	}
	return out, nil
}

// ConfiguredAdapters lists the adapter URLs configured on the server.
func (c *Client) ConfiguredAdapters(ctx context.Context) ([]ConfiguredAdapter, error) {
	const op = "list configured adapters"
	body, err := c.do(ctx, op, http.MethodGet, PathAdapters, nil, "")
	if err != nil {
		return nil, err
	}

	list, err := parseArray(op, body)
	if err != nil {
		return nil, err
	}
	out := make([]ConfiguredAdapter, 0, len(list))
	for _, item := range list {
		out = append(out, ConfiguredAdapter{
			Name: item.Get("adapter_name").String(),
			Port: item.Get("adapter_port").String(),
		})
	}
	return out, nil
}

// Sync fetches the session data and returns the active mesh adapters.
func (c *Client) Sync(ctx context.Context) ([]adapters.Adapter, error) {
	const op = "sync session"
	body, err := c.do(ctx, op, http.MethodGet, PathSync, nil, "")
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, badResponse(op, "response is not valid JSON")
	}
	return decodeAdapters(op, gjson.GetBytes(body, "meshAdapters"))
}

// Ping asks the server to ping the adapter at location.
func (c *Client) Ping(ctx context.Context, location string) error {
	const op = "ping adapter"
	location = strings.TrimSpace(location)
	if location == "" {
		return ErrEmptyLocation
	}
	_, err := c.do(ctx, op, http.MethodGet, PathAdapters+"?adapter="+url.QueryEscape(location), nil, "")
	return err
}

// Configure registers the adapter at location and returns the updated adapter list.
func (c *Client) Configure(ctx context.Context, location string) ([]adapters.Adapter, error) {
	const op = "configure adapter"
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}

	form := url.Values{}
	form.Set("meshLocationURL", location)
	body, err := c.do(ctx, op, http.MethodPost, PathManageAdapter, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded;charset=UTF-8")
	if err != nil {
		return nil, err
	}
	return decodeAdapterList(op, body)
}

// Remove unregisters the adapter at location and returns the updated adapter list.
func (c *Client) Remove(ctx context.Context, location string) ([]adapters.Adapter, error) {
	const op = "remove adapter"
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}

	body, err := c.do(ctx, op, http.MethodDelete, PathManageAdapter+"?adapter="+url.QueryEscape(location), nil, "")
	if err != nil {
		return nil, err
	}
	return decodeAdapterList(op, body)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Op: op, Category: CategoryUnknown, Message: fmt.Sprintf("failed to create request: %v", err), Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: c.token})
	}
	if c.provider != "" {
		req.AddCookie(&http.Cookie{Name: "meshery-provider", Value: c.provider})
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "op", op, "method", method, "path", path, "error", err)
		return nil, networkError(op, err, c.timeout)
	}
	defer resp.Body.Close()

	c.logger.Debug("request finished", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(op, resp.StatusCode, readErrorMessage(resp))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(op, err, c.timeout)
	}
	return data, nil
}

// readErrorMessage extracts a short message from an error response body.
func readErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, errorMessageLimit))
	if err != nil || len(data) == 0 {
		return ""
	}
	if msg := gjson.GetBytes(data, "error"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	return strings.TrimSpace(string(data))
}

// parseArray accepts a JSON array, or null / empty body as an empty list.
func parseArray(op string, body []byte) ([]gjson.Result, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if !gjson.Valid(trimmed) {
		return nil, badResponse(op, "response is not valid JSON")
	}
	result := gjson.Parse(trimmed)
	if !result.IsArray() {
		return nil, badResponse(op, "expected a JSON array")
	}
	return result.Array(), nil
}

func decodeAdapterList(op string, body []byte) ([]adapters.Adapter, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return []adapters.Adapter{}, nil
	}
	if !gjson.Valid(trimmed) {
		return nil, badResponse(op, "response is not valid JSON")
	}
	return decodeAdapters(op, gjson.Parse(trimmed))
}

// decodeAdapters reads an adapter array, tolerating numeric ports.
func decodeAdapters(op string, list gjson.Result) ([]adapters.Adapter, error) {
	if !list.Exists() || list.Type == gjson.Null {
		return []adapters.Adapter{}, nil
	}
	if !list.IsArray() {
		return nil, badResponse(op, "expected a JSON array of adapters")
	}

	out := make([]adapters.Adapter, 0, len(list.Array()))
	for _, item := range list.Array() {
		a := adapters.Adapter{
			Name:     item.Get("name").String(),
			Version:  item.Get("version").String(),
			Location: item.Get("adapter_location").String(),
			Port:     item.Get("adapter_port").String(),
			UniqueID: item.Get("uniqueID").String(),
		}
		// older servers only report the location
		if a.Port == "" && a.Location != "" {
			a.Port = a.Location
		}
		item.Get("ops").ForEach(func(_, op gjson.Result) bool {
			operation := adapters.Operation{
				Key:   op.Get("key").String(),
				Value: op.Get("value").String(),
			}
			if cat := op.Get("category"); cat.Exists() && cat.Type != gjson.Null {
				c := int(cat.Int())
				operation.Category = &c
			}
			a.Ops = append(a.Ops, operation)
			return true
		})
		out = append(out, a)
	}
	return out, nil
}
