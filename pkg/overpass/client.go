package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/drivemap/drivemap-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://overpass-api.de/api/interpreter"
	errorBodyReadLimit   int64 = 1024
	defaultClientTimeout       = 60 * time.Second
)

// Client wraps the Overpass API interpreter endpoint used for OSM extracts.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured interpreter base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout overrides the HTTP timeout of the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the Overpass client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultClientTimeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client
}

// Element is a single OSM element returned by the interpreter. Ways and
// relations come back without coordinates unless the query asks for centers.
type Element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  *float64          `json:"lat,omitempty"`
	Lon  *float64          `json:"lon,omitempty"`
	Tags map[string]string `json:"tags,omitempty"`
}

// HasCoordinates reports whether the element carries a usable lat/lon pair.
func (e Element) HasCoordinates() bool {
	return e.Lat != nil && e.Lon != nil
}

// Execute posts the OverpassQL query and returns the decoded elements. An
// empty element list is a valid result, not an error.
func (c *Client) Execute(ctx context.Context, query Query) ([]Element, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "overpass client not configured")
	}
	if strings.TrimSpace(query.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "overpass query is required")
	}

	form := "data=" + url.QueryEscape(query.Body)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "build overpass request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "execute overpass request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "overpass request failed")
	}

	var apiResp struct {
		Elements []Element `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode overpass response")
	}

	return apiResp.Elements, nil
}
