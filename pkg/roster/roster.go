// Package roster provides a client for the external registration service
// that owns the list of players entered in each category.
package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abrezinsky/padelpools/internal/logger"
)

// FlexInt is an int that can be unmarshaled from either a JSON number or a
// numeric string. Registration exports are inconsistent about ranking points.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler for FlexInt
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return fmt.Errorf("FlexInt: %w", err)
		}
		*f = FlexInt(int(v))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("FlexInt: cannot parse %q", s)
		}
		*f = FlexInt(v)
		return nil
	}

	return fmt.Errorf("FlexInt: cannot unmarshal %s", string(data))
}

// Entry is a player entered in a category by the registration service
type Entry struct {
	ID            int     `json:"id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	RankingPoints FlexInt `json:"ranking_points"`
}

// EntryListResponse is the response from the entries endpoint
type EntryListResponse struct {
	Entries []Entry `json:"entries"`
}

// Client defines the interface for roster operations
type Client interface {
	// FetchEntries retrieves the players entered in the named category
	FetchEntries(ctx context.Context, category string) ([]Entry, error)
	// SetToken configures the bearer token sent with each request
	SetToken(token string)
	// BaseURL returns the configured service base URL
	BaseURL() string
	// SetBaseURL updates the service base URL
	SetBaseURL(url string)
}

// HTTPClient is a real HTTP client for the registration service
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new roster client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return NewHTTPClientWithHTTPClient(baseURL, &http.Client{Timeout: 30 * time.Second}, log)
}

// NewHTTPClientWithHTTPClient creates a new roster client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// FetchEntries retrieves the players entered in the named category
func (c *HTTPClient) FetchEntries(ctx context.Context, category string) ([]Entry, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("roster service URL is not configured")
	}

	reqURL := fmt.Sprintf("%s/api/entries?category=%s", c.baseURL, url.QueryEscape(category))
	c.log.Debug("Roster request", "method", "GET", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to roster service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Roster response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster service returned status %d", resp.StatusCode)
	}

	var response EntryListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return response.Entries, nil
}

var _ Client = (*HTTPClient)(nil)
