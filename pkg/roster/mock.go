package roster

import (
	"context"
	"sync"
)

// MockClient is a mock roster client for testing
type MockClient struct {
	mu       sync.Mutex
	entries  map[string][]Entry
	fetchErr error
	baseURL  string
	token    string
	calls    []string
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithEntries sets the entries returned for a category
func WithEntries(category string, entries []Entry) MockOption {
	return func(m *MockClient) {
		m.entries[category] = entries
	}
}

// WithFetchError sets an error to return from FetchEntries
func WithFetchError(err error) MockOption {
	return func(m *MockClient) {
		m.fetchErr = err
	}
}

// NewMockClient creates a new mock client with the given options
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{entries: make(map[string][]Entry)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockClient) FetchEntries(ctx context.Context, category string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, category)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.entries[category], nil
}

// Calls returns the categories requested so far
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockClient) SetToken(token string) { m.token = token }

func (m *MockClient) BaseURL() string { return m.baseURL }

func (m *MockClient) SetBaseURL(url string) { m.baseURL = url }

var _ Client = (*MockClient)(nil)
