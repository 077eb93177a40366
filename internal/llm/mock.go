package llm

import "context"

// MockProvider is a test double that returns canned responses.
type MockProvider struct {
	Response string
	Err      error

	// LastRequest records the most recent request for assertions.
	LastRequest Request
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, req Request, _ Settings) (string, error) {
	m.LastRequest = req
	return m.Response, m.Err
}
