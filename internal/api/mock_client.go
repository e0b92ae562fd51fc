package api

import (
	"context"
	"sync"

	"github.com/diogo/webchat/internal/models"
)

// MockChatClient is a mock implementation of ChatClientInterface for testing
type MockChatClient struct {
	// Mock return values
	History       []models.Message
	HistoryErr    error
	JSONReply     models.Reply
	JSONErr       error
	StreamReplies []models.Reply
	StreamErr     error
	Events        []string
	SubscribeErr  error
	URL           string

	// Call counters/recorders
	mu           sync.Mutex
	HistoryCalls int
	Sent         []string
	CloseCalled  bool
}

// Ensure MockChatClient implements ChatClientInterface
var _ ChatClientInterface = (*MockChatClient)(nil)

func (m *MockChatClient) GetHistory(ctx context.Context) ([]models.Message, error) {
	m.mu.Lock()
	m.HistoryCalls++
	m.mu.Unlock()
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	return append([]models.Message(nil), m.History...), nil
}

func (m *MockChatClient) SendJSON(ctx context.Context, message string) (models.Reply, error) {
	m.record(message)
	if err := ctx.Err(); err != nil {
		return models.Reply{}, err
	}
	return m.JSONReply, m.JSONErr
}

func (m *MockChatClient) SendStream(ctx context.Context, message string, onReply func(models.Reply)) error {
	m.record(message)
	for _, r := range m.StreamReplies {
		if err := ctx.Err(); err != nil {
			return err
		}
		onReply(r)
	}
	return m.StreamErr
}

func (m *MockChatClient) Subscribe(ctx context.Context, message string, onEvent func(string)) error {
	m.record(message)
	for _, e := range m.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		onEvent(e)
	}
	return m.SubscribeErr
}

func (m *MockChatClient) BaseURL() string {
	return m.URL
}

func (m *MockChatClient) Close() {
	m.CloseCalled = true
}

// HistoryCallCount returns how many times GetHistory ran
func (m *MockChatClient) HistoryCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.HistoryCalls
}

// SentMessages returns a copy of every message passed to a send method
func (m *MockChatClient) SentMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Sent...)
}

func (m *MockChatClient) record(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, message)
}
