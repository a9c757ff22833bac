package mocks

import (
	"context"
	"sync"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/messaging"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/notification"
)

// MockEmailPublisher implements notification.EmailPublisher for testing.
type MockEmailPublisher struct {
	mu sync.RWMutex

	// Track published jobs for verification
	Jobs []messaging.EmailJob

	// Error injection for testing error scenarios
	PublishError error
}

var _ notification.EmailPublisher = (*MockEmailPublisher)(nil)

func NewMockEmailPublisher() *MockEmailPublisher {
	return &MockEmailPublisher{}
}

func (m *MockEmailPublisher) PublishEmailJob(ctx context.Context, job messaging.EmailJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PublishError != nil {
		return m.PublishError
	}

	m.Jobs = append(m.Jobs, job)
	return nil
}

// Reset clears all tracking data.
func (m *MockEmailPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Jobs = nil
	m.PublishError = nil
}
