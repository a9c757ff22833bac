package mocks

import (
	"context"
	"sync"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

// SentNotification captures one Notify call for verification.
type SentNotification struct {
	PersonID      string
	TemplateKey   string
	Substitutions map[string]string
	Channels      domain.NotificationChannels
}

// ReviewerAlert captures one NotifyReviewers call for verification.
type ReviewerAlert struct {
	TemplateKey   string
	Substitutions map[string]string
}

// MockNotifier implements ports.Notifier for testing.
type MockNotifier struct {
	mu sync.RWMutex

	// Track delivered notifications for verification
	Sent           []SentNotification
	ReviewerAlerts []ReviewerAlert

	// Error injection for testing error scenarios
	NotifyError          error
	NotifyReviewersError error
}

var _ ports.Notifier = (*MockNotifier)(nil)

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, personID, templateKey string, substitutions map[string]string, channels domain.NotificationChannels) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.NotifyError != nil {
		return m.NotifyError
	}

	m.Sent = append(m.Sent, SentNotification{
		PersonID:      personID,
		TemplateKey:   templateKey,
		Substitutions: substitutions,
		Channels:      channels,
	})
	return nil
}

func (m *MockNotifier) NotifyReviewers(ctx context.Context, templateKey string, substitutions map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.NotifyReviewersError != nil {
		return m.NotifyReviewersError
	}

	m.ReviewerAlerts = append(m.ReviewerAlerts, ReviewerAlert{
		TemplateKey:   templateKey,
		Substitutions: substitutions,
	})
	return nil
}

// Reset clears all tracking data.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sent = nil
	m.ReviewerAlerts = nil
	m.NotifyError = nil
	m.NotifyReviewersError = nil
}
