package mocks

import (
	"context"
	"sync"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

// MockAuditLog implements ports.AuditLog for testing.
type MockAuditLog struct {
	mu sync.RWMutex

	// Track appended entries for verification
	Entries []domain.AuditEntry

	// Error injection for testing error scenarios
	AppendError error
}

var _ ports.AuditLog = (*MockAuditLog)(nil)

func NewMockAuditLog() *MockAuditLog {
	return &MockAuditLog{}
}

func (m *MockAuditLog) Append(ctx context.Context, entry domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AppendError != nil {
		return m.AppendError
	}

	m.Entries = append(m.Entries, entry)
	return nil
}

// Reset clears all tracking data.
func (m *MockAuditLog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Entries = nil
	m.AppendError = nil
}
