package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

// MockIDGenerator implements ports.IDGenerator with a deterministic sequence.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	// Error injection for testing error scenarios
	NextError error
}

var _ ports.IDGenerator = (*MockIDGenerator)(nil)

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Next(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.NextError != nil {
		return "", m.NextError
	}

	m.next++
	return fmt.Sprintf("ZA-2026-%06d", m.next), nil
}

// Count returns how many ids have been issued.
func (m *MockIDGenerator) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next
}
