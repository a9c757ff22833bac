// Package mocks provides mock implementations of port interfaces for testing.
// The services depend only on the port interfaces, so the mocks stand in for
// the real PostgreSQL, Redis and RabbitMQ adapters without any infrastructure.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

// MockMemberRepository implements ports.MemberRepository in memory, including
// the compare-and-swap semantics of Update: a write with a stale
// expectedUpdatedAt fails with domain.ErrVersionConflict, exactly like the
// SQL adapter.
type MockMemberRepository struct {
	mu      sync.RWMutex
	members map[string]domain.Member

	// Call tracking for verification
	UpdateCalls []domain.Member

	// Error injection for testing error scenarios
	FindByIDError error
	UpdateError   error
}

var _ ports.MemberRepository = (*MockMemberRepository)(nil)

func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{
		members: make(map[string]domain.Member),
	}
}

// SeedMember adds a member for test setup.
func (m *MockMemberRepository) SeedMember(member domain.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.ID] = member
}

// Get returns the current stored state of a member, for assertions.
func (m *MockMemberRepository) Get(id string) (domain.Member, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	member, ok := m.members[id]
	return member, ok
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	member, ok := m.members[id]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", id, domain.ErrNotFound)
	}
	return &member, nil
}

func (m *MockMemberRepository) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, member := range m.members {
		if member.Email == email {
			return &member, nil
		}
	}
	return nil, fmt.Errorf("member %s: %w", email, domain.ErrNotFound)
}

func (m *MockMemberRepository) Update(ctx context.Context, member domain.Member, expectedUpdatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, member)

	if m.UpdateError != nil {
		return m.UpdateError
	}

	stored, ok := m.members[member.ID]
	if !ok {
		return fmt.Errorf("member %s: %w", member.ID, domain.ErrNotFound)
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return fmt.Errorf("member %s: %w", member.ID, domain.ErrVersionConflict)
	}

	m.members[member.ID] = member
	return nil
}

// Reset clears all stored data and call tracking.
func (m *MockMemberRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.members = make(map[string]domain.Member)
	m.UpdateCalls = nil
	m.FindByIDError = nil
	m.UpdateError = nil
}
