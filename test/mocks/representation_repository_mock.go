package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

// MockRepresentationRepository implements ports.RepresentationRepository in
// memory, with the same conditional-transition semantics as the SQL adapter:
// UpdateStatus only applies while the stored status equals from.
type MockRepresentationRepository struct {
	mu       sync.RWMutex
	requests map[string]domain.RepresentationRequest

	// Call tracking for verification
	CreateCalls       []domain.RepresentationRequest
	UpdateStatusCalls []string

	// Error injection for testing error scenarios
	CreateError       error
	FindByIDError     error
	UpdateStatusError error
}

var _ ports.RepresentationRepository = (*MockRepresentationRepository)(nil)

func NewMockRepresentationRepository() *MockRepresentationRepository {
	return &MockRepresentationRepository{
		requests: make(map[string]domain.RepresentationRequest),
	}
}

// SeedRequest adds a request for test setup.
func (m *MockRepresentationRepository) SeedRequest(req domain.RepresentationRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
}

// Get returns the current stored state of a request, for assertions.
func (m *MockRepresentationRepository) Get(id string) (domain.RepresentationRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	return req, ok
}

func (m *MockRepresentationRepository) Create(ctx context.Context, req domain.RepresentationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, req)

	if m.CreateError != nil {
		return m.CreateError
	}

	m.requests[req.ID] = req
	return nil
}

func (m *MockRepresentationRepository) FindByID(ctx context.Context, id string) (*domain.RepresentationRequest, error) {
	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	req, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("representation request %s: %w", id, domain.ErrNotFound)
	}
	return &req, nil
}

func (m *MockRepresentationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RepresentationStatus, confirmedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateStatusCalls = append(m.UpdateStatusCalls, id)

	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}

	req, ok := m.requests[id]
	if !ok {
		return fmt.Errorf("representation request %s: %w", id, domain.ErrNotFound)
	}
	if req.Status != from {
		return fmt.Errorf("representation request %s: %w", id, domain.ErrInvalidState)
	}

	req.Status = to
	req.ConfirmedAt = confirmedAt
	req.UpdatedAt = time.Now()
	m.requests[id] = req
	return nil
}

func (m *MockRepresentationRepository) SumConfirmedHours(ctx context.Context, personID string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sum float64
	for _, req := range m.requests {
		if req.RepresentedID == personID && req.Status == domain.RepresentationConfirmed {
			sum += req.DurationHours
		}
	}
	return sum, nil
}

func (m *MockRepresentationRepository) FindPendingStartedBefore(ctx context.Context, cutoff time.Time) ([]domain.RepresentationRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.RepresentationRequest
	for _, req := range m.requests {
		if req.Status == domain.RepresentationPending && !req.StartDate.After(cutoff) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

// Reset clears all stored data and call tracking.
func (m *MockRepresentationRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = make(map[string]domain.RepresentationRequest)
	m.CreateCalls = nil
	m.UpdateStatusCalls = nil
	m.CreateError = nil
	m.FindByIDError = nil
	m.UpdateStatusError = nil
}
