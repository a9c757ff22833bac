package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/sweeper"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/services"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/test/mocks"
)

// runOneSweep starts the sweeper with an already-cancelled context: the
// immediate first sweep runs, then the loop exits.
func runOneSweep(t *testing.T, s *sweeper.Sweeper) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func newSweeperFixture() (*sweeper.Sweeper, *mocks.MockRepresentationRepository, *mocks.MockNotifier) {
	requests := mocks.NewMockRepresentationRepository()
	members := mocks.NewMockMemberRepository()
	notifier := mocks.NewMockNotifier()
	svc := services.NewRepresentationService(requests, members, notifier, mocks.NewMockAuditLog(), 0)
	return sweeper.New(svc, notifier, 15*time.Minute), requests, notifier
}

func TestSweeper_AlertsOverdueRequests(t *testing.T) {
	s, requests, notifier := newSweeperFixture()
	requests.SeedRequest(mocks.PendingRepresentation("req-old", "zb-1", "zb-2", time.Now().Add(-6*24*time.Hour), 7))
	requests.SeedRequest(mocks.PendingRepresentation("req-new", "zb-1", "zb-2", time.Now().Add(-time.Hour), 4))

	runOneSweep(t, s)

	if len(notifier.ReviewerAlerts) != 1 {
		t.Fatalf("reviewer alerts = %d, want 1", len(notifier.ReviewerAlerts))
	}
	alert := notifier.ReviewerAlerts[0]
	if alert.TemplateKey != domain.TplRepresentationOverdue {
		t.Errorf("alert template = %q", alert.TemplateKey)
	}
	if alert.Substitutions["request_id"] != "req-old" {
		t.Errorf("alert substitutions = %v", alert.Substitutions)
	}

	if !s.IsHealthy() || !s.IsReady() {
		t.Errorf("sweeper should be healthy and ready after a successful sweep")
	}
}

func TestSweeper_DoesNotRealertWithinWindow(t *testing.T) {
	s, requests, notifier := newSweeperFixture()
	requests.SeedRequest(mocks.PendingRepresentation("req-old", "zb-1", "zb-2", time.Now().Add(-6*24*time.Hour), 7))

	runOneSweep(t, s)
	runOneSweep(t, s)

	if len(notifier.ReviewerAlerts) != 1 {
		t.Errorf("reviewer alerts = %d, want 1 (no repeat within the re-alert window)", len(notifier.ReviewerAlerts))
	}
}

func TestSweeper_NothingOverdue(t *testing.T) {
	s, requests, notifier := newSweeperFixture()
	requests.SeedRequest(mocks.PendingRepresentation("req-new", "zb-1", "zb-2", time.Now().Add(-time.Hour), 4))

	runOneSweep(t, s)

	if len(notifier.ReviewerAlerts) != 0 {
		t.Errorf("reviewer alerts = %d, want 0", len(notifier.ReviewerAlerts))
	}
}

func TestSweeper_AlertFailureRetriesNextSweep(t *testing.T) {
	s, requests, notifier := newSweeperFixture()
	requests.SeedRequest(mocks.PendingRepresentation("req-old", "zb-1", "zb-2", time.Now().Add(-6*24*time.Hour), 7))

	notifier.NotifyReviewersError = errors.New("rabbitmq down")
	runOneSweep(t, s)

	if len(notifier.ReviewerAlerts) != 0 {
		t.Fatalf("reviewer alerts = %d, want 0 while delivery fails", len(notifier.ReviewerAlerts))
	}

	// A failed alert must not enter the re-alert guard.
	notifier.NotifyReviewersError = nil
	runOneSweep(t, s)

	if len(notifier.ReviewerAlerts) != 1 {
		t.Errorf("reviewer alerts = %d, want 1 after recovery", len(notifier.ReviewerAlerts))
	}
}
