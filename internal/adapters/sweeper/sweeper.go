// Package sweeper drives the reviewer-facing overdue alerts: it periodically
// scans for pending representation requests past the staleness threshold and
// notifies chamber reviewers. Overdue is derived from the stored dates on
// every sweep; nothing is written back.
package sweeper

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/metrics"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/config"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

const (
	// A request already alerted on is not re-alerted until this much time has
	// passed, so reviewers get a reminder cadence instead of spam. The guard
	// is in-process only; a restart simply alerts once more.
	realertAfter = 24 * time.Hour

	healthCheckStaleThreshold = 5 * time.Minute
)

type Sweeper struct {
	service  ports.RepresentationService
	notifier ports.Notifier
	interval time.Duration
	dbCB     *gobreaker.CircuitBreaker

	alerted   map[string]time.Time
	lastSweep time.Time
	isHealthy bool
}

func New(service ports.RepresentationService, notifier ports.Notifier, interval time.Duration) *Sweeper {
	return &Sweeper{
		service:   service,
		notifier:  notifier,
		interval:  interval,
		dbCB:      config.NewCircuitBreaker("Sweeper-PostgreSQL"),
		alerted:   make(map[string]time.Time),
		lastSweep: time.Now(),
		isHealthy: true,
	}
}

// IsHealthy reports whether the sweeper process is alive and responding.
// Liveness only; circuit breaker state belongs to readiness.
func (s *Sweeper) IsHealthy() bool {
	return s.isHealthy
}

// IsReady reports whether the sweeper can actually sweep.
func (s *Sweeper) IsReady() bool {
	if s.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	if time.Since(s.lastSweep) > s.interval+healthCheckStaleThreshold {
		return false
	}
	return s.isHealthy
}

// Start runs the sweep loop until the context is cancelled. Blocking.
func (s *Sweeper) Start(ctx context.Context) error {
	log.Printf("sweeper: starting, interval %s", s.interval)

	// First sweep immediately so a freshly deployed sweeper does not sit on
	// a backlog for a full interval.
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("sweeper: shutting down...")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	overdue, err := s.dbCB.Execute(func() (interface{}, error) {
		return s.service.OverduePending(ctx, 0)
	})
	if err != nil {
		log.Printf("sweeper: overdue scan failed: %v", err)
		s.isHealthy = false
		return
	}
	s.isHealthy = true
	s.lastSweep = time.Now()

	requests := overdue.([]domain.RepresentationRequest)
	metrics.OverduePending.Set(float64(len(requests)))

	alertedNow := 0
	for _, req := range requests {
		if last, ok := s.alerted[req.ID]; ok && time.Since(last) < realertAfter {
			continue
		}

		err := s.notifier.NotifyReviewers(ctx, domain.TplRepresentationOverdue, map[string]string{
			"request_id":   req.ID,
			"representing": req.RepresentingID,
			"represented":  req.RepresentedID,
			"start":        req.StartDate.Format(time.RFC3339),
			"hours":        fmt.Sprintf("%.2f", req.DurationHours),
		})
		if err != nil {
			log.Printf("sweeper: reviewer alert for %s failed: %v", req.ID, err)
			continue
		}
		s.alerted[req.ID] = time.Now()
		alertedNow++
	}

	// Drop guard entries for requests that are no longer overdue (decided or
	// deleted), keeping the map bounded.
	current := make(map[string]struct{}, len(requests))
	for _, req := range requests {
		current[req.ID] = struct{}{}
	}
	for id := range s.alerted {
		if _, ok := current[id]; !ok {
			delete(s.alerted, id)
		}
	}

	log.Printf("sweeper: %d overdue, %d alerts sent", len(requests), alertedNow)
}
