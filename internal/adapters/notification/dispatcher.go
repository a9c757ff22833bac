// Package notification implements the Notifier port. In-app messages go to a
// per-person Redis inbox; email delivery is delegated to the mailer via a
// RabbitMQ job queue.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/messaging"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/ports"
)

const (
	inboxKeyPrefix   = "inbox:"
	reviewerInboxKey = "inbox:reviewers"
	inboxTTL         = 90 * 24 * time.Hour
	inboxMaxLength   = 500
)

// InboxClient is the slice of the Redis API the dispatcher needs. *redis.Client
// satisfies it; tests substitute an in-memory fake.
type InboxClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// EmailPublisher is implemented by messaging.RabbitMQBroker.
type EmailPublisher interface {
	PublishEmailJob(ctx context.Context, job messaging.EmailJob) error
}

type inboxMessage struct {
	TemplateKey   string            `json:"template_key"`
	Substitutions map[string]string `json:"substitutions,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Dispatcher fans one notification out to the enabled channels. Each channel
// failure is reported to the caller, which logs it; a committed state
// transition is never rolled back for a failed delivery.
type Dispatcher struct {
	inbox  InboxClient
	emails EmailPublisher
	now    func() time.Time
}

var _ ports.Notifier = (*Dispatcher)(nil)

func NewDispatcher(inbox InboxClient, emails EmailPublisher) *Dispatcher {
	return &Dispatcher{inbox: inbox, emails: emails, now: time.Now}
}

func (d *Dispatcher) Notify(ctx context.Context, personID, templateKey string, substitutions map[string]string, channels domain.NotificationChannels) error {
	var firstErr error

	if channels.InApp {
		if err := d.pushInbox(ctx, inboxKeyPrefix+personID, templateKey, substitutions); err != nil {
			firstErr = fmt.Errorf("in-app to %s: %w", personID, err)
		}
	}

	if channels.Email {
		err := d.emails.PublishEmailJob(ctx, messaging.EmailJob{
			Audience:      "person",
			PersonID:      personID,
			TemplateKey:   templateKey,
			Substitutions: substitutions,
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("email to %s: %w", personID, err)
		}
	}

	return firstErr
}

func (d *Dispatcher) NotifyReviewers(ctx context.Context, templateKey string, substitutions map[string]string) error {
	if err := d.pushInbox(ctx, reviewerInboxKey, templateKey, substitutions); err != nil {
		return fmt.Errorf("reviewer in-app: %w", err)
	}
	return d.emails.PublishEmailJob(ctx, messaging.EmailJob{
		Audience:      "reviewers",
		TemplateKey:   templateKey,
		Substitutions: substitutions,
	})
}

func (d *Dispatcher) pushInbox(ctx context.Context, key, templateKey string, substitutions map[string]string) error {
	body, err := json.Marshal(inboxMessage{
		TemplateKey:   templateKey,
		Substitutions: substitutions,
		CreatedAt:     d.now().UTC(),
	})
	if err != nil {
		return err
	}

	if err := d.inbox.LPush(ctx, key, body).Err(); err != nil {
		return err
	}
	// Bound the inbox; readers only ever page the most recent entries.
	if err := d.inbox.LTrim(ctx, key, 0, inboxMaxLength-1).Err(); err != nil {
		return err
	}
	return d.inbox.Expire(ctx, key, inboxTTL).Err()
}
