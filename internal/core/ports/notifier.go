package ports

import (
	"context"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
)

// Notifier delivers templated messages. Delivery is best-effort: callers log
// failures and never roll back a committed state transition because of one.
type Notifier interface {
	// Notify delivers one message to one person over the selected channels.
	// Disabled channels are skipped silently.
	Notify(ctx context.Context, personID, templateKey string, substitutions map[string]string, channels domain.NotificationChannels) error

	// NotifyReviewers broadcasts to all chamber reviewers.
	NotifyReviewers(ctx context.Context, templateKey string, substitutions map[string]string) error
}
