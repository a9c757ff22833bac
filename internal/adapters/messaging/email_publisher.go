package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EmailJob is the wire shape a mailer consumer expects: a template key plus
// substitution values, addressed by person id (the mailer resolves the
// address). Audience is either "person" or "reviewers".
type EmailJob struct {
	Audience      string            `json:"audience"`
	PersonID      string            `json:"person_id,omitempty"`
	TemplateKey   string            `json:"template_key"`
	Substitutions map[string]string `json:"substitutions,omitempty"`
}

func (rmq *RabbitMQBroker) PublishEmailJob(ctx context.Context, job EmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	// Use circuit breaker to protect RabbitMQ publish operation
	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}
