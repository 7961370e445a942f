// Package mailqueue carries outgoing mail requests from the API to the mail worker over RabbitMQ.
package mailqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

// DeclareQueue declares the durable queue shared by publisher and consumer.
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // keep the queue while no consumer is attached
		false,
		false,
		nil,
	)
}

type Publisher struct {
	ch      *amqp.Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(ch *amqp.Channel, queue string, timeout time.Duration) *Publisher {
	return &Publisher{
		ch:      ch,
		queue:   queue,
		timeout: timeout,
	}
}

func (p *Publisher) Publish(ctx context.Context, msg domain.MailMessage) error {
	body, err := Encode(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func Encode(msg domain.MailMessage) ([]byte, error) {
	if msg.Type == "" || msg.To == "" {
		return nil, fmt.Errorf("mail message needs a type and a recipient")
	}
	return json.Marshal(msg)
}

// Envelope is the consumer-side view of a MailMessage; Data stays raw until the type is known.
type Envelope struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

func Decode(body []byte) (*Envelope, error) {
	env := &Envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, err
	}
	if env.Type == "" || env.To == "" {
		return nil, fmt.Errorf("mail message needs a type and a recipient")
	}
	return env, nil
}

// TemplateData decodes the payload into the struct registered for its type.
func (e *Envelope) TemplateData() (any, error) {
	var data any
	switch e.Type {
	case domain.MailCreateUser:
		data = &domain.CreateUserMailData{}
	case domain.MailResetPassword:
		data = &domain.ResetPasswordMailData{}
	case domain.MailSkillDecision:
		data = &domain.SkillDecisionMailData{}
	default:
		return nil, fmt.Errorf("unsupported mail type %q", e.Type)
	}

	if err := json.Unmarshal(e.Data, data); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}

	return data, nil
}
