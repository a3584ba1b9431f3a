package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/forwarding-portal/internal/model"
)

// AMQPSender publishes each notification as a persistent JSON message on
// a durable queue.  A connection is opened per publish; account events
// are rare enough that pooling buys nothing.
type AMQPSender struct {
	URL    string
	Queue  string
	Logger *zap.Logger
}

func NewAMQPSender(url, queue string, logger *zap.Logger) *AMQPSender {
	return &AMQPSender{URL: url, Queue: queue, Logger: logger}
}

func (s *AMQPSender) Notify(ctx context.Context, u model.User, ev Event) error {
	body, err := json.Marshal(NewMessage(u, ev, time.Now()))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	conn, err := amqp.Dial(s.URL)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := declareQueue(ch, s.Queue); err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(ev),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", s.Queue, false, false, pub); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	s.Logger.Debug("notification published", zap.String("event", string(ev)), zap.Uint64("user_id", u.ID))
	return nil
}

// declareQueue declares the durable notification queue; publisher and
// consumer must agree on its arguments.
func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return q, fmt.Errorf("queue declare: %w", err)
	}
	return q, nil
}
