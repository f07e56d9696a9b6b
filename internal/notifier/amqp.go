package notifier

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/auth-service/internal/queue"
)

// AMQPNotifier publishes email events to the auth.email queue, where the
// background delivery worker picks them up.  Messages are marked
// persistent so they survive broker restarts.
type AMQPNotifier struct {
	URL string
}

func NewAMQPNotifier(url string) *AMQPNotifier { return &AMQPNotifier{URL: url} }

func (n *AMQPNotifier) SendVerificationCode(ctx context.Context, email, code string) {
	n.publish(ctx, q.EmailEvent{
		Kind:        q.EmailVerificationCode,
		To:          email,
		Code:        code,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (n *AMQPNotifier) SendResetLink(ctx context.Context, email, link string) {
	n.publish(ctx, q.EmailEvent{
		Kind:        q.EmailResetLink,
		To:          email,
		Link:        link,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// publish opens a connection per message.  Auth emails are rare enough
// that connection reuse is not worth the reconnect bookkeeping; any error
// is logged and swallowed per the fire-and-forget contract.
func (n *AMQPNotifier) publish(ctx context.Context, event q.EmailEvent) {
	conn, err := amqp.Dial(n.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		"auth.email", // name
		true,         // durable
		false,        // autoDelete
		false,        // exclusive
		false,        // noWait
		nil,          // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",           // default exchange
		"auth.email", // routing key = queue name
		false,        // mandatory
		false,        // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
	}
}
