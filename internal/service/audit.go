package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/secure-user-api/internal/logger"
	q "github.com/iliyamo/secure-user-api/internal/queue"
)

// AuditPublisher records login attempts.  Implementations must not block
// the caller beyond ctx.
type AuditPublisher interface {
	PublishLogin(ctx context.Context, ev q.LoginEvent) error
}

// NoopPublisher discards events; used when auditing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishLogin(context.Context, q.LoginEvent) error { return nil }

// AMQPPublisher publishes LoginEvents to a durable RabbitMQ queue.  Each
// call dials its own connection, so the type carries no mutable state.
type AMQPPublisher struct {
	URL   string
	Queue string
}

func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Queue: queue}
}

// PublishLogin publishes ev as a persistent JSON message routed to the
// queue through the default exchange.
func (p *AMQPPublisher) PublishLogin(ctx context.Context, ev q.LoginEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(dialTimeout(ctx))})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// dialTimeout derives the TCP dial timeout from ctx, defaulting to 3s.
func dialTimeout(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
		return time.Millisecond
	}
	return 3 * time.Second
}

// LoginAuditor publishes login events in the background so the login
// response never waits on the broker.
type LoginAuditor struct {
	pub     AuditPublisher
	timeout time.Duration
	log     *logger.Logger
	wg      sync.WaitGroup
}

func NewLoginAuditor(pub AuditPublisher, timeout time.Duration, log *logger.Logger) *LoginAuditor {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &LoginAuditor{pub: pub, timeout: timeout, log: log}
}

// Record stamps ev with the current time and publishes it asynchronously.
// Publish errors are logged, never returned.
func (a *LoginAuditor) Record(ev q.LoginEvent) {
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.pub.PublishLogin(ctx, ev); err != nil {
			a.log.Warn("audit publish failed", "outcome", ev.Outcome, "error", err)
		}
	}()
}

// Wait blocks until every in-flight Record has finished.
func (a *LoginAuditor) Wait() { a.wg.Wait() }
