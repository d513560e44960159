// Package messaging forwards ledger delta notifications to an AMQP exchange.
package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultBufferSize bounds the number of deltas waiting to be published.
	DefaultBufferSize = 256
	publishTimeout    = 5 * time.Second
	drainTimeout      = 10 * time.Second
)

// channel is the subset of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// DeltaPublisher is a delta listener that publishes each event as a
// persistent JSON message. Publishing happens on a background worker so a
// slow broker never stalls a ledger mutation; when the buffer is full the
// event is dropped with a warning.
type DeltaPublisher struct {
	conn       *amqp091.Connection
	ch         channel
	exchange   string
	routingKey string
	logger     *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan *ExpenseDeltaMessage
	wg     sync.WaitGroup
}

// NewDeltaPublisher dials the broker and declares a durable topic exchange.
func NewDeltaPublisher(url, exchange, routingKey string, logger *slog.Logger) (*DeltaPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newDeltaPublisher(ch, exchange, routingKey, DefaultBufferSize, logger)
	p.conn = conn
	return p, nil
}

func newDeltaPublisher(ch channel, exchange, routingKey string, bufferSize int, logger *slog.Logger) *DeltaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	p := &DeltaPublisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger.With(slog.String("component", "amqp_delta_publisher")),
		queue:      make(chan *ExpenseDeltaMessage, bufferSize),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// OnExpenseDelta enqueues the event without blocking.
func (p *DeltaPublisher) OnExpenseDelta(ctx context.Context, event domain.DeltaEvent) {
	msg := NewExpenseDeltaMessage(event)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- msg:
	default:
		p.logger.WarnContext(ctx, "Delta queue full, dropping event",
			slog.String("expense_id", event.ExpenseID),
			slog.String("kind", string(event.Kind)))
	}
}

func (p *DeltaPublisher) run() {
	defer p.wg.Done()
	for msg := range p.queue {
		if err := p.publish(msg); err != nil {
			p.logger.Error("Failed to publish delta",
				slog.String("error", err.Error()),
				slog.String("expense_id", msg.ExpenseID))
		}
	}
}

func (p *DeltaPublisher) publish(msg *ExpenseDeltaMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.OccurredAt,
			Type:         msg.Kind,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.Debug("Published expense delta",
		slog.String("expense_id", msg.ExpenseID),
		slog.String("kind", msg.Kind),
		slog.String("exchange", p.exchange))
	return nil
}

// Close stops accepting events, waits for the queue to drain and closes the
// connection.
func (p *DeltaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(drainTimeout):
		p.logger.Warn("Timed out draining delta queue", slog.Int("pending", len(p.queue)))
	}

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
