package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const brokerHeartbeat = 10 * time.Second

// Publisher represents behavior for domain events publishers
type Publisher interface {
	Publish(context.Context, Event) Outcome
	Connected() bool
	Close()
}

// AMQPPublisher publishes domain events to a durable fanout exchange over a
// single shared channel. Publishes are serialized internally, so the publisher
// is safe for concurrent use by multiple in-flight requests
type AMQPPublisher struct {
	url      string
	exchange string
	timeout  time.Duration
	logger   logrus.FieldLogger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher builds new AMQPPublisher
func NewAMQPPublisher(url string, exchange string, timeout time.Duration, logger logrus.FieldLogger) *AMQPPublisher {
	return &AMQPPublisher{
		url:      url,
		exchange: exchange,
		timeout:  timeout,
		logger:   logger,
	}
}

// Connect establishes connection to the broker eagerly. Connection failure is
// not fatal - the next publish attempt redials on demand
func (p *AMQPPublisher) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := p.channel()
	return err
}

// Connected reports whether broker connection is currently established
func (p *AMQPPublisher) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.conn != nil && !p.conn.IsClosed()
}

// Publish sends event to the fanout exchange and waits for broker
// confirmation within the configured timeout. Transport failures are never
// raised to the caller - they always resolve to an Outcome value
func (p *AMQPPublisher) Publish(ctx context.Context, e Event) Outcome {
	body, err := json.Marshal(e)
	if err != nil {
		return FailedOutcome(fmt.Errorf("failed to serialize %s event - %w", e.Type, err))
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return p.failure(ctx, err)
	}

	confirmation, err := ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		p.reset()
		return p.failure(ctx, err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		p.reset()
		return p.failure(ctx, err)
	}

	if !acked {
		return FailedOutcome(errors.New("broker rejected the message"))
	}
	return DeliveredOutcome()
}

// Close releases channel and connection on shutdown
func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return
	}

	p.reset()
	p.logger.Info("disconnected from broker")
}

// channel returns currently open channel or redials. Caller must hold p.mu
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: brokerHeartbeat,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to establish connection to broker - %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		closeQuietly(conn.Close)
		return nil, fmt.Errorf("failed to open broker channel - %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		closeQuietly(ch.Close, conn.Close)
		return nil, fmt.Errorf("failed to put broker channel in confirm mode - %w", err)
	}

	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		closeQuietly(ch.Close, conn.Close)
		return nil, fmt.Errorf("failed to declare exchange %s - %w", p.exchange, err)
	}

	p.conn = conn
	p.ch = ch
	p.logger.Infof("connected to broker, fanout exchange %s is declared", p.exchange)

	return p.ch, nil
}

// reset tears connection down so the next publish redials. Caller must hold p.mu
func (p *AMQPPublisher) reset() {
	if p.ch != nil && !p.ch.IsClosed() {
		closeQuietly(p.ch.Close)
	}
	if p.conn != nil && !p.conn.IsClosed() {
		closeQuietly(p.conn.Close)
	}
	p.conn = nil
	p.ch = nil
}

func (p *AMQPPublisher) failure(ctx context.Context, err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return TimedOutOutcome(err)
	}
	return FailedOutcome(err)
}

func closeQuietly(closers ...func() error) {
	for _, closeFn := range closers {
		_ = closeFn()
	}
}
