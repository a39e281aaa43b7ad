package rmq

import (
	"context"
	"fmt"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultPrefetch = 10

// session is one connection with one channel bound to a durable queue.
type session struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func open(url, queue string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rmq declare %s: %w", queue, err)
	}
	return &session{conn: conn, ch: ch, queue: queue}, nil
}

func (s *session) Close() error {
	_ = s.ch.Close()
	return s.conn.Close()
}

// Publisher writes persistent JSON messages to a single queue.
type Publisher struct {
	*session
	appID string
}

func NewPublisher(url, queue string) (*Publisher, error) {
	s, err := open(url, queue)
	if err != nil {
		return nil, err
	}
	return &Publisher{session: s, appID: appID()}, nil
}

func (p *Publisher) PublishJSON(ctx context.Context, body []byte) error {
	return p.PublishJSONWithHeaders(ctx, body, nil)
}

func (p *Publisher) PublishJSONWithHeaders(ctx context.Context, body []byte, headers amqp.Table) error {
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		Headers:      headers,
		AppId:        p.appID,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Consumer reads with manual acks and a bounded prefetch.
type Consumer struct {
	*session
}

func NewConsumer(url, queue string, prefetch int) (*Consumer, error) {
	s, err := open(url, queue)
	if err != nil {
		return nil, err
	}
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}
	if err := s.ch.Qos(prefetch, 0, false); err != nil {
		s.Close()
		return nil, fmt.Errorf("rmq qos: %w", err)
	}
	return &Consumer{session: s}, nil
}

func (c *Consumer) Consume() (<-chan amqp.Delivery, error) {
	return c.ch.Consume(c.queue, appID(), false, false, false, false, nil)
}

func appID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "coldmailer"
	}
	return "coldmailer@" + host
}
