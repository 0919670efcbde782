package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher is the part of *amqp.Channel the sink uses.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RowMessage is the JSON body published for each row.
type RowMessage struct {
	Sheet      string    `json:"sheet"`
	Columns    []string  `json:"columns"`
	OccurredAt time.Time `json:"occurredAt"`
}

// AMQPSink publishes rows to a topic exchange, keyed by RoutingKey(sheet).
// A downstream consumer owns writing them to the spreadsheet.
type AMQPSink struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       publisher
	closer   func() error
	exchange string
	now      func() time.Time
}

func NewAMQPSink(url, exchange string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPSink{
		conn:     conn,
		ch:       ch,
		closer:   ch.Close,
		exchange: exchange,
		now:      time.Now,
	}, nil
}

func newAMQPSinkWith(p publisher, exchange string) *AMQPSink {
	return &AMQPSink{ch: p, exchange: exchange, now: time.Now}
}

func (s *AMQPSink) AppendRow(ctx context.Context, sheet string, columns []string) error {
	body, err := json.Marshal(RowMessage{
		Sheet:      sheet,
		Columns:    columns,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		return err
	}

	// Channels are not safe for concurrent publishes.
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.ch.PublishWithContext(ctx, s.exchange, RoutingKey(sheet), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    s.now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", sheet, err)
	}
	return nil
}

func (s *AMQPSink) Close() error {
	if s.closer != nil {
		_ = s.closer()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
