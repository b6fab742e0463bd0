package producer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
	_defaultBatchTimeout = 10 * time.Millisecond
)

type Producer struct {
	connAttempts int
	connTimeout  time.Duration
	batchTimeout time.Duration
	balancer     kafka.Balancer

	brokers []string
	topic   string
	Writer  *kafka.Writer
}

func New(ctx context.Context, brokers []string, topic string, opts ...Option) (*Producer, error) {
	p := &Producer{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		batchTimeout: _defaultBatchTimeout,
		balancer:     &kafka.Hash{},
		brokers:      brokers,
		topic:        topic,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.Writer = &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        p.topic,
		Balancer:     p.balancer,
		BatchTimeout: p.batchTimeout,
		RequiredAcks: kafka.RequireAll,
	}

	var err error
	for p.connAttempts > 0 {
		err = p.Ping(ctx)
		if err == nil {
			break
		}

		log.Printf("Kafka producer is trying to connect, attempts left: %d", p.connAttempts)

		time.Sleep(p.connTimeout)

		p.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("Kafka Producer - New - connAttempts == 0: %w", err)
	}

	return p, nil
}

// Ping checks that the first broker answers a metadata request.
func (p *Producer) Ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("Kafka Producer - kafka.DialContext: %w", err)
	}
	defer conn.Close()

	_, err = conn.Brokers()
	if err != nil {
		return fmt.Errorf("Kafka Producer - conn.Brokers: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	if p.Writer != nil {
		return p.Writer.Close()
	}

	return nil
}
