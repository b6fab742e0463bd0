package producer

import (
	"time"

	"github.com/segmentio/kafka-go"
)

type Option func(*Producer)

func ConnAttempts(attempts int) Option {
	return func(p *Producer) {
		p.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(p *Producer) {
		p.connTimeout = timeout
	}
}

func BatchTimeout(timeout time.Duration) Option {
	return func(p *Producer) {
		p.batchTimeout = timeout
	}
}

// Balancer overrides key hashing. Messages for one key must stay on one partition.
func Balancer(balancer kafka.Balancer) Option {
	return func(p *Producer) {
		p.balancer = balancer
	}
}
