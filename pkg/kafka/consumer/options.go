package consumer

import "time"

type Option func(*Consumer)

func ConnAttempts(attempts int) Option {
	return func(c *Consumer) {
		c.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(c *Consumer) {
		c.connTimeout = timeout
	}
}

func FetchBytes(minBytes, maxBytes int) Option {
	return func(c *Consumer) {
		c.minBytes = minBytes
		c.maxBytes = maxBytes
	}
}

// StartOffset is used by a group that has no committed offset yet (kafka.FirstOffset or kafka.LastOffset).
func StartOffset(offset int64) Option {
	return func(c *Consumer) {
		c.startOffset = offset
	}
}
