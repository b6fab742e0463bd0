package kafka

import "time"

type Option func(*KafkaController)

func CommitTimeout(timeout time.Duration) Option {
	return func(c *KafkaController) {
		c.commitTimeout = timeout
	}
}

// ProcessTimeout bounds mapping and publishing of one event.
func ProcessTimeout(timeout time.Duration) Option {
	return func(c *KafkaController) {
		c.processTimeout = timeout
	}
}

// DeadLetterTimeout bounds the dead letter write. It runs on its own clock,
// after ProcessTimeout may already be spent.
func DeadLetterTimeout(timeout time.Duration) Option {
	return func(c *KafkaController) {
		c.deadLetterTimeout = timeout
	}
}

// RetryBackoff is the pause before an event whose dead letter write failed is handled again.
func RetryBackoff(backoff time.Duration) Option {
	return func(c *KafkaController) {
		c.retryBackoff = backoff
	}
}

// PartitionBuffer is how many fetched events may queue up for one partition.
func PartitionBuffer(size int) Option {
	return func(c *KafkaController) {
		if size > 0 {
			c.partitionBuffer = size
		}
	}
}
