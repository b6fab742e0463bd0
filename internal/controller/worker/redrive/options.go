package redrive

import "time"

type Option func(*Redrive)

func PollInterval(interval time.Duration) Option {
	return func(r *Redrive) {
		r.pollInterval = interval
	}
}

func CleanupInterval(interval time.Duration) Option {
	return func(r *Redrive) {
		r.cleanupInterval = interval
	}
}

// MarkFailedInterval also paces reclaiming letters stuck in processing.
func MarkFailedInterval(interval time.Duration) Option {
	return func(r *Redrive) {
		r.markFailedInterval = interval
	}
}

func ProcessBatchTimeout(timeout time.Duration) Option {
	return func(r *Redrive) {
		r.processBatchTimeout = timeout
	}
}

// StatusTimeout bounds the status updates that settle a batch. They run after
// the batch deadline if needed.
func StatusTimeout(timeout time.Duration) Option {
	return func(r *Redrive) {
		r.statusTimeout = timeout
	}
}

func BatchSize(size int) Option {
	return func(r *Redrive) {
		r.batchSize = size
	}
}

func MaxRetries(n int) Option {
	return func(r *Redrive) {
		r.maxRetries = n
	}
}
