package entity

import (
	"time"

	"github.com/google/uuid"
)

// DeadLetter is an inbound message whose processing failed. The message
// body lives in object storage under PayloadKey.
type DeadLetter struct {
	ID            uuid.UUID         `json:"id"`
	MessageID     string            `json:"message_id"`
	TransactionID string            `json:"transaction_id"`
	PayloadKey    string            `json:"payload_key"`
	Headers       map[string]string `json:"headers"`
	Reason        string            `json:"reason"`
	Retryable     bool              `json:"retryable"`
	Status        Status            `json:"status"` // pending, processing, processed, failed
	CreatedAt     time.Time         `json:"created_at"`
	ProcessedAt   *time.Time        `json:"processed_at,omitempty"`
	RetryCount    int               `json:"retry_count"`
}
