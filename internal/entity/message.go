package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MessageIDHeader        = "Message-Id"
	MessageTypeHeader      = "Message-Type"
	OriginSystemIDHeader   = "Origin-System-Id"
	ContentTypeHeader      = "Content-Type"
	MessageTimestampHeader = "Message-Timestamp"
	TransactionIDHeader    = "X-Request-Id"

	// MessageTimestampLayout is the timestamp format carried in Message-Timestamp.
	MessageTimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Message is a keyed event as it travels over the bus, in either direction.
type Message struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	OriginSystemID string            `json:"origin_system_id"`
	ContentType    string            `json:"content_type"`
	Timestamp      time.Time         `json:"timestamp"`
	Headers        map[string]string `json:"headers,omitempty"`
	Key            string            `json:"key,omitempty"`
	Body           []byte            `json:"body"`
}

func (m *Message) TransactionID() string {
	if m.Headers == nil {
		return ""
	}

	return m.Headers[TransactionIDHeader]
}

const systemIDPrefix = "http://cmdb.ft.com/systems/"

// SystemIDFromCode turns a short system code into the origin system id carried on messages.
func SystemIDFromCode(code string) string {
	if strings.HasPrefix(code, systemIDPrefix) {
		return code
	}

	return systemIDPrefix + code
}

// NewTransactionID generates an id in the tid_xxxxxxxxxx form used when a message arrives without one.
func NewTransactionID() string {
	return "tid_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
