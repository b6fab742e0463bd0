package kafka

import (
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/segmentio/kafka-go"
)

// ToKafkaMessage puts the standard headers first and appends the remaining custom ones.
func ToKafkaMessage(m *entity.Message) kafka.Message {
	headers := []kafka.Header{
		{Key: entity.MessageIDHeader, Value: []byte(m.ID)},
		{Key: entity.MessageTypeHeader, Value: []byte(m.Type)},
		{Key: entity.OriginSystemIDHeader, Value: []byte(m.OriginSystemID)},
		{Key: entity.ContentTypeHeader, Value: []byte(m.ContentType)},
		{Key: entity.MessageTimestampHeader, Value: []byte(m.Timestamp.UTC().Format(entity.MessageTimestampLayout))},
	}

	for k, v := range m.Headers {
		if isStandardHeader(k) {
			continue
		}
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	msg := kafka.Message{
		Value:   m.Body,
		Headers: headers,
	}
	if m.Key != "" {
		msg.Key = []byte(m.Key)
	}

	return msg
}

// FromKafkaMessage reads the standard headers back. The timestamp falls back
// to the record time when the header is missing or malformed.
func FromKafkaMessage(km kafka.Message) *entity.Message {
	m := &entity.Message{
		Key:     string(km.Key),
		Body:    km.Value,
		Headers: make(map[string]string, len(km.Headers)),
	}

	for _, h := range km.Headers {
		m.Headers[h.Key] = string(h.Value)
	}

	m.ID = m.Headers[entity.MessageIDHeader]
	m.Type = m.Headers[entity.MessageTypeHeader]
	m.OriginSystemID = m.Headers[entity.OriginSystemIDHeader]
	m.ContentType = m.Headers[entity.ContentTypeHeader]

	ts, err := time.Parse(entity.MessageTimestampLayout, m.Headers[entity.MessageTimestampHeader])
	if err != nil {
		ts = km.Time
	}
	m.Timestamp = ts.UTC()

	return m
}

func isStandardHeader(key string) bool {
	switch key {
	case entity.MessageIDHeader, entity.MessageTypeHeader, entity.OriginSystemIDHeader,
		entity.ContentTypeHeader, entity.MessageTimestampHeader:
		return true
	default:
		return false
	}
}
