package deadletter

import (
	"maps"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/google/uuid"
)

func ids(letters []*entity.DeadLetter) uuid.UUIDs {
	res := make(uuid.UUIDs, 0, len(letters))
	for _, letter := range letters {
		res = append(res, letter.ID)
	}

	return res
}

// messageHeaders keeps every header of the message, the standard ones included.
func messageHeaders(msg *entity.Message) map[string]string {
	headers := make(map[string]string, len(msg.Headers)+4)
	maps.Copy(headers, msg.Headers)

	headers[entity.MessageIDHeader] = msg.ID
	headers[entity.MessageTypeHeader] = msg.Type
	headers[entity.OriginSystemIDHeader] = msg.OriginSystemID
	headers[entity.ContentTypeHeader] = msg.ContentType
	headers[entity.MessageTimestampHeader] = msg.Timestamp.UTC().Format(entity.MessageTimestampLayout)

	return headers
}

func restoreMessage(letter *entity.DeadLetter, body []byte) *entity.Message {
	headers := make(map[string]string, len(letter.Headers))
	maps.Copy(headers, letter.Headers)

	msg := &entity.Message{
		ID:             headers[entity.MessageIDHeader],
		Type:           headers[entity.MessageTypeHeader],
		OriginSystemID: headers[entity.OriginSystemIDHeader],
		ContentType:    headers[entity.ContentTypeHeader],
		Headers:        headers,
		Body:           body,
	}

	ts, err := time.Parse(entity.MessageTimestampLayout, headers[entity.MessageTimestampHeader])
	if err != nil {
		ts = letter.CreatedAt
	}
	msg.Timestamp = ts.UTC()

	if msg.ID == "" {
		msg.ID = letter.MessageID
	}
	if msg.TransactionID() == "" && letter.TransactionID != "" {
		msg.Headers[entity.TransactionIDHeader] = letter.TransactionID
	}

	return msg
}
