package kafka

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

type EventProducer struct {
	*producer.Producer
}

func NewEventProducer(producer *producer.Producer) *EventProducer {
	return &EventProducer{producer}
}

func (ep *EventProducer) SendMessages(ctx context.Context, messages []*entity.Message) error {
	var msgsToSend []kafka.Message

	for _, m := range messages {
		msgsToSend = append(msgsToSend, ToKafkaMessage(m))
	}

	if len(msgsToSend) == 0 {
		return nil
	}

	err := ep.Writer.WriteMessages(ctx, msgsToSend...)
	if err != nil {
		return fmt.Errorf("EventProducer - SendMessages - ep.Writer.WriteMessages: %w", err)
	}

	return nil
}

func (ep *EventProducer) Close() error {
	err := ep.Producer.Close()
	if err != nil {
		return fmt.Errorf("EventProducer - Close: %w", err)
	}

	return nil
}
