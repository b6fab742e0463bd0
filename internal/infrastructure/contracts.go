package infrastructure

import (
	"context"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/segmentio/kafka-go"
)

type (
	MessagesSender interface {
		SendMessages(ctx context.Context, messages []*entity.Message) error
		Ping(ctx context.Context) error
		Close() error
	}

	EventsReceiver interface {
		ReadEvent(ctx context.Context) (kafka.Message, error)
		CommitEvent(ctx context.Context, event kafka.Message) error
		Close() error
	}
)
