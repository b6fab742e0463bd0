package usecase

import (
	"context"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/imageset"
)

type (
	ImageSetUseCase interface {
		Transform(ctx context.Context, record *entity.SourceRecord, transactionID string, lastModified time.Time) (*entity.Content, error)
		Publish(ctx context.Context, record *entity.SourceRecord, transactionID string, lastModified time.Time) (*entity.Content, error)
		HandleEvent(ctx context.Context, msg *entity.Message) imageset.Outcome
	}

	DeadLetterUseCase interface {
		Write(ctx context.Context, msg *entity.Message, reason string, retryable bool) (*entity.DeadLetter, error)
		LoadMessage(ctx context.Context, letter *entity.DeadLetter) (*entity.Message, error)
		GetPending(ctx context.Context, maxRetries, limit int) ([]*entity.DeadLetter, error)
		MarkAsProcessingBatch(ctx context.Context, letters []*entity.DeadLetter) error
		MarkAsProcessedBatch(ctx context.Context, letters []*entity.DeadLetter) error
		IncrementRetryCountBatch(ctx context.Context, letters []*entity.DeadLetter) error
		ReleaseBatch(ctx context.Context, letters []*entity.DeadLetter) error
		ReclaimStale(ctx context.Context) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		Cleanup(ctx context.Context) error
	}
)
