package repo

import (
	"context"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/google/uuid"
)

type (
	PayloadRepo interface {
		UploadBytes(ctx context.Context, key string, data []byte, contentType string) error
		DownloadBytes(ctx context.Context, key string) ([]byte, error)
		Delete(ctx context.Context, key string) error
	}

	DeadLetterRepo interface {
		Create(ctx context.Context, letter *entity.DeadLetter) error
		GetPending(ctx context.Context, limit int, maxRetries int) ([]*entity.DeadLetter, error)
		MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error
		IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error
		ReleaseBatch(ctx context.Context, IDs uuid.UUIDs) error
		ReclaimStaleProcessing(ctx context.Context, before time.Time) (int64, error)
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) (int64, error)
		DeleteOldProcessedAndFailed(ctx context.Context, before time.Time) ([]string, error)
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}
)
