package deadletter

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/metrics"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/repo"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/google/uuid"
)

const (
	_payloadPrefix      = "dead-letters/"
	_payloadContentType = "application/octet-stream"
	_defaultRetention   = 7 * 24 * time.Hour
	_defaultStaleAfter  = 10 * time.Minute
)

type UseCase struct {
	payloadRepo    repo.PayloadRepo
	deadLetterRepo repo.DeadLetterRepo
	transactor     repo.Transactor

	retention  time.Duration
	staleAfter time.Duration
	now        func() time.Time

	logger logger.Interface
}

func New(
	payloadRepo repo.PayloadRepo,
	deadLetterRepo repo.DeadLetterRepo,
	transactor repo.Transactor,
	l logger.Interface,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		payloadRepo:    payloadRepo,
		deadLetterRepo: deadLetterRepo,
		transactor:     transactor,
		retention:      _defaultRetention,
		staleAfter:     _defaultStaleAfter,
		now:            time.Now,
		logger:         l,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Write parks a failed message. Letters that cannot succeed on retry are stored as failed right away.
func (uc *UseCase) Write(ctx context.Context, msg *entity.Message, reason string, retryable bool) (*entity.DeadLetter, error) {
	id := uuid.New()
	payloadKey := _payloadPrefix + id.String()

	// 1. загружаем тело сообщения в S3
	err := uc.payloadRepo.UploadBytes(ctx, payloadKey, msg.Body, _payloadContentType)
	if err != nil {
		return nil, fmt.Errorf("DeadLetterUseCase - Write - uc.payloadRepo.UploadBytes: %w", err)
	}

	status := entity.Failed
	if retryable {
		status = entity.Pending
	}

	letter := &entity.DeadLetter{
		ID:            id,
		MessageID:     msg.ID,
		TransactionID: msg.TransactionID(),
		PayloadKey:    payloadKey,
		Headers:       messageHeaders(msg),
		Reason:        reason,
		Retryable:     retryable,
		Status:        status,
		CreatedAt:     uc.now(),
	}

	// 2. записываем метаданные в БД
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.deadLetterRepo.Create(ctx, letter); err != nil {
			return fmt.Errorf("DeadLetterUseCase - Write - uc.deadLetterRepo.Create: %w", err)
		}

		return nil
	})

	// если транзакция не прошла
	if err != nil {
		// удаляем созданный в S3 объект
		deleteErr := uc.payloadRepo.Delete(ctx, payloadKey)
		if deleteErr != nil {
			uc.logger.Error(deleteErr, "DeadLetterUseCase - Write - uc.payloadRepo.Delete")
		}

		return nil, fmt.Errorf("DeadLetterUseCase - Write - uc.transactor.WithinTransaction: %w", err)
	}

	metrics.DeadLettersTotal.WithLabelValues("written").Inc()
	uc.logger.Info("dead letter %s written for message %s, retryable=%t, transaction_id=%s",
		letter.ID, letter.MessageID, retryable, letter.TransactionID)

	return letter, nil
}

// LoadMessage rebuilds the original inbound message from a letter.
func (uc *UseCase) LoadMessage(ctx context.Context, letter *entity.DeadLetter) (*entity.Message, error) {
	body, err := uc.payloadRepo.DownloadBytes(ctx, letter.PayloadKey)
	if err != nil {
		return nil, fmt.Errorf("DeadLetterUseCase - LoadMessage - uc.payloadRepo.DownloadBytes: %w", err)
	}

	return restoreMessage(letter, body), nil
}

func (uc *UseCase) GetPending(ctx context.Context, maxRetries, limit int) ([]*entity.DeadLetter, error) {
	letters, err := uc.deadLetterRepo.GetPending(ctx, limit, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("DeadLetterUseCase - GetPending - uc.deadLetterRepo.GetPending: %w", err)
	}

	return letters, nil
}

func (uc *UseCase) MarkAsProcessingBatch(ctx context.Context, letters []*entity.DeadLetter) error {
	err := uc.deadLetterRepo.MarkAsProcessingBatch(ctx, ids(letters))
	if err != nil {
		return fmt.Errorf("DeadLetterUseCase - MarkAsProcessingBatch - uc.deadLetterRepo.MarkAsProcessingBatch: %w", err)
	}

	return nil
}

func (uc *UseCase) MarkAsProcessedBatch(ctx context.Context, letters []*entity.DeadLetter) error {
	if len(letters) == 0 {
		return nil
	}

	err := uc.deadLetterRepo.MarkAsProcessedBatch(ctx, ids(letters))
	if err != nil {
		return fmt.Errorf("DeadLetterUseCase - MarkAsProcessedBatch - uc.deadLetterRepo.MarkAsProcessedBatch: %w", err)
	}

	metrics.DeadLettersTotal.WithLabelValues("redriven").Add(float64(len(letters)))

	return nil
}

func (uc *UseCase) IncrementRetryCountBatch(ctx context.Context, letters []*entity.DeadLetter) error {
	if len(letters) == 0 {
		return nil
	}

	err := uc.deadLetterRepo.IncrementRetryCountBatch(ctx, ids(letters))
	if err != nil {
		return fmt.Errorf("DeadLetterUseCase - IncrementRetryCountBatch - uc.deadLetterRepo.IncrementRetryCountBatch: %w", err)
	}

	return nil
}

// ReleaseBatch returns letters that were claimed but never redriven to pending.
// Their retry count stays as is.
func (uc *UseCase) ReleaseBatch(ctx context.Context, letters []*entity.DeadLetter) error {
	if len(letters) == 0 {
		return nil
	}

	err := uc.deadLetterRepo.ReleaseBatch(ctx, ids(letters))
	if err != nil {
		return fmt.Errorf("DeadLetterUseCase - ReleaseBatch - uc.deadLetterRepo.ReleaseBatch: %w", err)
	}

	return nil
}

// ReclaimStale returns letters stuck in processing longer than the stale period to pending,
// e.g. after a redrive pass died before it could settle them.
func (uc *UseCase) ReclaimStale(ctx context.Context) error {
	n, err := uc.deadLetterRepo.ReclaimStaleProcessing(ctx, uc.now().Add(-uc.staleAfter))
	if err != nil {
		return fmt.Errorf("DeadLetterUseCase - ReclaimStale - uc.deadLetterRepo.ReclaimStaleProcessing: %w", err)
	}

	if n > 0 {
		metrics.DeadLettersTotal.WithLabelValues("reclaimed").Add(float64(n))
		uc.logger.Warn("%d dead letters reclaimed from processing", n)
	}

	return nil
}

func (uc *UseCase) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error {
	n, err := uc.deadLetterRepo.MarkMaxRetriesAsFailed(ctx, maxRetries)
	if err != nil {
		return fmt.Errorf("DeadLetterUseCase - MarkMaxRetriesAsFailed - uc.deadLetterRepo.MarkMaxRetriesAsFailed: %w", err)
	}

	if n > 0 {
		metrics.DeadLettersTotal.WithLabelValues("exhausted").Add(float64(n))
		uc.logger.Warn("%d dead letters reached max retries", n)
	}

	return nil
}

// Cleanup removes processed and failed letters older than the retention period together with their payloads.
func (uc *UseCase) Cleanup(ctx context.Context) error {
	keys, err := uc.deadLetterRepo.DeleteOldProcessedAndFailed(ctx, uc.now().Add(-uc.retention))
	if err != nil {
		return fmt.Errorf("DeadLetterUseCase - Cleanup - uc.deadLetterRepo.DeleteOldProcessedAndFailed: %w", err)
	}

	for _, key := range keys {
		err = uc.payloadRepo.Delete(ctx, key)
		if err != nil {
			uc.logger.Error(err, "DeadLetterUseCase - Cleanup - uc.payloadRepo.Delete")
		}
	}

	return nil
}
