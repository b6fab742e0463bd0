package redrive

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
)

const (
	_defaultPollInterval        = 30 * time.Second
	_defaultCleanupInterval     = 24 * time.Hour
	_defaultMarkFailedInterval  = 2 * time.Minute
	_defaultProcessBatchTimeout = 30 * time.Second
	_defaultStatusTimeout       = 5 * time.Second
	_defaultBatchSize           = 50
	_defaultMaxRetries          = 5
)

// Redrive periodically feeds pending dead letters back through the image set pipeline.
type Redrive struct {
	is     usecase.ImageSetUseCase
	dl     usecase.DeadLetterUseCase
	logger logger.Interface

	pollInterval        time.Duration
	cleanupInterval     time.Duration
	markFailedInterval  time.Duration
	processBatchTimeout time.Duration
	statusTimeout       time.Duration
	batchSize           int
	maxRetries          int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(is usecase.ImageSetUseCase, dl usecase.DeadLetterUseCase, l logger.Interface, opts ...Option) *Redrive {
	r := &Redrive{
		is:                  is,
		dl:                  dl,
		logger:              l,
		pollInterval:        _defaultPollInterval,
		cleanupInterval:     _defaultCleanupInterval,
		markFailedInterval:  _defaultMarkFailedInterval,
		processBatchTimeout: _defaultProcessBatchTimeout,
		statusTimeout:       _defaultStatusTimeout,
		batchSize:           _defaultBatchSize,
		maxRetries:          _defaultMaxRetries,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Redrive) Start(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return fmt.Errorf("Redrive - Start - worker already started")
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	// 1. воркер повторной обработки
	r.worker(r.pollInterval, func() {
		batchCtx, batchCancel := context.WithTimeout(r.ctx, r.processBatchTimeout)
		r.ProcessBatch(batchCtx)
		batchCancel()
	})

	// 2. воркер для зависших processing и пометки failed
	r.worker(r.markFailedInterval, r.settleStale)

	// 3. воркер очистки failed/processed
	r.worker(r.cleanupInterval, func() {
		err := r.dl.Cleanup(r.ctx)
		if err != nil {
			r.logger.Error(err, "Redrive - Start - worker - r.dl.Cleanup")
		}
	})

	return nil
}

// ProcessBatch runs one redrive pass.
func (r *Redrive) ProcessBatch(ctx context.Context) {
	// 1. получаем письма со статусом pending, у которых retry count < max retries
	letters, err := r.dl.GetPending(ctx, r.maxRetries, r.batchSize)
	if err != nil {
		r.logger.Error(err, "Redrive - ProcessBatch - r.dl.GetPending")

		return
	}
	if len(letters) == 0 {
		return
	}

	// 2. помечаем как processing
	err = r.dl.MarkAsProcessingBatch(ctx, letters)
	if err != nil {
		r.logger.Error(err, "Redrive - ProcessBatch - r.dl.MarkAsProcessingBatch")

		return
	}

	// 3. прогоняем каждое сообщение через весь конвейер заново
	var handled, failed, untouched []*entity.DeadLetter
	for i, letter := range letters {
		// дедлайн батча вышел, оставшиеся письма не трогаем
		if ctx.Err() != nil {
			untouched = letters[i:]

			break
		}

		if r.redrive(ctx, letter) {
			handled = append(handled, letter)
		} else {
			failed = append(failed, letter)
		}
	}

	// статусы обновляем и после дедлайна батча, иначе письма останутся в processing
	statusCtx, statusCancel := context.WithTimeout(context.WithoutCancel(ctx), r.statusTimeout)
	defer statusCancel()

	// 3.1 если не получилось - увеличиваем счетчик ретраев + возвращаем статус в pending
	err = r.dl.IncrementRetryCountBatch(statusCtx, failed)
	if err != nil {
		r.logger.Error(err, "Redrive - ProcessBatch - r.dl.IncrementRetryCountBatch")
	}

	// 3.2 до необработанных очередь не дошла - возвращаем в pending без ретрая
	err = r.dl.ReleaseBatch(statusCtx, untouched)
	if err != nil {
		r.logger.Error(err, "Redrive - ProcessBatch - r.dl.ReleaseBatch")
	}

	// 4. если удалось - помечаем как processed
	err = r.dl.MarkAsProcessedBatch(statusCtx, handled)
	if err != nil {
		r.logger.Error(err, "Redrive - ProcessBatch - r.dl.MarkAsProcessedBatch")
	}
}

// settleStale returns abandoned claims to pending, then parks letters out of retries.
func (r *Redrive) settleStale() {
	err := r.dl.ReclaimStale(r.ctx)
	if err != nil {
		r.logger.Error(err, "Redrive - settleStale - r.dl.ReclaimStale")
	}

	err = r.dl.MarkMaxRetriesAsFailed(r.ctx, r.maxRetries)
	if err != nil {
		r.logger.Error(err, "Redrive - settleStale - r.dl.MarkMaxRetriesAsFailed")
	}
}

func (r *Redrive) redrive(ctx context.Context, letter *entity.DeadLetter) bool {
	msg, err := r.dl.LoadMessage(ctx, letter)
	if err != nil {
		r.logger.Error(err, "Redrive - redrive - r.dl.LoadMessage")

		return false
	}

	outcome := r.is.HandleEvent(ctx, msg)
	if !outcome.Handled() {
		r.logger.Warn("dead letter %s failed again: %s, transaction_id=%s", letter.ID, outcome.Reason, letter.TransactionID)

		return false
	}

	r.logger.Info("dead letter %s redriven as %s, transaction_id=%s", letter.ID, outcome.Kind, letter.TransactionID)

	return true
}

func (r *Redrive) worker(interval time.Duration, task func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				task()
			}
		}
	}()
}

func (r *Redrive) Shutdown(ctx context.Context) error {
	if !r.started.Load() {
		return nil
	}

	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("Redrive - Shutdown - workers did not stop: %w", ctx.Err())
	}
}
