package kafka

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/infrastructure"
	kafkapc "github.com/andreyxaxa/Image-Set-Mapper/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/imageset"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const (
	_defaultCommitTimeout     = 2 * time.Second
	_defaultProcessTimeout    = 15 * time.Second
	_defaultDeadLetterTimeout = 5 * time.Second
	_defaultRetryBackoff      = time.Second
	_defaultPartitionBuffer   = 16
)

// KafkaController consumes publication events. Events of one partition are
// handled strictly in offset order by a single worker, and an offset is
// committed only after its event was published, skipped or dead-lettered.
type KafkaController struct {
	is     usecase.ImageSetUseCase
	dl     usecase.DeadLetterUseCase
	ec     infrastructure.EventsReceiver
	logger logger.Interface

	commitTimeout     time.Duration
	processTimeout    time.Duration
	deadLetterTimeout time.Duration
	retryBackoff      time.Duration
	partitionBuffer   int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

// New builds the controller. dl may be nil, then failed events are only logged.
func New(
	is usecase.ImageSetUseCase,
	dl usecase.DeadLetterUseCase,
	ec infrastructure.EventsReceiver,
	l logger.Interface,
	opts ...Option,
) *KafkaController {
	c := &KafkaController{
		is:                is,
		dl:                dl,
		ec:                ec,
		logger:            l,
		commitTimeout:     _defaultCommitTimeout,
		processTimeout:    _defaultProcessTimeout,
		deadLetterTimeout: _defaultDeadLetterTimeout,
		retryBackoff:      _defaultRetryBackoff,
		partitionBuffer:   _defaultPartitionBuffer,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *KafkaController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("KafkaController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.read()

	return nil
}

// read fetches events and routes each to the queue of its partition.
func (c *KafkaController) read() {
	defer c.wg.Done()

	partitions := make(map[int]chan kafka.Message)
	defer func() {
		for _, events := range partitions {
			close(events)
		}
	}()

	for {
		// 1. читаем из кафки
		event, err := c.ec.ReadEvent(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			c.logger.Error(err, "KafkaController - read - c.ec.ReadEvent")

			continue
		}

		// 2. находим очередь партиции, воркер заводим при первом событии
		events, ok := partitions[event.Partition]
		if !ok {
			events = make(chan kafka.Message, c.partitionBuffer)
			partitions[event.Partition] = events

			c.wg.Add(1)
			go c.partitionWorker(event.Partition, events)
		}

		// 3. отправляем в очередь
		select {
		case events <- event:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *KafkaController) partitionWorker(partition int, events <-chan kafka.Message) {
	defer c.wg.Done()

	for event := range events {
		if !c.handle(event) {
			c.logger.Info("KafkaController - partitionWorker - partition %d stopped at offset %d", partition, event.Offset)

			return
		}
	}
}

// handle processes event until it is settled, then commits it. The next event
// of the partition is not taken before that, so no later offset is committed
// past an unsettled one. Reports false when the controller stops first.
func (c *KafkaController) handle(event kafka.Message) bool {
	for {
		processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
		err := c.Process(processCtx, event)
		processCancel()
		if err == nil {
			break
		}

		c.logger.Error(err, "KafkaController - handle - c.Process, partition=%d, offset=%d", event.Partition, event.Offset)

		select {
		case <-time.After(c.retryBackoff):
		case <-c.ctx.Done():
			return false
		}
	}

	// коммит не отменяется остановкой, обработанное событие должно дойти до кафки
	commitCtx, commitCancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.commitTimeout)
	err := c.ec.CommitEvent(commitCtx, event)
	commitCancel()
	if err != nil {
		c.logger.Error(err, "KafkaController - handle - c.ec.CommitEvent")
	}

	return true
}

// Process handles one event. A nil error means the event may be committed.
func (c *KafkaController) Process(ctx context.Context, event kafka.Message) error {
	// 1. собираем сообщение из заголовков
	msg := kafkapc.FromKafkaMessage(event)
	if msg.TransactionID() == "" {
		msg.Headers[entity.TransactionIDHeader] = entity.NewTransactionID()
	}

	// 2. прогоняем через конвейер
	outcome := c.handleEvent(ctx, msg)
	if outcome.Handled() {
		return nil
	}

	c.logger.Error(outcome.Err, "KafkaController - Process - %s, transaction_id=%s", outcome.Reason, msg.TransactionID())

	if c.dl == nil {
		return nil
	}

	// 3. откладываем в dead letters, у записи свой таймаут
	writeCtx, writeCancel := context.WithTimeout(context.WithoutCancel(ctx), c.deadLetterTimeout)
	defer writeCancel()

	_, err := c.dl.Write(writeCtx, msg, outcome.Reason, outcome.Retryable)
	if err != nil {
		return fmt.Errorf("KafkaController - Process - c.dl.Write: %w", err)
	}

	return nil
}

// handleEvent turns a panic in the pipeline into a terminal failure.
func (c *KafkaController) handleEvent(ctx context.Context, msg *entity.Message) (outcome imageset.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = imageset.Outcome{
				Kind:   imageset.Failed,
				Reason: "panic while handling event",
				Err:    fmt.Errorf("panic: %v", r),
			}
		}
	}()

	return c.is.HandleEvent(ctx, msg)
}

func (c *KafkaController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("KafkaController - Shutdown - workers did not stop: %w", ctx.Err())
	}

	err := c.ec.Close()
	if err != nil {
		return fmt.Errorf("KafkaController - Shutdown - c.ec.Close: %w", err)
	}

	return nil
}
