package kafka_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	kafkactrl "github.com/andreyxaxa/Image-Set-Mapper/internal/controller/kafka"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/imageset"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageSet struct {
	mu       sync.Mutex
	outcome  imageset.Outcome
	messages []*entity.Message
	// holdUntilDeadline makes HandleEvent spend the whole processing deadline.
	holdUntilDeadline bool
	panics            bool
}

func (f *fakeImageSet) Transform(context.Context, *entity.SourceRecord, string, time.Time) (*entity.Content, error) {
	return nil, errors.New("not used")
}

func (f *fakeImageSet) Publish(context.Context, *entity.SourceRecord, string, time.Time) (*entity.Content, error) {
	return nil, errors.New("not used")
}

func (f *fakeImageSet) HandleEvent(ctx context.Context, msg *entity.Message) imageset.Outcome {
	f.mu.Lock()
	f.messages = append(f.messages, msg)
	f.mu.Unlock()

	if f.panics {
		panic("nil record")
	}
	if f.holdUntilDeadline {
		<-ctx.Done()
	}

	return f.outcome
}

func (f *fakeImageSet) handledIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		ids = append(ids, m.ID)
	}

	return ids
}

type written struct {
	msg       *entity.Message
	reason    string
	retryable bool
}

type fakeDeadLetters struct {
	mu       sync.Mutex
	written  []written
	writeErr error
	// failures is how many writes of a message id fail before one succeeds, -1 for all of them.
	failures map[string]int
}

func (f *fakeDeadLetters) Write(ctx context.Context, msg *entity.Message, reason string, retryable bool) (*entity.DeadLetter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	if n := f.failures[msg.ID]; n != 0 {
		if n > 0 {
			f.failures[msg.ID] = n - 1
		}

		return nil, errors.New("db down")
	}
	f.written = append(f.written, written{msg, reason, retryable})

	return &entity.DeadLetter{}, nil
}

func (f *fakeDeadLetters) writtenIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.written))
	for _, w := range f.written {
		ids = append(ids, w.msg.ID)
	}

	return ids
}

func (f *fakeDeadLetters) LoadMessage(context.Context, *entity.DeadLetter) (*entity.Message, error) {
	return nil, nil
}

func (f *fakeDeadLetters) GetPending(context.Context, int, int) ([]*entity.DeadLetter, error) {
	return nil, nil
}

func (f *fakeDeadLetters) MarkAsProcessingBatch(context.Context, []*entity.DeadLetter) error {
	return nil
}

func (f *fakeDeadLetters) MarkAsProcessedBatch(context.Context, []*entity.DeadLetter) error {
	return nil
}

func (f *fakeDeadLetters) IncrementRetryCountBatch(context.Context, []*entity.DeadLetter) error {
	return nil
}

func (f *fakeDeadLetters) ReleaseBatch(context.Context, []*entity.DeadLetter) error {
	return nil
}

func (f *fakeDeadLetters) ReclaimStale(context.Context) error {
	return nil
}

func (f *fakeDeadLetters) MarkMaxRetriesAsFailed(context.Context, int) error {
	return nil
}

func (f *fakeDeadLetters) Cleanup(context.Context) error {
	return nil
}

type fakeReceiver struct {
	events    chan kafka.Message
	committed chan kafka.Message
}

func newFakeReceiver(events ...kafka.Message) *fakeReceiver {
	r := &fakeReceiver{
		events:    make(chan kafka.Message, len(events)),
		committed: make(chan kafka.Message, len(events)),
	}
	for _, e := range events {
		r.events <- e
	}

	return r
}

func (r *fakeReceiver) ReadEvent(ctx context.Context) (kafka.Message, error) {
	select {
	case e := <-r.events:
		return e, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReceiver) CommitEvent(_ context.Context, event kafka.Message) error {
	r.committed <- event

	return nil
}

func (r *fakeReceiver) Close() error {
	return nil
}

func event(txID string) kafka.Message {
	e := eventAt(0, 42, "message-1")
	if txID != "" {
		e.Headers = append(e.Headers, kafka.Header{Key: entity.TransactionIDHeader, Value: []byte(txID)})
	}

	return e
}

func eventAt(partition int, offset int64, messageID string) kafka.Message {
	return kafka.Message{
		Partition: partition,
		Offset:    offset,
		Value:     []byte(`{}`),
		Time:      time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		Headers: []kafka.Header{
			{Key: entity.MessageIDHeader, Value: []byte(messageID)},
			{Key: entity.OriginSystemIDHeader, Value: []byte("http://cmdb.ft.com/systems/methode-web-pub")},
		},
	}
}

func newController(is *fakeImageSet, dl *fakeDeadLetters, ec *fakeReceiver, opts ...kafkactrl.Option) *kafkactrl.KafkaController {
	opts = append([]kafkactrl.Option{
		kafkactrl.CommitTimeout(time.Second),
		kafkactrl.ProcessTimeout(time.Second),
		kafkactrl.RetryBackoff(10 * time.Millisecond),
	}, opts...)

	if dl == nil {
		return kafkactrl.New(is, nil, ec, logger.Nop(), opts...)
	}

	return kafkactrl.New(is, dl, ec, logger.Nop(), opts...)
}

func nextCommit(t *testing.T, ec *fakeReceiver) kafka.Message {
	t.Helper()

	select {
	case committed := <-ec.committed:
		return committed
	case <-time.After(2 * time.Second):
		t.Fatal("event was not committed")
	}

	return kafka.Message{}
}

func shutdown(t *testing.T, c *kafkactrl.KafkaController) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, c.Shutdown(ctx))
}

func TestProcess_HandledEventIsNotDeadLettered(t *testing.T) {
	for _, kind := range []imageset.Kind{imageset.Mapped, imageset.Skipped} {
		is := &fakeImageSet{outcome: imageset.Outcome{Kind: kind}}
		dl := &fakeDeadLetters{}

		err := newController(is, dl, newFakeReceiver()).Process(context.Background(), event("tid_abc"))
		require.NoError(t, err)

		require.Len(t, is.messages, 1)
		assert.Equal(t, "message-1", is.messages[0].ID)
		assert.Equal(t, "tid_abc", is.messages[0].TransactionID())
		assert.Empty(t, dl.written)
	}
}

func TestProcess_GeneratesTransactionID(t *testing.T) {
	is := &fakeImageSet{outcome: imageset.Outcome{Kind: imageset.Mapped}}

	err := newController(is, nil, newFakeReceiver()).Process(context.Background(), event(""))
	require.NoError(t, err)

	txID := is.messages[0].TransactionID()
	assert.True(t, strings.HasPrefix(txID, "tid_"))
	assert.Len(t, txID, 14)
}

func TestProcess_FailedEventIsDeadLettered(t *testing.T) {
	is := &fakeImageSet{outcome: imageset.Outcome{
		Kind: imageset.Failed, Reason: "unable to publish message", Err: errors.New("broker down"), Retryable: true,
	}}
	dl := &fakeDeadLetters{}

	err := newController(is, dl, newFakeReceiver()).Process(context.Background(), event("tid_abc"))
	require.NoError(t, err)

	require.Len(t, dl.written, 1)
	assert.Equal(t, "unable to publish message", dl.written[0].reason)
	assert.True(t, dl.written[0].retryable)
	assert.Equal(t, "tid_abc", dl.written[0].msg.TransactionID())
}

func TestProcess_DeadLetterWriteFailureBlocksCommit(t *testing.T) {
	is := &fakeImageSet{outcome: imageset.Outcome{Kind: imageset.Failed, Err: errors.New("boom")}}
	dl := &fakeDeadLetters{writeErr: errors.New("db down")}

	err := newController(is, dl, newFakeReceiver()).Process(context.Background(), event("tid_abc"))
	assert.Error(t, err)
}

func TestProcess_FailedEventWithoutDeadLetterStoreIsCommitted(t *testing.T) {
	is := &fakeImageSet{outcome: imageset.Outcome{Kind: imageset.Failed, Err: errors.New("boom")}}

	err := newController(is, nil, newFakeReceiver()).Process(context.Background(), event("tid_abc"))
	assert.NoError(t, err)
}

func TestProcess_DeadLetterWriteOutlivesProcessDeadline(t *testing.T) {
	is := &fakeImageSet{
		outcome:           imageset.Outcome{Kind: imageset.Failed, Reason: "unable to publish message", Err: errors.New("timeout"), Retryable: true},
		holdUntilDeadline: true,
	}
	dl := &fakeDeadLetters{}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := newController(is, dl, newFakeReceiver()).Process(ctx, event("tid_abc"))
	require.NoError(t, err)

	assert.Equal(t, []string{"message-1"}, dl.writtenIDs())
}

func TestProcess_PanicIsDeadLetteredAsTerminal(t *testing.T) {
	is := &fakeImageSet{panics: true}
	dl := &fakeDeadLetters{}

	err := newController(is, dl, newFakeReceiver()).Process(context.Background(), event("tid_abc"))
	require.NoError(t, err)

	require.Len(t, dl.written, 1)
	assert.False(t, dl.written[0].retryable)
	assert.Equal(t, "panic while handling event", dl.written[0].reason)
}

func TestStart_CommitsProcessedEvents(t *testing.T) {
	is := &fakeImageSet{outcome: imageset.Outcome{Kind: imageset.Mapped}}
	ec := newFakeReceiver(eventAt(0, 1, "message-1"), eventAt(0, 2, "message-2"))
	c := newController(is, nil, ec)

	require.NoError(t, c.Start(context.Background()))
	assert.Error(t, c.Start(context.Background()))

	assert.Equal(t, int64(1), nextCommit(t, ec).Offset)
	assert.Equal(t, int64(2), nextCommit(t, ec).Offset)

	shutdown(t, c)
}

func TestStart_PartitionCommitsInOffsetOrder(t *testing.T) {
	is := &fakeImageSet{outcome: imageset.Outcome{Kind: imageset.Failed, Err: errors.New("broker down"), Retryable: true}}
	// запись для смещения 10 дважды падает, потом проходит
	dl := &fakeDeadLetters{failures: map[string]int{"message-10": 2}}
	ec := newFakeReceiver(eventAt(0, 10, "message-10"), eventAt(0, 11, "message-11"))
	c := newController(is, dl, ec)

	require.NoError(t, c.Start(context.Background()))

	assert.Equal(t, int64(10), nextCommit(t, ec).Offset)
	assert.Equal(t, int64(11), nextCommit(t, ec).Offset)

	shutdown(t, c)

	assert.Equal(t, []string{"message-10", "message-10", "message-10", "message-11"}, is.handledIDs())
	assert.Equal(t, []string{"message-10", "message-11"}, dl.writtenIDs())
}

func TestStart_DeadLetterOutageHoldsPartition(t *testing.T) {
	is := &fakeImageSet{outcome: imageset.Outcome{Kind: imageset.Failed, Err: errors.New("broker down"), Retryable: true}}
	dl := &fakeDeadLetters{failures: map[string]int{"message-10": -1}}
	ec := newFakeReceiver(
		eventAt(0, 10, "message-10"),
		eventAt(0, 11, "message-11"),
		eventAt(1, 7, "message-7"),
	)
	c := newController(is, dl, ec)

	require.NoError(t, c.Start(context.Background()))

	// другая партиция не ждёт заблокированную
	committed := nextCommit(t, ec)
	assert.Equal(t, 1, committed.Partition)
	assert.Equal(t, int64(7), committed.Offset)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, ec.committed)

	shutdown(t, c)

	assert.Empty(t, ec.committed)
	assert.NotContains(t, is.handledIDs(), "message-11")
	assert.Equal(t, []string{"message-7"}, dl.writtenIDs())
}
