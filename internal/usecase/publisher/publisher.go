package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/metrics"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/types/errs"
	"github.com/google/uuid"
)

const (
	ContentPublishedType = "cms-content-published"
	JSONContentType      = "application/json"

	// RFC3339 with a numeric offset, UTC renders as +00:00.
	LastModifiedLayout = "2006-01-02T15:04:05.999999999-07:00"
)

type Sender interface {
	SendMessages(ctx context.Context, messages []*entity.Message) error
}

type messageBody struct {
	ContentURI   string          `json:"contentUri"`
	Payload      *entity.Content `json:"payload"`
	LastModified string          `json:"lastModified"`
}

// Publisher wraps mapped content into a keyed message and hands it to the sender.
type Publisher struct {
	sender           Sender
	originSystemID   string
	contentURIPrefix string

	marshal func(v any) ([]byte, error)
	now     func() time.Time

	logger logger.Interface
}

func New(sender Sender, originSystemID, contentURIPrefix string, l logger.Interface, opts ...Option) *Publisher {
	p := &Publisher{
		sender:           sender,
		originSystemID:   originSystemID,
		contentURIPrefix: strings.TrimRight(contentURIPrefix, "/"),
		marshal:          json.Marshal,
		now:              time.Now,
		logger:           l,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Publisher) Publish(ctx context.Context, content *entity.Content) error {
	msg, err := p.CreateMessage(content)
	if err != nil {
		p.logger.Error(err, "Publisher - Publish - p.CreateMessage")

		return fmt.Errorf("Publisher - Publish - p.CreateMessage: %w", err)
	}

	err = p.sender.SendMessages(ctx, []*entity.Message{msg})
	if err != nil {
		return fmt.Errorf("Publisher - Publish - p.sender.SendMessages: %w", err)
	}

	metrics.MessagesPublished.Inc()
	p.logger.Info("sent 1 message for image set %s, transaction_id=%s", content.UUID, content.PublishReference)

	return nil
}

// CreateMessage builds the outbound message for content without sending it.
func (p *Publisher) CreateMessage(content *entity.Content) (*entity.Message, error) {
	p.logger.Debug("Last Modified Date is: %s", content.LastModified)

	body := messageBody{
		ContentURI:   p.contentURIPrefix + "/" + content.UUID,
		Payload:      content,
		LastModified: content.LastModified.UTC().Format(LastModifiedLayout),
	}

	b, err := p.marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrEnvelopeSerialization)
	}

	return &entity.Message{
		ID:             uuid.NewString(),
		Type:           ContentPublishedType,
		OriginSystemID: p.originSystemID,
		ContentType:    JSONContentType,
		Timestamp:      p.now().UTC(),
		Headers: map[string]string{
			entity.TransactionIDHeader: content.PublishReference,
		},
		Key:  content.UUID,
		Body: b,
	}, nil
}
