package imageset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/metrics"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/validation"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/types/errs"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/uuidutils"
	"github.com/google/uuid"
)

type (
	PublishingValidator interface {
		IsValidForPublishing(record *entity.SourceRecord) bool
	}

	ContentMapper interface {
		Map(targetID string, record *entity.SourceRecord, transactionID string, lastModified time.Time) (*entity.Content, error)
	}

	ContentPublisher interface {
		Publish(ctx context.Context, content *entity.Content) error
	}
)

// UseCase turns native image records into published image sets.
type UseCase struct {
	originSystemID string

	validator PublishingValidator
	deriver   *uuidutils.Deriver
	mapper    ContentMapper
	publisher ContentPublisher

	logger logger.Interface
}

func New(
	originSystemID string,
	validator PublishingValidator,
	deriver *uuidutils.Deriver,
	mapper ContentMapper,
	publisher ContentPublisher,
	l logger.Interface,
) *UseCase {
	return &UseCase{
		originSystemID: originSystemID,
		validator:      validator,
		deriver:        deriver,
		mapper:         mapper,
		publisher:      publisher,
		logger:         l,
	}
}

// Transform maps record into image set content without publishing it.
func (uc *UseCase) Transform(ctx context.Context, record *entity.SourceRecord, transactionID string, lastModified time.Time) (*entity.Content, error) {
	// 1. проверяем формат uuid
	if err := validation.ValidateUUID(record.UUID); err != nil {
		return nil, fmt.Errorf("UseCase - Transform - validation.ValidateUUID: %w", err)
	}

	// 2. проверяем, можно ли публиковать
	if !uc.validator.IsValidForPublishing(record) {
		return nil, fmt.Errorf("UseCase - Transform - [%s] of type [%s]: %w", record.UUID, record.Type, errs.ErrNotPublishable)
	}

	// 3. вычисляем uuid набора изображений
	targetID := uc.deriver.From(uuid.MustParse(record.UUID)).String()

	uc.logger.Info("Importing content [%s] of type [%s] as image set [%s], transaction_id=%s",
		record.UUID, record.Type, targetID, transactionID)

	// 4. маппим атрибуты
	content, err := uc.mapper.Map(targetID, record, transactionID, lastModified)
	if err != nil {
		return nil, fmt.Errorf("UseCase - Transform - uc.mapper.Map: %w", err)
	}

	return content, nil
}

// Publish maps record and sends the resulting image set downstream.
func (uc *UseCase) Publish(ctx context.Context, record *entity.SourceRecord, transactionID string, lastModified time.Time) (*entity.Content, error) {
	content, err := uc.Transform(ctx, record, transactionID, lastModified)
	if err != nil {
		return nil, err
	}

	err = uc.publisher.Publish(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("UseCase - Publish - uc.publisher.Publish: %w", err)
	}

	return content, nil
}

// HandleEvent runs the whole pipeline for one inbound message.
func (uc *UseCase) HandleEvent(ctx context.Context, msg *entity.Message) Outcome {
	outcome := uc.handle(ctx, msg)
	metrics.EventsTotal.WithLabelValues(outcome.Kind.String()).Inc()

	return outcome
}

func (uc *UseCase) handle(ctx context.Context, msg *entity.Message) Outcome {
	if msg.OriginSystemID != uc.originSystemID {
		uc.logger.Info("skip message")
		uc.logger.Debug("skip message %s from %s", msg.ID, msg.OriginSystemID)

		return skipped("origin system " + msg.OriginSystemID)
	}

	uc.logger.Info("process message %s, transaction_id=%s", msg.ID, msg.TransactionID())

	var record entity.SourceRecord
	if err := json.Unmarshal(msg.Body, &record); err != nil {
		return failed("unable to parse native content message",
			fmt.Errorf("UseCase - HandleEvent - json.Unmarshal: %v: %w", err, errs.ErrMessageParse), false)
	}

	content, err := uc.Publish(ctx, &record, msg.TransactionID(), msg.Timestamp)
	if err != nil {
		return uc.classify(&record, err)
	}

	return mapped(content)
}

func (uc *UseCase) classify(record *entity.SourceRecord, err error) Outcome {
	switch {
	case errors.Is(err, errs.ErrNotPublishable), errors.Is(err, errs.ErrUnsupportedContentType):
		uc.logger.Info("Skip message [%s] of type [%s]", record.UUID, record.Type)

		return skipped(err.Error())
	case errors.Is(err, errs.ErrInvalidIdentifierFormat):
		return failed("invalid uuid", err, false)
	case errors.Is(err, errs.ErrTransformation):
		return failed("content cannot be mapped", err, false)
	case errors.Is(err, errs.ErrEnvelopeSerialization):
		return failed("unable to write JSON for message", err, false)
	default:
		return failed("unable to publish message", err, true)
	}
}
