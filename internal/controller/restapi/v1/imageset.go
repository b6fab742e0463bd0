package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/gofiber/fiber/v2"
)

// @Summary     Map image to image set
// @Description Maps a native image record to image set content without publishing it
// @Tags        imagesets
// @Accept      json
// @Produce     json
// @Param       X-Request-Id header string false "Transaction id"
// @Param       record body entity.SourceRecord true "Native image record"
// @Success     200 {object} entity.Content
// @Failure     400 {object} response.Error "Malformed body"
// @Failure     422 {object} response.Error "Invalid uuid, unsupported type or content cannot be mapped"
// @Failure     500 {object} response.Error "Unable to write JSON"
// @Router      /map [post]
func (r *V1) mapImageSet(ctx *fiber.Ctx) error {
	record, txID, err := r.readRecord(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	content, err := r.is.Transform(ctx.UserContext(), record, txID, time.Now())
	if err != nil {
		r.logger.Warn("restapi - v1 - mapImageSet: %s, transaction_id=%s", err, txID)

		code, msg := statusFor(err)

		return errorResponse(ctx, code, msg)
	}

	b, err := json.Marshal(content)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - mapImageSet - json.Marshal")

		return errorResponse(ctx, http.StatusInternalServerError, "Unable to write JSON for message")
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return ctx.Status(http.StatusOK).Send(b)
}

// @Summary     Ingest image set
// @Description Maps a native image record to image set content and publishes it
// @Tags        imagesets
// @Accept      json
// @Produce     json
// @Param       X-Request-Id header string false "Transaction id"
// @Param       record body entity.SourceRecord true "Native image record"
// @Success     204
// @Failure     400 {object} response.Error "Malformed body"
// @Failure     422 {object} response.Error "Invalid uuid, unsupported type or content cannot be mapped"
// @Failure     500 {object} response.Error "Unable to write JSON"
// @Failure     503 {object} response.Error "Unable to publish message"
// @Router      /ingest [post]
func (r *V1) ingestImageSet(ctx *fiber.Ctx) error {
	record, txID, err := r.readRecord(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	_, err = r.is.Publish(ctx.UserContext(), record, txID, time.Now())
	if err != nil {
		code, msg := statusFor(err)
		if code >= http.StatusInternalServerError {
			r.logger.Error(err, "restapi - v1 - ingestImageSet, transaction_id=%s", txID)
		} else {
			r.logger.Warn("restapi - v1 - ingestImageSet: %s, transaction_id=%s", err, txID)
		}

		return errorResponse(ctx, code, msg)
	}

	return ctx.SendStatus(http.StatusNoContent)
}

func (r *V1) readRecord(ctx *fiber.Ctx) (*entity.SourceRecord, string, error) {
	txID := ctx.Get(entity.TransactionIDHeader)
	if txID == "" {
		txID = entity.NewTransactionID()
	}
	ctx.Set(entity.TransactionIDHeader, txID)

	var record entity.SourceRecord

	err := json.Unmarshal(ctx.Body(), &record)
	if err != nil {
		return nil, txID, err
	}

	return &record, txID, nil
}
