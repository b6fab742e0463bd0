package v1

import (
	"errors"
	"net/http"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

func errorResponse(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(response.Error{Error: msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrInvalidIdentifierFormat):
		return http.StatusUnprocessableEntity, "Invalid uuid"
	case errors.Is(err, errs.ErrUnsupportedContentType):
		return http.StatusUnprocessableEntity, "Unsupported type - not an image set."
	case errors.Is(err, errs.ErrNotPublishable), errors.Is(err, errs.ErrTransformation):
		return http.StatusUnprocessableEntity, "Content cannot be mapped."
	case errors.Is(err, errs.ErrEnvelopeSerialization):
		return http.StatusInternalServerError, "Unable to write JSON for message"
	default:
		return http.StatusServiceUnavailable, "Unable to publish message"
	}
}
