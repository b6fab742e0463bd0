package v1

import (
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewImageSetRoutes(apiV1Group fiber.Router, is usecase.ImageSetUseCase, l logger.Interface) {
	r := &V1{is: is, logger: l}

	{
		apiV1Group.Post("/map", r.mapImageSet)
		apiV1Group.Post("/ingest", r.ingestImageSet)
	}
}
