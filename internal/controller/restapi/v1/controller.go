package v1

import (
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
)

type V1 struct {
	is     usecase.ImageSetUseCase
	logger logger.Interface
}
