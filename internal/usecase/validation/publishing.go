package validation

import (
	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/metrics"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
)

// PublishingValidator decides whether a source record can be turned into
// an image set at all.
type PublishingValidator struct {
	contentType string
	logger      logger.Interface
}

func NewPublishingValidator(contentType string, l logger.Interface) *PublishingValidator {
	return &PublishingValidator{
		contentType: contentType,
		logger:      l,
	}
}

func (v *PublishingValidator) IsValidForPublishing(record *entity.SourceRecord) bool {
	if record.Type != v.contentType {
		return false
	}

	return !v.missingImageBytes(record)
}

func (v *PublishingValidator) missingImageBytes(record *entity.SourceRecord) bool {
	if len(record.Value) > 0 {
		return false
	}

	v.logger.Info("Image [%s] has no image bytes.", record.UUID)
	metrics.MissingImageBytes.Inc()

	return true
}
