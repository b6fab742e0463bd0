package mapper

import (
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/dto"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/types/errs"
)

const (
	ImageType = "Image"

	// SourceAuthority tags identifiers that come from the native CMS.
	SourceAuthority = "http://api.ft.com/system/FTCOM-METHODE"
)

type AttributeExtractor interface {
	Extract(record *entity.SourceRecord) (dto.ExtractedFields, error)
}

type ImageSetMapper struct {
	extractor   AttributeExtractor
	contentType string
	authority   string
}

func New(extractor AttributeExtractor, opts ...Option) *ImageSetMapper {
	m := &ImageSetMapper{
		extractor:   extractor,
		contentType: ImageType,
		authority:   SourceAuthority,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Map builds the image set content for record under targetID.
func (m *ImageSetMapper) Map(targetID string, record *entity.SourceRecord, transactionID string, lastModified time.Time) (*entity.Content, error) {
	if record.Type != m.contentType {
		return nil, fmt.Errorf("%s is not an %s: %w", record.UUID, m.contentType, errs.ErrUnsupportedContentType)
	}

	fields, err := m.extractor.Extract(record)
	if err != nil {
		return nil, fmt.Errorf("ImageSetMapper - Map - m.extractor.Extract: %w", wrapTransformation(err))
	}

	return &entity.Content{
		UUID: targetID,
		Identifiers: []entity.Identifier{
			{Authority: m.authority, IdentifierValue: record.UUID},
		},
		Title:            fields.Caption,
		Description:      fields.AltText,
		MediaType:        fields.MediaType,
		PixelWidth:       fields.PixelWidth,
		PixelHeight:      fields.PixelHeight,
		PublishedDate:    fields.PublishedDate,
		Members:          []entity.Member{{UUID: record.UUID}},
		PublishReference: transactionID,
		LastModified:     lastModified,
		// image sets never carry a copyright, the member image does
		Copyright: nil,
	}, nil
}

func wrapTransformation(err error) error {
	if errors.Is(err, errs.ErrTransformation) {
		return err
	}

	return fmt.Errorf("%v: %w", err, errs.ErrTransformation)
}
