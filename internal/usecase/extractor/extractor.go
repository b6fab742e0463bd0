package extractor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/dto"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/metrics"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/types/errs"
	"github.com/antchfx/xmlquery"
)

const (
	attributesDocument       = "attributes"
	systemAttributesDocument = "system_attributes"
	usageTicketsDocument     = "usage_tickets"

	mediaTypePrefix   = "image/"
	copyrightGlyph    = "©"
	publishDateLayout = "20060102150405"
)

var errEmptyDocument = errors.New("empty document")

// file type suffixes that are not registered media subtypes
var mediaSubtypeAliases = map[string]string{
	"jpg": "jpeg",
	"tif": "tiff",
}

type Extractor struct {
	paths            Paths
	defaultMediaType string
	logger           logger.Interface
}

func New(defaultMediaType string, l logger.Interface, opts ...Option) *Extractor {
	e := &Extractor{
		paths:            DefaultPaths,
		defaultMediaType: defaultMediaType,
		logger:           l,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract reads the three attachments of record independently. A document
// that cannot be parsed leaves its fields unset; only a broken expression
// is returned as an error.
func (e *Extractor) Extract(record *entity.SourceRecord) (dto.ExtractedFields, error) {
	fields := dto.ExtractedFields{
		MediaType: e.defaultMediaType,
	}

	attrs, err := e.fromAttributes(record.Attributes)
	if err = e.absorb(record.UUID, attributesDocument, err); err != nil {
		return dto.ExtractedFields{}, err
	}
	fields.Caption = attrs.caption
	fields.AltText = attrs.altText
	fields.CopyrightNotice = attrs.copyrightNotice

	sys, err := e.fromSystemAttributes(record.UUID, record.SystemAttributes)
	if err = e.absorb(record.UUID, systemAttributesDocument, err); err != nil {
		return dto.ExtractedFields{}, err
	}
	fields.PixelWidth = sys.width
	fields.PixelHeight = sys.height
	if sys.mediaType != "" {
		fields.MediaType = sys.mediaType
	}

	usage, err := e.fromUsageTickets(record.UUID, record.UsageTickets)
	if err = e.absorb(record.UUID, usageTicketsDocument, err); err != nil {
		return dto.ExtractedFields{}, err
	}
	fields.PublishedDate = usage.publishedDate

	return fields, nil
}

// absorb swallows document level failures and passes expression failures through.
func (e *Extractor) absorb(uuid, document string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, errs.ErrTransformation) {
		return err
	}

	e.logger.Warn("Failed retrieving %s XML of image %s. Moving on without adding relevant properties: %v", document, uuid, err)
	metrics.ExtractionWarnings.WithLabelValues(document).Inc()

	return nil
}

type attributeFields struct {
	caption         string
	altText         string
	copyrightNotice string
}

func (e *Extractor) fromAttributes(raw string) (attributeFields, error) {
	doc, err := parse(raw)
	if err != nil {
		return attributeFields{}, err
	}

	var f attributeFields

	if f.caption, err = evaluate(doc, e.paths.Caption); err != nil {
		return attributeFields{}, err
	}
	if f.altText, err = evaluate(doc, e.paths.AltText); err != nil {
		return attributeFields{}, err
	}

	online, err := evaluate(doc, e.paths.OnlineSource)
	if err != nil {
		return attributeFields{}, err
	}
	manual, err := evaluate(doc, e.paths.ManualSource)
	if err != nil {
		return attributeFields{}, err
	}

	f.copyrightNotice = copyrightNotice(online, manual)

	return f, nil
}

type systemFields struct {
	width     *int
	height    *int
	mediaType string
}

func (e *Extractor) fromSystemAttributes(uuid, raw string) (systemFields, error) {
	doc, err := parse(raw)
	if err != nil {
		return systemFields{}, err
	}

	var f systemFields

	width, err := evaluate(doc, e.paths.Width)
	if err != nil {
		return systemFields{}, err
	}
	f.width = e.toInt(uuid, "width", width)

	height, err := evaluate(doc, e.paths.Height)
	if err != nil {
		return systemFields{}, err
	}
	f.height = e.toInt(uuid, "height", height)

	fileType, err := evaluate(doc, e.paths.FileType)
	if err != nil {
		return systemFields{}, err
	}
	f.mediaType = mediaType(fileType)

	return f, nil
}

type usageFields struct {
	publishedDate *time.Time
}

func (e *Extractor) fromUsageTickets(uuid, raw string) (usageFields, error) {
	doc, err := parse(raw)
	if err != nil {
		return usageFields{}, err
	}

	value, err := evaluate(doc, e.paths.PublishedDate)
	if err != nil {
		return usageFields{}, err
	}

	return usageFields{publishedDate: e.toDate(uuid, value)}, nil
}

func (e *Extractor) toInt(uuid, field, raw string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		e.logger.Warn("%s couldn't be converted to an integer for uuid %s and value '%s'", field, uuid, raw)
		metrics.ExtractionWarnings.WithLabelValues(systemAttributesDocument).Inc()

		return nil
	}

	return &v
}

func (e *Extractor) toDate(uuid, raw string) *time.Time {
	t, err := time.ParseInLocation(publishDateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		e.logger.Warn("Date couldn't be parsed for uuid %s and raw value '%s'", uuid, raw)
		metrics.ExtractionWarnings.WithLabelValues(usageTicketsDocument).Inc()

		return nil
	}

	return &t
}

func parse(raw string) (*xmlquery.Node, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errEmptyDocument
	}

	doc, err := xmlquery.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("xmlquery.Parse: %w", err)
	}

	return doc, nil
}

// evaluate returns the text of the first node matching expr, "" if none.
func evaluate(doc *xmlquery.Node, expr string) (string, error) {
	node, err := xmlquery.Query(doc, expr)
	if err != nil {
		return "", fmt.Errorf("xpath %q: %v: %w", expr, err, errs.ErrTransformation)
	}
	if node == nil {
		return "", nil
	}

	return node.InnerText(), nil
}

func copyrightNotice(candidates ...string) string {
	notice := firstNonBlank(candidates...)
	if notice == "" || strings.Contains(notice, copyrightGlyph) {
		return notice
	}

	return copyrightGlyph + " " + notice
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}

	return ""
}

func mediaType(fileType string) string {
	suffix := strings.ToLower(strings.TrimSpace(fileType))
	if suffix == "" {
		return ""
	}

	if alias, ok := mediaSubtypeAliases[suffix]; ok {
		suffix = alias
	}

	return mediaTypePrefix + suffix
}
