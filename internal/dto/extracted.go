package dto

import "time"

// ExtractedFields is the best-effort result of reading the three XML
// attachments of a source record. Unset pointers mean the value was
// missing or unreadable.
type ExtractedFields struct {
	Caption         string
	AltText         string
	CopyrightNotice string

	PixelWidth  *int
	PixelHeight *int
	MediaType   string

	PublishedDate *time.Time
}
