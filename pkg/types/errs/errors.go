package errs

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")

	ErrInvalidIdentifierFormat = errors.New("invalid identifier format")
	ErrUnsupportedContentType  = errors.New("unsupported content type")
	ErrNotPublishable          = errors.New("not publishable")
	ErrTransformation          = errors.New("transformation failed")
	ErrEnvelopeSerialization   = errors.New("unable to write JSON for message")
	ErrMessageParse            = errors.New("unable to parse message body")
)
