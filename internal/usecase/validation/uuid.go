package validation

import (
	"fmt"

	"github.com/andreyxaxa/Image-Set-Mapper/pkg/types/errs"
	"github.com/google/uuid"
)

// ValidateUUID accepts only the canonical lowercase hyphenated form.
func ValidateUUID(s string) error {
	parsed, err := uuid.Parse(s)
	if err != nil || parsed.String() != s {
		return fmt.Errorf("invalid UUID: [%s], does not conform to RFC 4122: %w", s, errs.ErrInvalidIdentifierFormat)
	}

	return nil
}
