package validation_test

import (
	"testing"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase/validation"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/types/errs"
	"github.com/stretchr/testify/assert"
)

func TestValidateUUID(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		valid bool
	}{
		{
			name:  "canonical lowercase",
			input: "d7625378-d4cd-11e2-bce1-002128161462",
			valid: true,
		},
		{
			name:  "uppercase",
			input: "D7625378-D4CD-11E2-BCE1-002128161462",
			valid: false,
		},
		{
			name:  "mixed case",
			input: "d7625378-D4cd-11e2-bce1-002128161462",
			valid: false,
		},
		{
			name:  "empty",
			input: "",
			valid: false,
		},
		{
			name:  "malformed",
			input: "d7625-d4cd-11e2-bce1-002462",
			valid: false,
		},
		{
			name:  "no hyphens",
			input: "d7625378d4cd11e2bce1002128161462",
			valid: false,
		},
		{
			name:  "urn prefix",
			input: "urn:uuid:d7625378-d4cd-11e2-bce1-002128161462",
			valid: false,
		},
		{
			name:  "braces",
			input: "{d7625378-d4cd-11e2-bce1-002128161462}",
			valid: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validation.ValidateUUID(tc.input)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errs.ErrInvalidIdentifierFormat)
			}
		})
	}
}
