package uuidutils_test

import (
	"testing"

	"github.com/andreyxaxa/Image-Set-Mapper/pkg/uuidutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageUUID = "d7625378-d4cd-11e2-bce1-002128161462"

func TestDeriver_RevertRecoversOriginal(t *testing.T) {
	d := uuidutils.NewDeriver(uuidutils.ImageSet)

	original := uuid.MustParse(imageUUID)
	derived := d.From(original)

	assert.NotEqual(t, original, derived)
	assert.Equal(t, original, d.Revert(derived))
}

func TestDeriver_RoundTripRandom(t *testing.T) {
	d := uuidutils.NewDeriver(uuidutils.ImageSet)

	for i := 0; i < 1000; i++ {
		original := uuid.New()
		require.Equal(t, original, d.Revert(d.From(original)))
	}
}

func TestDeriver_Deterministic(t *testing.T) {
	first := uuidutils.NewDeriver(uuidutils.ImageSet)
	second := uuidutils.NewDeriver(uuidutils.ImageSet)

	original := uuid.MustParse(imageUUID)

	assert.Equal(t, first.From(original), second.From(original))
	assert.Equal(t, first.From(original), first.From(original))
}

func TestDeriver_KeepsHighHalf(t *testing.T) {
	d := uuidutils.NewDeriver(uuidutils.ImageSet)

	original := uuid.New()
	derived := d.From(original)

	assert.Equal(t, original.Version(), derived.Version())
	assert.Equal(t, original[:8], derived[:8])
}

func TestDeriver_KnownImageSetIdentifier(t *testing.T) {
	d := uuidutils.NewDeriver(uuidutils.ImageSet)

	derived := d.From(uuid.MustParse(imageUUID))

	// младшие 64 бита XOR-ятся целиком, вместе с битами варианта
	assert.Equal(t, "d7625378-d4cd-11e2-2287-97bbf262bf2b", derived.String())
	assert.Equal(t, imageUUID, d.Revert(derived).String())
}

func TestDeriver_SaltsDoNotCollide(t *testing.T) {
	images := uuidutils.NewDeriver(uuidutils.ImageSet)
	other := uuidutils.NewDeriver(uuidutils.Salt("graphicset"))

	original := uuid.MustParse(imageUUID)

	assert.NotEqual(t, images.From(original), other.From(original))
	assert.Equal(t, uuidutils.ImageSet, images.Salt())
}

func TestDeriver_DistinctInputsStayDistinct(t *testing.T) {
	d := uuidutils.NewDeriver(uuidutils.ImageSet)

	seen := make(map[uuid.UUID]struct{})
	for i := 0; i < 1000; i++ {
		derived := d.From(uuid.New())
		_, dup := seen[derived]
		require.False(t, dup)
		seen[derived] = struct{}{}
	}
}
