// Package uuidutils derives stable identifiers for content grouped around
// a source record, e.g. the image set built around a single image.
package uuidutils

import (
	"crypto/md5"
	"encoding/binary"

	"github.com/google/uuid"
)

// Salt distinguishes one derivation from another sharing the same deriver.
type Salt string

const (
	ImageSet Salt = "imageset"
)

type Deriver struct {
	salt Salt
	mask uint64
}

func NewDeriver(salt Salt) *Deriver {
	return &Deriver{
		salt: salt,
		mask: saltMask(salt),
	}
}

func (d *Deriver) Salt() Salt {
	return d.salt
}

// From returns the derived identifier for id.
func (d *Deriver) From(id uuid.UUID) uuid.UUID {
	return d.xor(id)
}

// Revert recovers the source identifier from a derived one.
func (d *Deriver) Revert(id uuid.UUID) uuid.UUID {
	return d.xor(id)
}

func (d *Deriver) xor(id uuid.UUID) uuid.UUID {
	var out uuid.UUID
	copy(out[:8], id[:8])

	lsb := binary.BigEndian.Uint64(id[8:])
	binary.BigEndian.PutUint64(out[8:], lsb^d.mask)

	return out
}

// saltMask is the low half of the version 3 name-based UUID of the salt.
func saltMask(salt Salt) uint64 {
	sum := md5.Sum([]byte(salt))
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80

	return binary.BigEndian.Uint64(sum[8:])
}
