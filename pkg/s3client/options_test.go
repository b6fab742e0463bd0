package s3client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	c := &S3Client{}
	for _, opt := range []Option{
		Bucket("image-set-mapper"),
		Region("eu-west-1"),
		UsePathStyle(true),
		ConnAttempts(3),
		ConnTimeout(2 * time.Second),
	} {
		opt(c)
	}

	assert.Equal(t, "image-set-mapper", c.DefaultBucket())
	assert.Equal(t, "eu-west-1", c.region)
	assert.True(t, c.usePathStyle)
	assert.Equal(t, 3, c.connAttempts)
	assert.Equal(t, 2*time.Second, c.connTimeout)
}
