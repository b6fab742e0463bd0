package entity_test

import (
	"testing"

	"github.com/andreyxaxa/Image-Set-Mapper/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, entity.Pending.Terminal())
	assert.False(t, entity.Processing.Terminal())
	assert.True(t, entity.Processed.Terminal())
	assert.True(t, entity.Failed.Terminal())

	for _, s := range entity.TerminalStatuses() {
		assert.True(t, s.Terminal(), s)
	}
}
