package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemUsage(t *testing.T) {
	attr := MemUsage()
	assert.Equal(t, "mem", attr.Key)
	assert.Len(t, attr.Value.Group(), 4)
}
