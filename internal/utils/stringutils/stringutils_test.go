package stringutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestINCluse(t *testing.T) {
	placeholders, args := INCluse([]int64{4, 8, 15})

	assert.Equal(t, "$1, $2, $3", placeholders)
	assert.Equal(t, []any{int64(4), int64(8), int64(15)}, args)
}
