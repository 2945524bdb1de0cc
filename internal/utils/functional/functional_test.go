package functional

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapAndFilter(t *testing.T) {
	doubled := Map([]int{1, 2, 3}, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled)

	even := Filter([]int{1, 2, 3, 4}, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)

	assert.Empty(t, Filter([]int(nil), func(int) bool { return true }))
}
