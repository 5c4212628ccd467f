package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageEmptySet(t *testing.T) {
	result := Page([]int{}, 1, 10)

	assert.Empty(t, result.Slice)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, 0, result.TotalCount)
}

func TestPageLastPartialPage(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	result := Page(items, 3, 10)

	assert.Len(t, result.Slice, 5)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 25, result.TotalCount)
	assert.Equal(t, 20, result.Slice[0])
}

func TestPageClampsStalePageNumber(t *testing.T) {
	items := []string{"a", "b", "c"}

	result := Page(items, 9, 2)

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, []string{"c"}, result.Slice)
}

func TestPageClampsZeroPage(t *testing.T) {
	items := []string{"a", "b"}

	result := Page(items, 0, 10)

	assert.Equal(t, 1, result.Page)
	assert.Len(t, result.Slice, 2)
}

func TestPageDefaultsPageSize(t *testing.T) {
	items := make([]int, 30)

	result := Page(items, 1, 0)

	assert.Len(t, result.Slice, 20)
	assert.Equal(t, 2, result.TotalPages)
}
