package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	t.Run("EmptyListingStillHasOnePage", func(t *testing.T) {
		p := NewPagination(1, 12, 0)
		assert.Equal(t, 1, p.TotalPages)
		assert.False(t, p.HasNext)
		assert.False(t, p.HasPrevious)
	})

	t.Run("PartialLastPage", func(t *testing.T) {
		p := NewPagination(3, 10, 25)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, int64(25), p.TotalCount)
		assert.False(t, p.HasNext)
		assert.True(t, p.HasPrevious)
	})

	t.Run("MiddlePage", func(t *testing.T) {
		p := NewPagination(2, 10, 30)
		assert.True(t, p.HasNext)
		assert.True(t, p.HasPrevious)
	})

	t.Run("ExactMultiple", func(t *testing.T) {
		p := NewPagination(2, 10, 20)
		assert.Equal(t, 2, p.TotalPages)
		assert.False(t, p.HasNext)
	})
}
