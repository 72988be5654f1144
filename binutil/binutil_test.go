package binutil_test

import (
	"testing"

	"github.com/ntfsgo/ntfs/binutil"
	"github.com/stretchr/testify/assert"
)

func TestIsOnlyZeroesYes(t *testing.T) {
	assert.True(t, binutil.IsOnlyZeroes([]byte{0, 0, 0, 0, 0, 0}))
}

func TestIsOnlyZeroesNo(t *testing.T) {
	assert.False(t, binutil.IsOnlyZeroes([]byte{0, 0, 0, 0, 0, 1}))
}

func TestCheckedSlice(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}

	slice, ok := binutil.CheckedSlice(data, 1, 3)
	assert.True(t, ok)
	assert.Equal(t, []byte{2, 3, 4}, slice)

	_, ok = binutil.CheckedSlice(data, 3, 3)
	assert.False(t, ok)

	_, ok = binutil.CheckedSlice(data, -1, 3)
	assert.False(t, ok)

	_, ok = binutil.CheckedSlice(data, 2, -1)
	assert.False(t, ok)

	slice, ok = binutil.CheckedSlice(data, 5, 0)
	assert.True(t, ok)
	assert.Empty(t, slice)
}

func TestCheckedBounds(t *testing.T) {
	assert.True(t, binutil.CheckedBounds(0, 10, 10))
	assert.True(t, binutil.CheckedBounds(10, 0, 10))
	assert.False(t, binutil.CheckedBounds(0, 11, 10))
	assert.False(t, binutil.CheckedBounds(11, 0, 10))
	assert.False(t, binutil.CheckedBounds(-1, 1, 10))
	assert.False(t, binutil.CheckedBounds(1, -1, 10))
}
