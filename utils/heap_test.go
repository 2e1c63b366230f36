package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeapPopsInOrder(t *testing.T) {
	h := NewHeap(func(a, b uint64) bool { return a < b })
	for i := uint64(0); i < 64; i++ {
		h.Push(i ^ 17)
	}
	for i := uint64(0); i < 64; i++ {
		assert.Equal(t, i, h.Pop())
	}
	assert.Equal(t, 0, h.Len())
}

func TestHeapMaxOnTop(t *testing.T) {
	h := NewHeap(func(a, b string) bool { return a > b })
	for _, s := range []string{"b", "d", "a", "c"} {
		h.Push(s)
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, h.Drain())
	assert.Equal(t, 0, h.Len())
}

// keeping the n smallest: worst on top, popped past capacity
func TestHeapBounded(t *testing.T) {
	h := NewHeap(func(a, b int) bool { return a > b })
	for _, v := range []int{1, 5, 2, 8, 9, 0, 7, 2} {
		h.Push(v)
		if h.Len() > 3 {
			h.Pop()
		}
	}
	assert.Equal(t, []int{2, 1, 0}, h.Drain())
}
