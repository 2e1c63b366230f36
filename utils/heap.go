package utils

// Heap is a binary heap ordered by less; the top is the "least" element.
type Heap[T any] struct {
	buf  []T
	less func(a, b T) bool
}

func NewHeap[T any](less func(a, b T) bool) *Heap[T] {
	return &Heap[T]{less: less}
}

func (h *Heap[T]) Len() int {
	return len(h.buf)
}

// Push is O(log n).
func (h *Heap[T]) Push(x T) {
	h.buf = append(h.buf, x)
	h.up(len(h.buf) - 1)
}

// Pop removes and returns the top element. The heap must be non-empty.
func (h *Heap[T]) Pop() (top T) {
	top = h.buf[0]
	n := len(h.buf) - 1
	h.buf[0] = h.buf[n]
	h.buf = h.buf[:n]
	h.down(0)
	return
}

// Drain pops every element, returning them in heap order.
func (h *Heap[T]) Drain() []T {
	ret := make([]T, 0, len(h.buf))
	for len(h.buf) > 0 {
		ret = append(ret, h.Pop())
	}
	return ret
}

func (h *Heap[T]) up(j int) {
	for j > 0 {
		parent := (j - 1) / 2
		if !h.less(h.buf[j], h.buf[parent]) {
			return
		}
		h.buf[parent], h.buf[j] = h.buf[j], h.buf[parent]
		j = parent
	}
}

func (h *Heap[T]) down(i int) {
	n := len(h.buf)
	for {
		j := 2*i + 1
		if j >= n {
			return
		}
		if r := j + 1; r < n && h.less(h.buf[r], h.buf[j]) {
			j = r
		}
		if !h.less(h.buf[j], h.buf[i]) {
			return
		}
		h.buf[i], h.buf[j] = h.buf[j], h.buf[i]
		i = j
	}
}
