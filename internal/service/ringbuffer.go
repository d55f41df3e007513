package service

// RingBuffer is a fixed-capacity circular buffer. Push is O(1) and evicts the
// oldest element once full. Not safe for concurrent use.
type RingBuffer[T any] struct {
	items []T
	head  int // index of the oldest element
	size  int
}

func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{items: make([]T, capacity)}
}

// Push appends v, dropping the oldest element when the buffer is full.
func (r *RingBuffer[T]) Push(v T) {
	if r.size < len(r.items) {
		r.items[(r.head+r.size)%len(r.items)] = v
		r.size++
		return
	}
	r.items[r.head] = v
	r.head = (r.head + 1) % len(r.items)
}

func (r *RingBuffer[T]) Len() int { return r.size }

func (r *RingBuffer[T]) Cap() int { return len(r.items) }

// Oldest returns a copy ordered oldest to newest.
func (r *RingBuffer[T]) Oldest() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.items[(r.head+i)%len(r.items)]
	}
	return out
}

// Newest returns a copy ordered newest to oldest.
func (r *RingBuffer[T]) Newest() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.items[(r.head+r.size-1-i)%len(r.items)]
	}
	return out
}
