package util

// OrderedSet is a set that remembers insertion order.
// Membership is O(1); Values returns elements in first-insertion order.
type OrderedSet[T comparable] struct {
	index map[T]int
	items []T
}

// NewOrderedSet creates an empty set
func NewOrderedSet[T comparable]() *OrderedSet[T] {
	return &OrderedSet[T]{index: make(map[T]int)}
}

// Add inserts v if absent and reports whether it was inserted
func (s *OrderedSet[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return true
}

// Contains reports whether v has been added
func (s *OrderedSet[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of distinct elements
func (s *OrderedSet[T]) Len() int {
	return len(s.items)
}

// Values returns a copy of the elements in insertion order
func (s *OrderedSet[T]) Values() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
