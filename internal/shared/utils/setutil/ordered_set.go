// Package setutil provides set helpers for id collections.
package setutil

// OrderedSet is a set that remembers first-insertion order.
type OrderedSet[T comparable] struct {
	index map[T]struct{}
	items []T
}

// NewOrderedSet creates a set holding values in first-seen order.
func NewOrderedSet[T comparable](values ...T) *OrderedSet[T] {
	s := &OrderedSet[T]{index: make(map[T]struct{}, len(values))}
	s.AddAll(values)
	return s
}

// Add inserts v and reports whether it was new.
func (s *OrderedSet[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *OrderedSet[T]) AddAll(values []T) {
	for _, v := range values {
		s.Add(v)
	}
}

func (s *OrderedSet[T]) Has(v T) bool {
	_, ok := s.index[v]
	return ok
}

// ToSlice returns a copy of the elements in insertion order.
func (s *OrderedSet[T]) ToSlice() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *OrderedSet[T]) Len() int {
	return len(s.items)
}
