package pipeline

// Store keeps values in insertion order with keyed lookup. The first value
// added for a key wins.
type Store[K comparable, V any] struct {
	index map[K]int
	items []V
}

func NewStore[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{index: make(map[K]int)}
}

// Add stores v under k and reports whether it was added. An existing key is
// left untouched.
func (s *Store[K, V]) Add(k K, v V) bool {
	if _, exists := s.index[k]; exists {
		return false
	}
	s.index[k] = len(s.items)
	s.items = append(s.items, v)
	return true
}

func (s *Store[K, V]) Len() int {
	return len(s.items)
}

// Items returns the values in insertion order. The slice is shared; callers
// must not modify it.
func (s *Store[K, V]) Items() []V {
	return s.items
}
