package ingest

// OrderedSet is a set of strings that remembers insertion order.
type OrderedSet struct {
	items []string
	index map[string]struct{}
}

// NewOrderedSet creates an empty set.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{index: make(map[string]struct{})}
}

// Add inserts v unless present. It reports whether v was added.
func (s *OrderedSet) Add(v string) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Len returns the number of elements.
func (s *OrderedSet) Len() int {
	return len(s.items)
}

// Values returns the elements in first-insertion order.
func (s *OrderedSet) Values() []string {
	return append([]string(nil), s.items...)
}
