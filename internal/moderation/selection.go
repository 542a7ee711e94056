package moderation

// Selection is an ordered, deduplicated set of content ids picked for a
// batch action. Batch operations iterate it in insertion order; it is
// cleared after a fully successful batch and kept otherwise so a retry
// covers the same items.
type Selection struct {
	order []string
	seen  map[string]struct{}
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{seen: make(map[string]struct{})}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts an id; duplicates are ignored.
func (s *Selection) Add(id string) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

// Toggle adds an id when absent and removes it when present.
func (s *Selection) Toggle(id string) {
	if _, ok := s.seen[id]; !ok {
		s.Add(id)
		return
	}
	delete(s.seen, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Selection) Has(id string) bool {
	_, ok := s.seen[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.order)
}

// IDs returns the selected ids in insertion order.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.order = s.order[:0]
	s.seen = make(map[string]struct{})
}
