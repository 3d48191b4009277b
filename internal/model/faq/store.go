package faq

// Store exposes the FAQ bank to the matcher and HTTP handlers.
type Store interface {
	List() []Entry
	Len() int
}

// MemoryStore implements Store over an immutable slice captured at construction.
type MemoryStore struct {
	items []Entry
}

// NewMemoryStore returns a MemoryStore holding a private copy of items.
func NewMemoryStore(items []Entry) *MemoryStore {
	return &MemoryStore{items: append([]Entry(nil), items...)}
}

// List returns the entries in their original order.
func (s *MemoryStore) List() []Entry {
	return append([]Entry(nil), s.items...)
}

// Len returns the number of entries.
func (s *MemoryStore) Len() int {
	return len(s.items)
}
