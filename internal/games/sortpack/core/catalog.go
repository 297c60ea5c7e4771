package core

import "sort"

// Catalog maps item ids to item types. Placements whose id is not in the
// catalog are skipped at spawn time.
type Catalog struct {
	types map[ItemID]ItemType
}

// defaultItems is the built-in item set.
var defaultItems = []ItemType{
	"apple", "banana", "cherry", "grape", "lemon", "orange",
	"pear", "plum", "kiwi", "mango", "peach", "melon",
}

// NewCatalog creates a catalog from explicit entries.
func NewCatalog(entries map[ItemID]ItemType) *Catalog {
	c := &Catalog{types: make(map[ItemID]ItemType, len(entries))}
	for id, t := range entries {
		if id < 0 || t == "" {
			continue
		}
		c.types[id] = t
	}
	return c
}

// DefaultCatalog returns the built-in catalog with ids 0..11.
func DefaultCatalog() *Catalog {
	entries := make(map[ItemID]ItemType, len(defaultItems))
	for i, t := range defaultItems {
		entries[ItemID(i)] = t
	}
	return NewCatalog(entries)
}

// Type resolves an item id.
func (c *Catalog) Type(id ItemID) (ItemType, bool) {
	if c == nil {
		return "", false
	}
	t, ok := c.types[id]
	return t, ok
}

// Has reports whether id is registered.
func (c *Catalog) Has(id ItemID) bool {
	_, ok := c.Type(id)
	return ok
}

// IDs returns all registered ids in ascending order.
func (c *Catalog) IDs() []ItemID {
	ids := make([]ItemID, 0, len(c.types))
	for id := range c.types {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of registered ids.
func (c *Catalog) Len() int {
	return len(c.types)
}

// Merge returns a new catalog with overrides applied on top of c.
func (c *Catalog) Merge(overrides map[ItemID]ItemType) *Catalog {
	merged := make(map[ItemID]ItemType, len(c.types)+len(overrides))
	for id, t := range c.types {
		merged[id] = t
	}
	for id, t := range overrides {
		merged[id] = t
	}
	return NewCatalog(merged)
}
