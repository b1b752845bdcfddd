package ecs

import "github.com/kamstrup/intmap"

// Archetype stores every entity that has exactly one combination of
// components. Rows are kept contiguous: removal swaps the last row into the
// vacated slot.
type Archetype struct {
	index    uint32
	id       string
	mask     *BitSet
	entities []*Row
	set      *SparseSet
	adjacent *intmap.Map[ComponentID, uint32]
	creator  Creator
	linked   bool
}

// NewArchetype creates an archetype at arena position index for mask.
func NewArchetype(index uint32, id string, mask *BitSet, creator Creator) *Archetype {
	return &Archetype{
		index:    index,
		id:       id,
		mask:     mask,
		set:      NewSparseSet(),
		adjacent: intmap.New[ComponentID, uint32](8),
		creator:  creator,
	}
}

// ID returns the archetype's identity key.
func (a *Archetype) ID() string {
	return a.id
}

// Index returns the archetype's position in its graph.
func (a *Archetype) Index() uint32 {
	return a.index
}

// Mask returns the archetype's component mask. It must not be modified.
func (a *Archetype) Mask() *BitSet {
	return a.mask
}

// Components returns the archetype's component IDs in ascending order.
func (a *Archetype) Components() []ComponentID {
	values := a.mask.Values()
	ids := make([]ComponentID, len(values))
	for i, v := range values {
		ids[i] = ComponentID(v)
	}
	return ids
}

// Entities returns the live row slice. Its contents change when entities are
// added or removed.
func (a *Archetype) Entities() []*Row {
	return a.entities
}

// Len returns the number of entities in the archetype.
func (a *Archetype) Len() int {
	return len(a.entities)
}

// Linked reports whether the archetype has been offered to the queries.
func (a *Archetype) Linked() bool {
	return a.linked
}

// AddEntity inserts id. If row is nil a fresh row of defaults is built. The
// stored row is returned; adding an entity twice returns the existing row.
func (a *Archetype) AddEntity(id EntityID, row *Row) *Row {
	pos := a.set.Add(uint32(id))
	if pos == -1 {
		return a.entities[a.set.Position(uint32(id))]
	}

	if row == nil {
		row = a.creator()
	}
	row.id = id
	a.entities = append(a.entities, row)
	return row
}

// RemoveEntity removes id and returns its row, or nil if id is not present.
func (a *Archetype) RemoveEntity(id EntityID) *Row {
	pos := a.set.Remove(uint32(id))
	if pos == -1 {
		return nil
	}

	removed := a.entities[pos]
	last := len(a.entities) - 1
	a.entities[pos] = a.entities[last]
	a.entities[last] = nil
	a.entities = a.entities[:last]
	return removed
}

// HasEntity reports whether id belongs to the archetype.
func (a *Archetype) HasEntity(id EntityID) bool {
	return a.set.Has(uint32(id))
}

// Row returns the row of id, or nil if id is not present.
func (a *Archetype) Row(id EntityID) *Row {
	pos := a.set.Position(uint32(id))
	if pos == -1 {
		return nil
	}
	return a.entities[pos]
}

// HasComponent reports whether the archetype's mask contains c.
func (a *Archetype) HasComponent(c ComponentID) bool {
	return a.mask.Has(uint32(c))
}

// AddAdjacent caches other as the archetype reached by toggling c.
func (a *Archetype) AddAdjacent(c ComponentID, other *Archetype) {
	a.adjacent.Put(c, other.index)
}

// Adjacent returns the index of the cached neighbor reached by toggling c.
func (a *Archetype) Adjacent(c ComponentID) (uint32, bool) {
	return a.adjacent.Get(c)
}

// Traverse calls fn for every row from the last to the first, so fn may remove
// the row it is given.
func (a *Archetype) Traverse(fn func(row *Row)) {
	for i := len(a.entities) - 1; i >= 0; i-- {
		if i >= len(a.entities) {
			continue
		}
		fn(a.entities[i])
	}
}
