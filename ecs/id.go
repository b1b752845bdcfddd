package ecs

// ComponentID identifies a component definition. IDs are dense and start at 1.
type ComponentID uint32

// EntityID identifies a live entity. IDs are dense, start at 1 and are reused
// after the entity is removed.
type EntityID uint32

// IDGenerator hands out sequential IDs and reuses recycled ones first.
type IDGenerator[T ~uint32] struct {
	next     T
	recycled []T
}

// NewIDGenerator creates a generator whose first fresh ID is start.
func NewIDGenerator[T ~uint32](start T) *IDGenerator[T] {
	return &IDGenerator[T]{next: start}
}

// Next returns the most recently recycled ID, or a fresh one if none are free.
func (g *IDGenerator[T]) Next() T {
	if n := len(g.recycled); n > 0 {
		id := g.recycled[n-1]
		g.recycled = g.recycled[:n-1]
		return id
	}

	id := g.next
	g.next++
	return id
}

// Recycle makes id available to a later Next call.
func (g *IDGenerator[T]) Recycle(id T) {
	g.recycled = append(g.recycled, id)
}

// Peek returns the next fresh ID without consuming it.
func (g *IDGenerator[T]) Peek() T {
	return g.next
}

// Reset drops the free list and restarts the counter at start.
func (g *IDGenerator[T]) Reset(start T) {
	g.next = start
	g.recycled = g.recycled[:0]
}
