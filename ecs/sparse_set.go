package ecs

// SparseSet maps small integer IDs to positions in a dense array with O(1)
// membership test, insertion and removal. It is not safe for concurrent use.
type SparseSet struct {
	dense  []uint32
	sparse []int
}

// NewSparseSet creates an empty set.
func NewSparseSet() *SparseSet {
	return &SparseSet{}
}

// Has reports whether v is in the set.
func (s *SparseSet) Has(v uint32) bool {
	if int(v) >= len(s.sparse) {
		return false
	}
	pos := s.sparse[v]
	return pos >= 0 && pos < len(s.dense) && s.dense[pos] == v
}

// Add appends v and returns its dense position, or -1 if v is already present.
func (s *SparseSet) Add(v uint32) int {
	if s.Has(v) {
		return -1
	}

	if int(v) >= len(s.sparse) {
		grown := make([]int, int(v)+1, max(int(v)+1, 2*len(s.sparse)))
		copy(grown, s.sparse)
		for i := len(s.sparse); i < len(grown); i++ {
			grown[i] = -1
		}
		s.sparse = grown
	}

	s.dense = append(s.dense, v)
	pos := len(s.dense) - 1
	s.sparse[v] = pos
	return pos
}

// Remove deletes v by moving the last element into its slot. It returns the
// vacated position so callers can mirror the swap on a parallel array, or -1
// if v is not present.
func (s *SparseSet) Remove(v uint32) int {
	if !s.Has(v) {
		return -1
	}

	pos := s.sparse[v]
	last := len(s.dense) - 1
	lastValue := s.dense[last]

	s.dense[pos] = lastValue
	s.sparse[lastValue] = pos
	s.dense = s.dense[:last]
	s.sparse[v] = -1

	return pos
}

// Position returns the dense position of v, or -1.
func (s *SparseSet) Position(v uint32) int {
	if !s.Has(v) {
		return -1
	}
	return s.sparse[v]
}

// Values returns the dense array. The slice must not be modified.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}

// Len returns the number of elements.
func (s *SparseSet) Len() int {
	return len(s.dense)
}
