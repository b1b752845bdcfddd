package ecs

// ArchetypeBuilder accumulates a component mask for DefineEntity and
// CreateEntity.
type ArchetypeBuilder struct {
	mask *BitSet
}

// NewArchetypeBuilder creates a builder with an empty mask.
func NewArchetypeBuilder() *ArchetypeBuilder {
	return &ArchetypeBuilder{mask: NewBitSet(1)}
}

// AddComponent adds c to the mask.
func (b *ArchetypeBuilder) AddComponent(c ComponentID) *ArchetypeBuilder {
	b.mask.Or(uint32(c))
	return b
}

// RemoveComponent removes c from the mask if present.
func (b *ArchetypeBuilder) RemoveComponent(c ComponentID) *ArchetypeBuilder {
	if b.mask.Has(uint32(c)) {
		b.mask.Xor(uint32(c))
	}
	return b
}

// AddEntity adds every component of the template archetype.
func (b *ArchetypeBuilder) AddEntity(template *Archetype) *ArchetypeBuilder {
	for _, v := range template.mask.Values() {
		b.mask.Or(v)
	}
	return b
}

// Mask returns the accumulated mask.
func (b *ArchetypeBuilder) Mask() *BitSet {
	return b.mask
}

// Template is anything that describes an entity's initial components.
// *Archetype and *ArchetypeBuilder both implement it.
type Template interface {
	Mask() *BitSet
}

// SaveData is the flat dump of one archetype.
type SaveData struct {
	Mask     []uint32 `yaml:"mask"`
	Entities []*Row   `yaml:"entities"`
}

// ArchetypeGraph owns every archetype, indexes them by mask key and caches
// single-component transitions between them.
type ArchetypeGraph struct {
	archetypes []*Archetype
	byKey      map[string]uint32
	registry   *InstanceRegistry
}

// NewArchetypeGraph creates an empty graph building rows with registry.
func NewArchetypeGraph(registry *InstanceRegistry) *ArchetypeGraph {
	return &ArchetypeGraph{
		byKey:    make(map[string]uint32),
		registry: registry,
	}
}

// Create returns the archetype for mask, creating it from a copy of mask if
// needed. An explicit key
// overrides the mask's canonical key. The second result reports whether the
// archetype was created by this call.
func (g *ArchetypeGraph) Create(mask *BitSet, key ...string) (*Archetype, bool) {
	id := ""
	if len(key) > 0 {
		id = key[0]
	}
	if id == "" {
		id = mask.Key()
	}

	if index, ok := g.byKey[id]; ok {
		return g.archetypes[index], false
	}

	index := uint32(len(g.archetypes))
	mask = mask.Clone()
	archetype := NewArchetype(index, id, mask, g.registry.Creator(mask))
	g.archetypes = append(g.archetypes, archetype)
	g.byKey[id] = index
	return archetype, true
}

// Get returns the archetype with the given key.
func (g *ArchetypeGraph) Get(key string) (*Archetype, bool) {
	index, ok := g.byKey[key]
	if !ok {
		return nil, false
	}
	return g.archetypes[index], true
}

// At returns the archetype at arena position index.
func (g *ArchetypeGraph) At(index uint32) *Archetype {
	return g.archetypes[index]
}

// Len returns the number of archetypes.
func (g *ArchetypeGraph) Len() int {
	return len(g.archetypes)
}

// Transform returns the archetype reached from a by toggling component c. The
// edge is cached on both archetypes. The second result reports whether the
// target archetype was created by this call.
func (g *ArchetypeGraph) Transform(a *Archetype, c ComponentID) (*Archetype, bool) {
	if index, ok := a.Adjacent(c); ok {
		return g.archetypes[index], false
	}

	target, created := g.Create(a.mask.Clone().Xor(uint32(c)))

	target.AddAdjacent(c, a)
	a.AddAdjacent(c, target)
	return target, created
}

// Traverse calls fn for every archetype in creation order.
func (g *ArchetypeGraph) Traverse(fn func(a *Archetype)) {
	for i := 0; i < len(g.archetypes); i++ {
		fn(g.archetypes[i])
	}
}

// OnSerialize dumps a's mask and detached copies of its rows, so later changes
// to the live entities do not reach the dump.
func (g *ArchetypeGraph) OnSerialize(a *Archetype) SaveData {
	rows := make([]*Row, len(a.entities))
	for i, row := range a.entities {
		rows[i] = row.detach()
	}
	return SaveData{
		Mask:     a.mask.Values(),
		Entities: rows,
	}
}

// OnDeserialize rebuilds a builder from saved mask bits and returns it with the
// raw rows for replay through entity creation.
func (g *ArchetypeGraph) OnDeserialize(data SaveData) (*ArchetypeBuilder, []*Row) {
	return &ArchetypeBuilder{mask: Mask(data.Mask...)}, data.Entities
}
