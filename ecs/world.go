package ecs

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
)

// Option configures a World.
type Option func(*worldConfig)

type worldConfig struct {
	logger      Logger
	development bool
}

// WithLogger sets the logger receiving registration events and misuse errors.
func WithLogger(logger Logger) Option {
	return func(c *worldConfig) {
		c.logger = logger
	}
}

// WithDevelopment enables logging of registration events.
func WithDevelopment(development bool) Option {
	return func(c *worldConfig) {
		c.development = development
	}
}

// World owns every entity, archetype, query and system of one ECS instance.
// It is not safe for concurrent use.
type World struct {
	componentIDs *IDGenerator[ComponentID]
	entityIDs    *IDGenerator[EntityID]

	registry *InstanceRegistry
	graph    *ArchetypeGraph
	queries  *QueryRegistry

	// entityArchetype holds archetype index+1 per entity; 0 means absent.
	entityArchetype []uint32
	systems         []*System
	commands        *Commands

	logger      Logger
	development bool
	initialized bool
}

// NewWorld creates an empty, uninitialized world.
func NewWorld(opts ...Option) *World {
	config := worldConfig{}
	for _, opt := range opts {
		opt(&config)
	}
	if config.logger == nil {
		config.logger = NopLogger()
	}

	registry := NewInstanceRegistry(config.logger, config.development)

	return &World{
		componentIDs: NewIDGenerator[ComponentID](1),
		entityIDs:    NewIDGenerator[EntityID](1),
		registry:     registry,
		graph:        NewArchetypeGraph(registry),
		queries:      NewQueryRegistry(),
		commands:     newCommands(),
		logger:       config.logger,
		development:  config.development,
	}
}

// Registry returns the world's component factory registry.
func (w *World) Registry() *InstanceRegistry {
	return w.registry
}

// Graph returns the world's archetype graph.
func (w *World) Graph() *ArchetypeGraph {
	return w.graph
}

// Commands returns the world's deferred command buffer.
func (w *World) Commands() *Commands {
	return w.commands
}

// Initialized reports whether Init has been called.
func (w *World) Initialized() bool {
	return w.initialized
}

// Init links every existing archetype into every query. Archetypes created
// afterwards are linked as they appear. Calling Init again has no effect.
func (w *World) Init() {
	if w.initialized {
		return
	}

	w.initialized = true
	w.graph.Traverse(w.link)
}

func (w *World) link(a *Archetype) {
	a.linked = true
	w.queries.Offer(a)
}

// archetype resolves mask to its archetype, linking new archetypes once the
// world is initialized.
func (w *World) archetype(mask *BitSet) *Archetype {
	a, _ := w.graph.Create(mask)
	if w.initialized && !a.linked {
		w.link(a)
	}
	return a
}

func (w *World) template(t Template) *Archetype {
	if a, ok := t.(*Archetype); ok && a.index < uint32(w.graph.Len()) && w.graph.At(a.index) == a {
		if w.initialized && !a.linked {
			w.link(a)
		}
		return a
	}
	return w.archetype(t.Mask())
}

func (w *World) archetypeOf(id EntityID) (*Archetype, bool) {
	if int(id) >= len(w.entityArchetype) {
		return nil, false
	}
	index := w.entityArchetype[id]
	if index == 0 {
		return nil, false
	}
	return w.graph.At(index - 1), true
}

func (w *World) bind(id EntityID, a *Archetype) {
	if int(id) >= len(w.entityArchetype) {
		grown := make([]uint32, int(id)+1, max(int(id)+1, 2*len(w.entityArchetype)))
		copy(grown, w.entityArchetype)
		w.entityArchetype = grown
	}
	w.entityArchetype[id] = a.index + 1
}

// DefineComponent registers a component and returns its ID. The optional
// default is either a factory (a function with no arguments and one result)
// called for every new row, or a constant.
func (w *World) DefineComponent(def ...any) ComponentID {
	var d any
	if len(def) > 0 {
		d = def[0]
	}

	id := w.componentIDs.Next()
	w.registry.Register(id, d)
	return id
}

// DefineEntity builds a mask with build and returns its archetype for use as
// a template.
func (w *World) DefineEntity(build func(b *ArchetypeBuilder)) *Archetype {
	builder := NewArchetypeBuilder()
	if build != nil {
		build(builder)
	}
	return w.archetype(builder.Mask())
}

// CreateEntity allocates an entity in the template's archetype and returns its
// ID. Setters run on the new row after the defaults are in place.
func (w *World) CreateEntity(template Template, setters ...func(row *Row)) EntityID {
	a := w.template(template)

	id := w.entityIDs.Next()
	row := a.AddEntity(id, nil)
	w.bind(id, a)

	for _, set := range setters {
		set(row)
	}
	return id
}

// HasEntity reports whether id is alive.
func (w *World) HasEntity(id EntityID) bool {
	_, ok := w.archetypeOf(id)
	return ok
}

// HasComponent reports whether entity id has component c.
func (w *World) HasComponent(id EntityID, c ComponentID) bool {
	a, ok := w.archetypeOf(id)
	if !ok {
		return false
	}
	return a.HasComponent(c)
}

// Row returns the row of entity id, or nil if it does not exist.
func (w *World) Row(id EntityID) *Row {
	a, ok := w.archetypeOf(id)
	if !ok {
		return nil
	}
	return a.Row(id)
}

// Archetype returns the archetype entity id currently lives in.
func (w *World) Archetype(id EntityID) (*Archetype, bool) {
	return w.archetypeOf(id)
}

// transform moves entity id from a to the archetype reached by toggling c.
func (w *World) transform(a *Archetype, id EntityID, c ComponentID) *Row {
	next, _ := w.graph.Transform(a, c)
	if w.initialized && !next.linked {
		w.link(next)
	}

	row := a.RemoveEntity(id)
	next.AddEntity(id, row)
	w.bind(id, next)
	return row
}

// AddComponent adds component c to entity id, stamping its default value or
// the given value. Adding a component the entity already has does nothing.
func (w *World) AddComponent(id EntityID, c ComponentID, value ...any) {
	a, ok := w.archetypeOf(id)
	if !ok {
		w.logger.Error(fmt.Sprintf("[error]-[addComponent]: %d does not exist.", id))
		return
	}
	if a.HasComponent(c) {
		return
	}

	factory := w.registry.mustFactory(c)
	row := w.transform(a, id, c)
	if len(value) > 0 {
		row.Set(c, value[0])
	} else {
		row.Set(c, factory())
	}
}

// RemoveComponent removes component c from entity id. Removing a component
// the entity does not have does nothing.
func (w *World) RemoveComponent(id EntityID, c ComponentID) {
	a, ok := w.archetypeOf(id)
	if !ok {
		w.logger.Error(fmt.Sprintf("[error]-[removeComponent]: %d does not exist.", id))
		return
	}
	if !a.HasComponent(c) {
		return
	}

	row := w.transform(a, id, c)
	row.clear(c)
}

// RemoveEntity destroys entity id and recycles its ID.
func (w *World) RemoveEntity(id EntityID) {
	a, ok := w.archetypeOf(id)
	if !ok {
		w.logger.Error(fmt.Sprintf("[error]-[removeEntity]: %d does not exist.", id))
		return
	}

	a.RemoveEntity(id)
	w.entityArchetype[id] = 0
	w.entityIDs.Recycle(id)
}

// DefineQuery compiles and registers a query. Once the world is initialized
// the query immediately receives every existing archetype.
func (w *World) DefineQuery(fn QueryFunc) *Query {
	q := w.queries.Resolve(fn)
	if w.initialized {
		w.graph.Traverse(func(a *Archetype) { q.TryAdd(a) })
	}
	return q
}

// Queries returns every registered query.
func (w *World) Queries() []*Query {
	return w.queries.Queries()
}

// DefineSystem binds def to this world's queries. The system does not run
// until it is registered.
func (w *World) DefineSystem(def SystemDef) *System {
	return newSystem(def, w.queries)
}

// RegisterSystem appends s to the update order.
func (w *World) RegisterSystem(s *System) {
	if w.development {
		w.logger.Log(fmt.Sprintf("[success]-[register system]: %s", s.name))
	}

	w.systems = append(w.systems, s)

	if w.initialized {
		w.graph.Traverse(func(a *Archetype) { s.query.TryAdd(a) })
	}
}

// Systems returns the registered systems in update order.
func (w *World) Systems() []*System {
	return w.systems
}

// Archetypes returns every archetype in creation order.
func (w *World) Archetypes() []*Archetype {
	archetypes := make([]*Archetype, 0, w.graph.Len())
	w.graph.Traverse(func(a *Archetype) {
		archetypes = append(archetypes, a)
	})
	return archetypes
}

// Defer queues fn to run after every system has run for the current tick.
func (w *World) Defer(fn func()) {
	w.commands.Defer(fn)
}

// Update runs every registered system in registration order and then applies
// the deferred commands.
func (w *World) Update(delta float64) {
	frame := newUpdateFrame(delta, w)

	for _, system := range w.systems {
		if !system.ready(delta) {
			continue
		}

		start := time.Now()
		system.run(frame)
		system.stats.record(time.Since(start))
	}

	w.commands.Flush(w)
}

// Save dumps every archetype, including empty ones, in creation order.
func (w *World) Save() []SaveData {
	data := make([]SaveData, 0, w.graph.Len())
	w.graph.Traverse(func(a *Archetype) {
		data = append(data, w.graph.OnSerialize(a))
	})
	return data
}

// Load replays saved archetypes through entity creation, so factories run for
// every row before saved values are copied in. Entities receive fresh IDs.
// Failures, including panics from unregistered components, are returned
// instead of propagating. A failed load removes the entities it created;
// archetypes it created stay in the graph, empty.
func (w *World) Load(data []SaveData) (ok bool, err error) {
	var created []EntityID
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if e, isErr := r.(error); isErr {
				err = eris.Wrap(e, "failed to load world")
			} else {
				err = eris.Errorf("failed to load world: %v", r)
			}
		}
		if err != nil {
			for i := len(created) - 1; i >= 0; i-- {
				w.RemoveEntity(created[i])
			}
		}
	}()

	for _, saved := range data {
		builder, rows := w.graph.OnDeserialize(saved)
		a := w.archetype(builder.Mask())
		components := a.Components()

		for _, raw := range rows {
			id := w.CreateEntity(a)
			created = append(created, id)
			if raw == nil {
				continue
			}
			if err := restoreRow(a.Row(id), raw, components); err != nil {
				return false, eris.Wrapf(err, "failed to restore entity into archetype %s", a.ID())
			}
		}
	}

	return true, nil
}

// restoreRow copies saved component values into row, which already holds the
// defaults. Only components of the row's archetype are copied.
func restoreRow(row *Row, raw *Row, components []ComponentID) error {
	for _, c := range components {
		saved := raw.Get(c)
		if saved == nil {
			continue
		}

		value, err := decodeSnapshotValue(saved, row.Get(c))
		if err != nil {
			return eris.Wrapf(err, "failed to decode component %d", c)
		}
		row.Set(c, value)
	}
	return nil
}
