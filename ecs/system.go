package ecs

import (
	"fmt"
	"time"
)

// SystemKind selects how a system receives its query results.
type SystemKind uint8

const (
	// EntitySystem callbacks run once per matching archetype with its live rows.
	EntitySystem SystemKind = iota
	// ArchetypeSystem callbacks run once per tick with the matching archetypes.
	ArchetypeSystem
)

func (k SystemKind) String() string {
	switch k {
	case EntitySystem:
		return "entity"
	case ArchetypeSystem:
		return "archetype"
	default:
		return fmt.Sprintf("SystemKind(%d)", uint8(k))
	}
}

// EntityUpdate receives the rows of one matching archetype.
type EntityUpdate func(frame *UpdateFrame, entities []*Row)

// ArchetypeUpdate receives every matching archetype.
type ArchetypeUpdate func(frame *UpdateFrame, archetypes []*Archetype)

// SystemDef describes a system before it is bound to a world.
type SystemDef struct {
	Name string

	// Query is compiled once when the system is defined. If Resolved is set it
	// is used instead.
	Query    QueryFunc
	Resolved *Query

	Kind SystemKind

	// Interval throttles the system to fire only once Interval worth of delta
	// has accumulated. Zero runs the system every tick. Immediate makes the
	// first tick fire.
	Interval  float64
	Immediate bool

	Entities   EntityUpdate
	Archetypes ArchetypeUpdate
}

// System is a scheduled callback bound to one query.
type System struct {
	name       string
	query      *Query
	kind       SystemKind
	interval   float64
	acc        float64
	entities   EntityUpdate
	archetypes ArchetypeUpdate
	stats      systemStats
}

func newSystem(def SystemDef, queries *QueryRegistry) *System {
	name := def.Name
	if name == "" {
		name = "anonymous"
	}

	kind := def.Kind
	if def.Entities == nil && def.Archetypes != nil {
		kind = ArchetypeSystem
	}
	switch {
	case kind == EntitySystem && def.Entities == nil:
		panic("system " + name + " has no entity update")
	case kind == ArchetypeSystem && def.Archetypes == nil:
		panic("system " + name + " has no archetype update")
	}

	query := def.Resolved
	if query == nil {
		fn := def.Query
		if fn == nil {
			fn = QueryNone
		}
		query = queries.Resolve(fn)
	}

	s := &System{
		name:       name,
		query:      query,
		kind:       kind,
		interval:   def.Interval,
		entities:   def.Entities,
		archetypes: def.Archetypes,
		stats: systemStats{
			minDuration: time.Duration(1<<63 - 1),
		},
	}
	if def.Immediate {
		s.acc = def.Interval
	}
	return s
}

// Name returns the system's name.
func (s *System) Name() string {
	return s.name
}

// Query returns the system's query.
func (s *System) Query() *Query {
	return s.query
}

// Kind returns the system's granularity.
func (s *System) Kind() SystemKind {
	return s.kind
}

// ready advances the throttle by delta and reports whether the system fires.
func (s *System) ready(delta float64) bool {
	if s.interval <= 0 {
		return true
	}

	s.acc += delta
	if s.acc < s.interval {
		return false
	}
	s.acc -= s.interval
	return true
}

func (s *System) run(frame *UpdateFrame) {
	archetypes := s.query.Archetypes()

	if s.kind == ArchetypeSystem {
		s.archetypes(frame, archetypes)
		return
	}

	for i := len(archetypes) - 1; i >= 0; i-- {
		entities := archetypes[i].Entities()
		if len(entities) == 0 {
			continue
		}
		s.entities(frame, entities)
	}
}
