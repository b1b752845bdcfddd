package ecs

// Matcher decides whether an archetype with the given mask belongs to a query.
type Matcher func(mask *BitSet, archetype *Archetype) bool

// QueryFunc describes a query by adding matchers to a builder.
type QueryFunc func(q *QueryBuilder) *QueryBuilder

// QueryAll matches every archetype.
func QueryAll(q *QueryBuilder) *QueryBuilder { return q.All() }

// QueryNone matches no archetype. Useful for systems that only need the tick.
func QueryNone(q *QueryBuilder) *QueryBuilder { return q.Empty() }

func alwaysTrue(*BitSet, *Archetype) bool { return true }

func alwaysFalse(*BitSet, *Archetype) bool { return false }

func andMatcher(first Matcher, rest []Matcher) Matcher {
	return func(mask *BitSet, a *Archetype) bool {
		if !first(mask, a) {
			return false
		}
		for _, m := range rest {
			if !m(mask, a) {
				return false
			}
		}
		return true
	}
}

func orMatcher(first Matcher, rest []Matcher) Matcher {
	return func(mask *BitSet, a *Archetype) bool {
		if first(mask, a) {
			return true
		}
		for _, m := range rest {
			if m(mask, a) {
				return true
			}
		}
		return false
	}
}

// compile folds matchers left to right with AND. An empty chain matches all.
func compile(matchers []Matcher) Matcher {
	if len(matchers) == 0 {
		return alwaysTrue
	}
	return andMatcher(matchers[0], matchers[1:])
}

// QueryBuilder accumulates matchers. Matchers are AND-combined unless grouped
// with Or.
type QueryBuilder struct {
	matchers []Matcher
}

// NewQueryBuilder creates an empty builder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Matchers returns the accumulated matchers.
func (q *QueryBuilder) Matchers() []Matcher {
	return q.matchers
}

// Or replaces the chain built so far with (chain) OR (sub-chain built by fn).
// Later matchers are AND-combined with the result, so repeated calls nest.
// An empty sub-chain leaves the query unchanged.
func (q *QueryBuilder) Or(fn QueryFunc) *QueryBuilder {
	right := fn(NewQueryBuilder()).matchers
	if len(right) == 0 {
		return q
	}
	left := compile(q.matchers)
	q.matchers = []Matcher{orMatcher(left, []Matcher{compile(right)})}
	return q
}

// Every requires all of ids.
func (q *QueryBuilder) Every(ids ...ComponentID) *QueryBuilder {
	if len(ids) == 0 {
		return q
	}
	mask := ComponentMask(ids...)
	q.matchers = append(q.matchers, func(other *BitSet, _ *Archetype) bool {
		return other.Contains(mask)
	})
	return q
}

// Some requires at least one of ids.
func (q *QueryBuilder) Some(ids ...ComponentID) *QueryBuilder {
	if len(ids) == 0 {
		return q
	}
	mask := ComponentMask(ids...)
	q.matchers = append(q.matchers, func(other *BitSet, _ *Archetype) bool {
		return other.Intersects(mask)
	})
	return q
}

// Not excludes archetypes having any of ids.
func (q *QueryBuilder) Not(ids ...ComponentID) *QueryBuilder {
	if len(ids) == 0 {
		return q
	}
	mask := ComponentMask(ids...)
	q.matchers = append(q.matchers, func(other *BitSet, _ *Archetype) bool {
		return !other.Intersects(mask)
	})
	return q
}

// None excludes archetypes having all of ids.
func (q *QueryBuilder) None(ids ...ComponentID) *QueryBuilder {
	if len(ids) == 0 {
		return q
	}
	mask := ComponentMask(ids...)
	q.matchers = append(q.matchers, func(other *BitSet, _ *Archetype) bool {
		return !other.Contains(mask)
	})
	return q
}

// Entity requires every component of the template archetype.
func (q *QueryBuilder) Entity(template *Archetype) *QueryBuilder {
	mask := template.Mask()
	q.matchers = append(q.matchers, func(other *BitSet, _ *Archetype) bool {
		return other.Contains(mask)
	})
	return q
}

// Custom adds an arbitrary matcher.
func (q *QueryBuilder) Custom(m Matcher) *QueryBuilder {
	q.matchers = append(q.matchers, m)
	return q
}

// All adds a matcher accepting everything.
func (q *QueryBuilder) All() *QueryBuilder {
	return q.Custom(alwaysTrue)
}

// Empty adds a matcher rejecting everything.
func (q *QueryBuilder) Empty() *QueryBuilder {
	return q.Custom(alwaysFalse)
}

// Query is a compiled builder plus the archetypes that matched so far. The
// list only grows: archetypes are offered once, when they are created or when
// the world is initialized.
type Query struct {
	matcher    Matcher
	archetypes []*Archetype
	seen       *BitSet
}

// NewQuery compiles builder into a query with no archetypes.
func NewQuery(builder *QueryBuilder) *Query {
	return &Query{
		matcher: compile(builder.matchers),
		seen:    NewBitSet(1),
	}
}

// Matches evaluates the query's matcher against a without recording it.
func (q *Query) Matches(a *Archetype) bool {
	return q.matcher(a.Mask(), a)
}

// TryAdd records a if it matches. It returns false if a does not match or was
// already recorded.
func (q *Query) TryAdd(a *Archetype) bool {
	if q.seen.Has(a.Index()) {
		return false
	}
	if !q.Matches(a) {
		return false
	}

	q.seen.Or(a.Index())
	q.archetypes = append(q.archetypes, a)
	return true
}

// Archetypes returns the matching archetypes in the order they were added.
func (q *Query) Archetypes() []*Archetype {
	return q.archetypes
}

// Count returns the number of entities across all matching archetypes.
func (q *Query) Count() int {
	n := 0
	for _, a := range q.archetypes {
		n += a.Len()
	}
	return n
}

// Entities returns a snapshot of every matching row.
func (q *Query) Entities() []*Row {
	rows := make([]*Row, 0, q.Count())
	for _, a := range q.archetypes {
		rows = append(rows, a.Entities()...)
	}
	return rows
}

// QueryRegistry keeps every compiled query so new archetypes can be offered
// to all of them.
type QueryRegistry struct {
	queries []*Query
}

// NewQueryRegistry creates an empty registry.
func NewQueryRegistry() *QueryRegistry {
	return &QueryRegistry{}
}

// Resolve compiles fn into a query and registers it.
func (r *QueryRegistry) Resolve(fn QueryFunc) *Query {
	q := NewQuery(fn(NewQueryBuilder()))
	r.queries = append(r.queries, q)
	return q
}

// Queries returns every registered query.
func (r *QueryRegistry) Queries() []*Query {
	return r.queries
}

// Offer passes a to every registered query.
func (r *QueryRegistry) Offer(a *Archetype) {
	for _, q := range r.queries {
		q.TryAdd(a)
	}
}
