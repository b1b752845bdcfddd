package ecs

import (
	"fmt"
	"reflect"

	"github.com/kamstrup/intmap"
)

// Factory produces the default value of one component for a new row.
type Factory func() any

// Creator builds a fresh row holding the default value of every component in
// one mask.
type Creator func() *Row

// Row holds one entity's component values, addressed by ComponentID. Values of
// components that are not part of the row's archetype are nil.
type Row struct {
	id     EntityID
	values []any
}

// ID returns the entity owning this row.
func (r *Row) ID() EntityID {
	return r.id
}

// Get returns the value stored for component c, or nil.
func (r *Row) Get(c ComponentID) any {
	if int(c) >= len(r.values) {
		return nil
	}
	return r.values[c]
}

// Set stores v for component c.
func (r *Row) Set(c ComponentID, v any) {
	if int(c) >= len(r.values) {
		values := make([]any, int(c)+1)
		copy(values, r.values)
		r.values = values
	}
	r.values[c] = v
}

// clear resets component c to the empty value.
func (r *Row) clear(c ComponentID) {
	if int(c) < len(r.values) {
		r.values[c] = nil
	}
}

// detach returns a copy of r that shares no pointer values with it.
func (r *Row) detach() *Row {
	values := make([]any, len(r.values))
	for c, v := range r.values {
		values[c] = copyValue(v)
	}
	return &Row{id: r.id, values: values}
}

// copyValue copies the target of a non-nil pointer into a fresh pointer.
// Any other value is returned as is.
func copyValue(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return v
	}
	dup := reflect.New(rv.Type().Elem())
	dup.Elem().Set(rv.Elem())
	return dup.Interface()
}

// Get returns the value of component c in row r as a T. It panics if the
// stored value has a different type.
func Get[T any](r *Row, c ComponentID) T {
	v, ok := r.Get(c).(T)
	if !ok {
		panic(fmt.Sprintf("component %d of entity %d is %T, not %s", c, r.id, r.Get(c), reflect.TypeFor[T]()))
	}
	return v
}

// Lookup returns the value of component c in row r as a T, reporting whether
// it was present with that type.
func Lookup[T any](r *Row, c ComponentID) (T, bool) {
	v, ok := r.Get(c).(T)
	return v, ok
}

// InstanceRegistry maps component IDs to default value factories. Each World
// owns its own registry.
type InstanceRegistry struct {
	factories   *intmap.Map[ComponentID, Factory]
	creators    map[string]Creator
	logger      Logger
	development bool
}

// NewInstanceRegistry creates an empty registry.
func NewInstanceRegistry(logger Logger, development bool) *InstanceRegistry {
	if logger == nil {
		logger = NopLogger()
	}
	return &InstanceRegistry{
		factories:   intmap.New[ComponentID, Factory](64),
		creators:    make(map[string]Creator),
		logger:      logger,
		development: development,
	}
}

// Register stores the default for component id. Functions taking no arguments
// and returning one value are called for every new row; any other value is
// used as a constant.
func (r *InstanceRegistry) Register(id ComponentID, def any) {
	if r.development {
		r.logger.Log(fmt.Sprintf("[success]-[register component constructor]: %d", id))
	}
	r.factories.Put(id, toFactory(def))
}

func toFactory(def any) Factory {
	switch fn := def.(type) {
	case Factory:
		return fn
	case func() any:
		return fn
	case nil:
		return func() any { return nil }
	}

	v := reflect.ValueOf(def)
	if v.Kind() == reflect.Func && v.Type().NumIn() == 0 && v.Type().NumOut() == 1 {
		return func() any {
			return v.Call(nil)[0].Interface()
		}
	}

	return func() any { return def }
}

// Has reports whether a factory is registered for id.
func (r *InstanceRegistry) Has(id ComponentID) bool {
	return r.factories.Has(id)
}

// Factory returns the factory for id, or nil if none is registered.
func (r *InstanceRegistry) Factory(id ComponentID) Factory {
	f, _ := r.factories.Get(id)
	return f
}

// mustFactory returns the factory for id and panics if it is missing.
func (r *InstanceRegistry) mustFactory(id ComponentID) Factory {
	f, ok := r.factories.Get(id)
	if !ok {
		panic(fmt.Sprintf("component %d not registered", id))
	}
	return f
}

// Creator returns the row creator for mask, compiling it on first use.
func (r *InstanceRegistry) Creator(mask *BitSet) Creator {
	key := mask.Key()
	if creator, ok := r.creators[key]; ok {
		return creator
	}

	bitValues := mask.Values()
	ids := make([]ComponentID, len(bitValues))
	factories := make([]Factory, len(bitValues))
	for i, v := range bitValues {
		ids[i] = ComponentID(v)
		factories[i] = r.mustFactory(ids[i])
	}

	width := 0
	if len(ids) > 0 {
		width = int(ids[len(ids)-1]) + 1
	}

	creator := func() *Row {
		row := &Row{values: make([]any, width)}
		for i, id := range ids {
			row.values[id] = factories[i]()
		}
		return row
	}

	r.creators[key] = creator
	return creator
}
