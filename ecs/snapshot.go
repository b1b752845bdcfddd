package ecs

import (
	"io"
	"reflect"
	"slices"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type rowDocument struct {
	ID         EntityID            `yaml:"id"`
	Components map[ComponentID]any `yaml:"components,omitempty"`
}

type rowNodes struct {
	ID         EntityID                  `yaml:"id"`
	Components map[ComponentID]yaml.Node `yaml:"components"`
}

// MarshalYAML encodes the row as its ID plus every non-nil component value.
func (r *Row) MarshalYAML() (any, error) {
	doc := rowDocument{ID: r.id}
	for c, v := range r.values {
		if v == nil {
			continue
		}
		if doc.Components == nil {
			doc.Components = make(map[ComponentID]any)
		}
		doc.Components[ComponentID(c)] = v
	}
	return doc, nil
}

// UnmarshalYAML keeps each component value as an undecoded node. The value is
// decoded into the component's default type when the row is loaded.
func (r *Row) UnmarshalYAML(node *yaml.Node) error {
	var doc rowNodes
	if err := node.Decode(&doc); err != nil {
		return eris.Wrap(err, "failed to decode row")
	}

	r.id = doc.ID
	r.values = nil

	ids := make([]ComponentID, 0, len(doc.Components))
	for c := range doc.Components {
		ids = append(ids, c)
	}
	slices.Sort(ids)

	for _, c := range ids {
		node := doc.Components[c]
		r.Set(c, &node)
	}
	return nil
}

// WriteSnapshot encodes a world dump as YAML.
func WriteSnapshot(w io.Writer, data []SaveData) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(data); err != nil {
		return eris.Wrap(err, "failed to encode snapshot")
	}
	return eris.Wrap(enc.Close(), "failed to flush snapshot")
}

// ReadSnapshot decodes a world dump written by WriteSnapshot. Component values
// stay undecoded until World.Load matches them with their defaults.
func ReadSnapshot(r io.Reader) ([]SaveData, error) {
	var data []SaveData
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		if eris.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "failed to decode snapshot")
	}
	return data, nil
}

// decodeSnapshotValue turns a saved value into one of def's type. Values
// saved in memory are copied so the loaded world owns them. Nodes read from
// YAML are decoded into a fresh value shaped like def; a nil def keeps the
// node's natural decoding.
func decodeSnapshotValue(saved any, def any) (any, error) {
	node, ok := saved.(*yaml.Node)
	if !ok {
		return copyValue(saved), nil
	}

	if def == nil {
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, eris.Wrap(err, "failed to decode untyped value")
		}
		return v, nil
	}

	t := reflect.TypeOf(def)
	if t.Kind() == reflect.Pointer {
		ptr := reflect.New(t.Elem())
		if err := node.Decode(ptr.Interface()); err != nil {
			return nil, eris.Wrapf(err, "failed to decode %s", t)
		}
		return ptr.Interface(), nil
	}

	ptr := reflect.New(t)
	if err := node.Decode(ptr.Interface()); err != nil {
		return nil, eris.Wrapf(err, "failed to decode %s", t)
	}
	return ptr.Elem().Interface(), nil
}
