package restmodel

import (
	"bytes"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// OrderedMap is the marshalling output container: a string-keyed mapping that
// serializes in insertion order for both JSON and YAML. Field order therefore
// survives all the way to the wire when the schema preserves order.
type OrderedMap struct {
	keys []string
	m    map[string]any
}

// NewOrderedMap returns an empty ordered map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{m: map[string]any{}}
}

// Set inserts or replaces a value; replacing keeps the original position.
func (om *OrderedMap) Set(key string, v any) *OrderedMap {
	if _, ok := om.m[key]; !ok {
		om.keys = append(om.keys, key)
	}
	om.m[key] = v
	return om
}

// Get returns the value for key.
func (om *OrderedMap) Get(key string) (any, bool) {
	v, ok := om.m[key]
	return v, ok
}

// Has reports whether key is present.
func (om *OrderedMap) Has(key string) bool {
	_, ok := om.m[key]
	return ok
}

// Len returns the number of entries.
func (om *OrderedMap) Len() int { return len(om.keys) }

// Keys returns the keys in insertion order.
func (om *OrderedMap) Keys() []string {
	return append([]string(nil), om.keys...)
}

// MarshalJSON emits the entries in insertion order.
func (om *OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range om.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(om.m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits an order-preserving mapping node.
func (om *OrderedMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range om.keys {
		kn := &yaml.Node{}
		if err := kn.Encode(k); err != nil {
			return nil, err
		}
		vn := &yaml.Node{}
		if err := vn.Encode(om.m[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, kn, vn)
	}
	return node, nil
}
