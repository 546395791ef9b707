package primitize

import (
	"reflect"

	"github.com/francoispqt/gojay"
	"github.com/goccy/go-yaml"
)

// Mapping represents insertion ordered primitive mapping
type Mapping struct {
	keys   []string
	values map[string]interface{}
}

// Put adds or replaces key value, replaced key keeps its position
func (m *Mapping) Put(key string, value interface{}) {
	if m.values == nil {
		m.values = make(map[string]interface{})
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns value for supplied key
func (m *Mapping) Get(key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	value, ok := m.values[key]
	return value, ok
}

// Has returns true if key exists
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns entry count
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns keys in insertion order
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string{}, m.keys...)
}

// Each visits entries in insertion order until fn returns false
func (m *Mapping) Each(fn func(key string, value interface{}) bool) {
	if m == nil {
		return
	}
	for _, key := range m.keys {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

// Map returns plain map, nested mappings are converted too
func (m *Mapping) Map() map[string]interface{} {
	if m == nil {
		return nil
	}
	var result = make(map[string]interface{}, len(m.keys))
	m.Each(func(key string, value interface{}) bool {
		result[key] = transform(value, func(nested *Mapping) interface{} {
			return nested.Map()
		})
		return true
	})
	return result
}

// MapSlice returns ordered yaml map slice
func (m *Mapping) MapSlice() yaml.MapSlice {
	var result = make(yaml.MapSlice, 0, m.Len())
	m.Each(func(key string, value interface{}) bool {
		result = append(result, yaml.MapItem{Key: key, Value: transform(value, func(nested *Mapping) interface{} {
			return nested.MapSlice()
		})})
		return true
	})
	return result
}

// MarshalYAML implements yaml.InterfaceMarshaler
func (m *Mapping) MarshalYAML() (interface{}, error) {
	return m.MapSlice(), nil
}

// MarshalJSON encodes mapping preserving key order
func (m *Mapping) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	object := &jsonObject{mapping: m, err: new(error)}
	data, err := gojay.MarshalJSONObject(object)
	if err != nil {
		return nil, err
	}
	if *object.err != nil {
		return nil, *object.err
	}
	return data, nil
}

// MarshalJSONObject implements gojay.MarshalerJSONObject
func (m *Mapping) MarshalJSONObject(enc *gojay.Encoder) {
	object := &jsonObject{mapping: m, err: new(error)}
	object.MarshalJSONObject(enc)
}

// IsNil implements gojay.MarshalerJSONObject
func (m *Mapping) IsNil() bool {
	return m == nil
}

type jsonObject struct {
	mapping *Mapping
	err     *error
}

func (o *jsonObject) MarshalJSONObject(enc *gojay.Encoder) {
	o.mapping.Each(func(key string, value interface{}) bool {
		switch actual := value.(type) {
		case nil:
			enc.AddNullKey(key)
		case *Mapping:
			if actual == nil {
				enc.AddNullKey(key)
				return true
			}
			enc.AddObjectKey(key, &jsonObject{mapping: actual, err: o.err})
		case string, bool, int, int8, int16, int32, int64, uint8, uint16, uint32, float32, float64:
			enc.AddInterfaceKey(key, actual)
		default:
			data, err := gojay.MarshalAny(actual)
			if err != nil {
				*o.err = err
				return false
			}
			embedded := gojay.EmbeddedJSON(data)
			enc.AddEmbeddedJSONKey(key, &embedded)
		}
		return *o.err == nil
	})
}

func (o *jsonObject) IsNil() bool {
	return o.mapping == nil
}

// transform replaces nested mappings, slices and string keyed maps are rebuilt only when their elements can hold a mapping
func transform(value interface{}, fn func(nested *Mapping) interface{}) interface{} {
	switch actual := value.(type) {
	case nil:
		return nil
	case *Mapping:
		if actual == nil {
			return nil
		}
		return fn(actual)
	case []interface{}:
		if actual == nil {
			return actual
		}
		var result = make([]interface{}, len(actual))
		for i, item := range actual {
			result[i] = transform(item, fn)
		}
		return result
	case map[string]interface{}:
		if actual == nil {
			return actual
		}
		var result = make(map[string]interface{}, len(actual))
		for key, item := range actual {
			result[key] = transform(item, fn)
		}
		return result
	}
	rValue := reflect.ValueOf(value)
	if !canHoldMapping(rValue.Type()) {
		return value
	}
	switch rValue.Kind() {
	case reflect.Slice, reflect.Array:
		if rValue.Kind() == reflect.Slice && rValue.IsNil() {
			return value
		}
		var result = make([]interface{}, rValue.Len())
		for i := 0; i < rValue.Len(); i++ {
			result[i] = transform(rValue.Index(i).Interface(), fn)
		}
		return result
	case reflect.Map:
		if rValue.Type().Key().Kind() != reflect.String || rValue.IsNil() {
			return value
		}
		var result = make(map[string]interface{}, rValue.Len())
		iter := rValue.MapRange()
		for iter.Next() {
			result[iter.Key().String()] = transform(iter.Value().Interface(), fn)
		}
		return result
	}
	return value
}

var mappingType = reflect.TypeOf(&Mapping{})

func canHoldMapping(rType reflect.Type) bool {
	switch rType.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		elem := rType.Elem()
		return elem == mappingType || elem.Kind() == reflect.Interface || canHoldMapping(elem)
	}
	return false
}

// NewMapping creates a mapping
func NewMapping(capacity int) *Mapping {
	return &Mapping{keys: make([]string, 0, capacity), values: make(map[string]interface{}, capacity)}
}
