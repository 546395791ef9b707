package primitize

import (
	"fmt"
	"reflect"
	"time"
	"unsafe"

	"github.com/viant/tagly/format/text"
	"github.com/viant/xunsafe"
)

var timeType = reflect.TypeOf(time.Time{})

type (
	//Type represents compiled record type
	Type struct {
		rType  reflect.Type
		fields []*fieldPlan
		marker *Marker
		hooks  bool //any field defines a hook, snapshot is taken only then
	}

	fieldPlan struct {
		name        string
		key         string
		path        []*xunsafe.Field //embedded holders followed by the field itself
		markerIndex int
		validates   bool
		*Field
	}

	typeKey struct {
		rType      reflect.Type
		tagName    string
		caseFormat text.CaseFormat
	}
)

// Type returns underlying struct type
func (t *Type) Type() reflect.Type {
	return t.rType
}

// Keys returns output keys in declaration order, writer fields excluded
func (t *Type) Keys() []string {
	var result = make([]string, 0, len(t.fields))
	for _, field := range t.fields {
		if field.HasWriter() {
			continue
		}
		result = append(result, field.key)
	}
	return result
}

// Names returns converted field names in declaration order
func (t *Type) Names() []string {
	var result = make([]string, 0, len(t.fields))
	for _, field := range t.fields {
		result = append(result, field.name)
	}
	return result
}

// Lookup returns resolved field for supplied field name
func (t *Type) Lookup(name string) *Field {
	for _, field := range t.fields {
		if field.name == name {
			return field.Field
		}
	}
	return nil
}

func (p *fieldPlan) value(ptr unsafe.Pointer, marker *Marker) interface{} {
	if !marker.IsSet(ptr, p.markerIndex) {
		return p.DefaultValue()
	}
	holder := ptr
	last := len(p.path) - 1
	for _, embedded := range p.path[:last] {
		holder = embedded.Pointer(holder)
	}
	return normalizeNil(p.path[last].Value(holder))
}

func (r *Registry) compile(key typeKey) (*Type, error) {
	marker, err := NewMarker(key.rType)
	if err != nil {
		return nil, err
	}
	ret := &Type{rType: key.rType, marker: marker}
	if err = r.compileFields(ret, key, key.rType, nil); err != nil {
		return nil, err
	}
	return ret, nil
}

func (r *Registry) compileFields(aType *Type, key typeKey, rType reflect.Type, holders []*xunsafe.Field) error {
	for i := 0; i < rType.NumField(); i++ {
		structField := rType.Field(i)
		if !structField.IsExported() || IsPresenceMarker(structField.Tag) {
			continue
		}
		tag, err := ResolveTag(structField, key.tagName)
		if err != nil {
			return fmt.Errorf("%v.%v: %w", key.rType.String(), structField.Name, err)
		}
		if tag.Ignore {
			continue
		}
		xField := xunsafe.NewField(structField)
		if structField.Anonymous && structField.Type.Kind() == reflect.Struct && !tag.IsDefined() && !r.isPrimitive(structField.Type) {
			path := append(append([]*xunsafe.Field{}, holders...), xField)
			if err = r.compileFields(aType, key, structField.Type, path); err != nil {
				return err
			}
			continue
		}
		field := &Field{}
		if err = r.applyTag(field, tag); err != nil {
			return fmt.Errorf("%v.%v: %w", key.rType.String(), structField.Name, err)
		}
		if spec := r.spec(key.rType, structField.Name); spec != nil {
			spec.Options.Apply(field)
		}
		if field.Ignore {
			continue
		}
		if field.Modifier != nil || field.Validator != nil || field.Writer != nil {
			aType.hooks = true
		}
		validates := field.Validator != nil
		field.ensureDefaults()
		plan := &fieldPlan{
			name:        structField.Name,
			key:         fieldKey(field, structField.Name, key.caseFormat),
			path:        append(append([]*xunsafe.Field{}, holders...), xField),
			markerIndex: -1,
			validates:   validates,
			Field:       field,
		}
		if len(holders) == 0 {
			plan.markerIndex = aType.marker.Index(structField.Name)
		}
		aType.fields = append(aType.fields, plan)
	}
	return nil
}

func fieldKey(field *Field, name string, caseFormat text.CaseFormat) string {
	if field.Rename != "" || caseFormat == text.CaseFormatUndefined {
		return field.Key(name)
	}
	return text.DetectCaseFormat(name).Format(name, caseFormat)
}

func ensureStruct(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Struct:
		return t
	case reflect.Ptr:
		return ensureStruct(t.Elem())
	}
	return nil
}

func normalizeNil(value interface{}) interface{} {
	if value == nil {
		return nil
	}
	switch rValue := reflect.ValueOf(value); rValue.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rValue.IsNil() {
			return nil
		}
	}
	return value
}

// isEmpty returns true for nil and zero length sized values
func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}
	switch actual := value.(type) {
	case string:
		return actual == ""
	case *Mapping:
		return actual.Len() == 0
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rValue.Len() == 0
	case reflect.Ptr, reflect.Interface, reflect.Func, reflect.Chan:
		return rValue.IsNil()
	}
	return false
}
