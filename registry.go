package primitize

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/primitize/internal/syncmap"
	"github.com/viant/tagly/format/text"
)

var defaultRegistry = NewRegistry()

// Registry holds field declarations, named hooks and compiled record types
type Registry struct {
	mux        sync.RWMutex
	specs      map[reflect.Type]map[string]*Spec
	modifiers  map[string]Modifier
	validators map[string]Validator
	writers    map[string]Writer
	primitives map[reflect.Type]bool
	types      *syncmap.Map[typeKey, *Type]
}

// DefaultRegistry returns package registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Declare attaches field specs to a record type, record can be a value, a pointer or a reflect.Type
func (r *Registry) Declare(record interface{}, specs ...*Spec) error {
	rType, err := recordType(record)
	if err != nil {
		return err
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	fields := r.specs[rType]
	if fields == nil {
		fields = make(map[string]*Spec, len(specs))
	}
	for _, spec := range specs {
		if spec == nil {
			continue
		}
		structField, ok := rType.FieldByName(spec.Name)
		if !ok {
			return fmt.Errorf("failed to declare %v.%v: no such field", rType.String(), spec.Name)
		}
		if !structField.IsExported() {
			return fmt.Errorf("failed to declare %v.%v: field is unexported", rType.String(), spec.Name)
		}
		if prev, ok := fields[spec.Name]; ok {
			spec = &Spec{Name: spec.Name, Options: append(append(FieldOptions{}, prev.Options...), spec.Options...)}
		}
		fields[spec.Name] = spec
	}
	r.specs[rType] = fields
	r.types.Reset()
	return nil
}

// RegisterModifier registers named modifier
func (r *Registry) RegisterModifier(name string, modifier Modifier) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.modifiers[name] = modifier
	r.types.Reset()
}

// RegisterValidator registers named validator
func (r *Registry) RegisterValidator(name string, validator Validator) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.validators[name] = validator
	r.types.Reset()
}

// RegisterWriter registers named writer
func (r *Registry) RegisterWriter(name string, writer Writer) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.writers[name] = writer
	r.types.Reset()
}

// RegisterPrimitive registers struct types passed through without conversion
func (r *Registry) RegisterPrimitive(types ...reflect.Type) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, rType := range types {
		r.primitives[rType] = true
	}
	r.types.Reset()
}

// Type returns compiled record type
func (r *Registry) Type(rType reflect.Type, tagName string, caseFormat text.CaseFormat) (*Type, error) {
	if structType := ensureStruct(rType); structType != nil {
		rType = structType
	}
	if rType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("unsupported record type: %v", rType.String())
	}
	key := typeKey{rType: rType, tagName: tagName, caseFormat: caseFormat}
	return r.types.GetOrPut(key, func() (*Type, error) {
		return r.compile(key)
	})
}

func (r *Registry) spec(rType reflect.Type, name string) *Spec {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.specs[rType][name]
}

func (r *Registry) isPrimitive(rType reflect.Type) bool {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.primitives[rType]
}

func (r *Registry) applyTag(field *Field, tag *Tag) error {
	field.Rename = tag.Name
	field.UnsetIfEmpty = tag.UnsetIfEmpty
	r.mux.RLock()
	defer r.mux.RUnlock()
	if tag.Modifier != "" {
		modifier, ok := r.modifiers[tag.Modifier]
		if !ok {
			return fmt.Errorf("unknown modifier: %v", tag.Modifier)
		}
		field.Modifier = modifier
	}
	if tag.Validator != "" {
		validator, ok := r.validators[tag.Validator]
		if !ok {
			return fmt.Errorf("unknown validator: %v", tag.Validator)
		}
		field.Validator = validator
	}
	if tag.Writer != "" {
		writer, ok := r.writers[tag.Writer]
		if !ok {
			return fmt.Errorf("unknown writer: %v", tag.Writer)
		}
		field.Writer = writer
	}
	if tag.Modify != "" {
		modifier, err := NewExpressionModifier(tag.Modify)
		if err != nil {
			return err
		}
		field.Modifier = modifier
	}
	if tag.Validate != "" {
		validator, err := NewExpressionValidator(tag.Validate)
		if err != nil {
			return err
		}
		field.Validator = validator
	}
	return nil
}

// NewRegistry creates a registry
func NewRegistry() *Registry {
	return &Registry{
		specs:      make(map[reflect.Type]map[string]*Spec),
		modifiers:  make(map[string]Modifier),
		validators: make(map[string]Validator),
		writers:    make(map[string]Writer),
		primitives: map[reflect.Type]bool{timeType: true},
		types:      syncmap.New[typeKey, *Type](),
	}
}

// Declare attaches field specs to a record type in the default registry
func Declare(record interface{}, specs ...*Spec) error {
	return defaultRegistry.Declare(record, specs...)
}

// MustDeclare attaches field specs in the default registry or panics
func MustDeclare(record interface{}, specs ...*Spec) {
	if err := Declare(record, specs...); err != nil {
		panic(err)
	}
}

func recordType(record interface{}) (reflect.Type, error) {
	if record == nil {
		return nil, fmt.Errorf("record was nil")
	}
	rType, ok := record.(reflect.Type)
	if !ok {
		rType = reflect.TypeOf(record)
	}
	if structType := ensureStruct(rType); structType != nil {
		return structType, nil
	}
	return nil, fmt.Errorf("expected struct or pointer to struct, got %v", rType.String())
}
