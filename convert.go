package primitize

import (
	"fmt"
	"log/slog"
	"reflect"
	"unsafe"

	"github.com/viant/tagly/format/text"
	"github.com/viant/xunsafe"
)

// Primitizer is implemented by records converting themselves, it replaces field walk for that record
type Primitizer interface {
	Primitize() (*Mapping, error)
}

// Converter converts records into primitive mappings
type Converter struct {
	registry   *Registry
	tagName    string
	caseFormat text.CaseFormat
	logger     *slog.Logger
}

var defaultConverter = New()

// Convert converts record with the default converter or one built from supplied options
func Convert(record interface{}, opts ...Option) (*Mapping, error) {
	if len(opts) == 0 {
		return defaultConverter.Convert(record)
	}
	return New(opts...).Convert(record)
}

// Type returns compiled record type
func (c *Converter) Type(record interface{}) (*Type, error) {
	rType, err := recordType(record)
	if err != nil {
		return nil, err
	}
	return c.registry.Type(rType, c.tagName, c.caseFormat)
}

// Convert converts record into a mapping
func (c *Converter) Convert(record interface{}) (*Mapping, error) {
	if normalizeNil(record) == nil {
		return nil, fmt.Errorf("primitize: record was nil")
	}
	if custom, ok := asPrimitizer(record); ok {
		return custom.Primitize()
	}
	aType, err := c.registry.Type(reflect.TypeOf(record), c.tagName, c.caseFormat)
	if err != nil {
		return nil, fmt.Errorf("primitize: %w", err)
	}
	ptr, err := recordPointer(record)
	if err != nil {
		return nil, err
	}
	var snapshot interface{} = record
	if aType.hooks {
		snapshot = c.copyOf(record, "record")
	}
	result := NewMapping(len(aType.fields))
	for _, field := range aType.fields {
		value := field.value(ptr, aType.marker)
		if value, err = field.Modifier(snapshot, value); err != nil {
			return nil, err
		}
		value = normalizeNil(value)
		if c.isRecord(value) {
			if value, err = c.Convert(value); err != nil {
				return nil, err
			}
		}
		if field.validates {
			if valid, message := field.Validator(snapshot, c.copyOf(value, "value")); !valid {
				return nil, &ValidationError{Type: aType.rType.String(), Field: field.name, Key: field.key, Value: value, Message: message}
			}
		}
		if field.UnsetIfEmpty && isEmpty(value) {
			continue
		}
		if field.Writer != nil {
			if err = field.Writer(snapshot, value); err != nil {
				return nil, err
			}
			continue
		}
		result.Put(field.key, value)
	}
	return result, nil
}

// copyOf returns best effort deep copy, falling back to supplied value
func (c *Converter) copyOf(value interface{}, kind string) interface{} {
	if value == nil {
		return nil
	}
	cloned, err := DeepCopy(value)
	if err == nil && cloned == nil {
		err = fmt.Errorf("clone returned nil")
	}
	if err != nil {
		c.log().Warn("primitize: failed to copy "+kind+", using live "+kind, "type", fmt.Sprintf("%T", value), "error", err)
		return value
	}
	return cloned
}

func (c *Converter) isRecord(value interface{}) bool {
	switch value.(type) {
	case nil, *Mapping:
		return false
	case Primitizer:
		return true
	}
	rType := reflect.TypeOf(value)
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if rType.Kind() != reflect.Struct {
		return false
	}
	if _, ok := reflect.New(rType).Interface().(Primitizer); ok {
		return true
	}
	return !c.registry.isPrimitive(rType)
}

func (c *Converter) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

func asPrimitizer(record interface{}) (Primitizer, bool) {
	if custom, ok := record.(Primitizer); ok {
		return custom, true
	}
	rValue := reflect.ValueOf(record)
	if rValue.Kind() != reflect.Struct {
		return nil, false
	}
	rPointer := reflect.New(rValue.Type())
	rPointer.Elem().Set(rValue)
	custom, ok := rPointer.Interface().(Primitizer)
	return custom, ok
}

func recordPointer(record interface{}) (unsafe.Pointer, error) {
	rValue := reflect.ValueOf(record)
	for rValue.Kind() == reflect.Ptr && rValue.Elem().Kind() == reflect.Ptr {
		if rValue = rValue.Elem(); rValue.IsNil() {
			return nil, fmt.Errorf("primitize: record was nil")
		}
	}
	if rValue.Kind() != reflect.Ptr {
		rPointer := reflect.New(rValue.Type())
		rPointer.Elem().Set(rValue)
		rValue = rPointer
	}
	return xunsafe.AsPointer(rValue.Interface()), nil
}

// New creates a converter
func New(opts ...Option) *Converter {
	ret := &Converter{registry: defaultRegistry, tagName: TagName}
	Options(opts).Apply(ret)
	if ret.registry == nil {
		ret.registry = defaultRegistry
	}
	if ret.tagName == "" {
		ret.tagName = TagName
	}
	return ret
}
