package primitize

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

// Marker reports which record fields were assigned
type Marker struct {
	t      reflect.Type
	holder *xunsafe.Field
	fields []*xunsafe.Field
	index  map[string]int //record field name to marker position
}

// Index returns mapped field index or -1
func (p *Marker) Index(name string) int {
	if p == nil || len(p.index) == 0 {
		return -1
	}
	pos, ok := p.index[name]
	if !ok {
		return -1
	}
	return pos
}

// HolderName returns marker holder field name
func (p *Marker) HolderName() string {
	if p == nil || p.holder == nil {
		return ""
	}
	return p.holder.Name
}

// IsSet returns true if field has been assigned, fields without marker flag are assumed assigned
func (p *Marker) IsSet(ptr unsafe.Pointer, index int) bool {
	if p == nil || p.holder == nil || p.holder.IsNil(ptr) {
		return true
	}
	if index < 0 || index >= len(p.fields) || p.fields[index] == nil {
		return true
	}
	markerPtr := p.holder.ValuePointer(ptr)
	return p.fields[index].Bool(markerPtr)
}

func (p *Marker) init() error {
	holderType := ensureStruct(p.holder.Type)
	if holderType == nil {
		return fmt.Errorf("marker holder %v.%v is not a struct", p.t.String(), p.holder.Name)
	}
	p.fields = make([]*xunsafe.Field, len(p.index))
	for i := 0; i < holderType.NumField(); i++ {
		markerField := holderType.Field(i)
		pos, ok := p.index[markerField.Name]
		if !ok {
			return fmt.Errorf("marker field: '%v' does not have corresponding %v field", markerField.Name, p.t.String())
		}
		if markerField.Type.Kind() != reflect.Bool {
			return fmt.Errorf("marker field: '%v' is not bool", markerField.Name)
		}
		p.fields[pos] = xunsafe.NewField(markerField)
	}
	return nil
}

// NewMarker returns presence marker for supplied struct type, or nil when type has no marker holder
func NewMarker(t reflect.Type) (*Marker, error) {
	if t = ensureStruct(t); t == nil {
		return nil, fmt.Errorf("supplied type is not struct")
	}
	var result = &Marker{t: t, index: make(map[string]int, t.NumField())}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if IsPresenceMarker(field.Tag) {
			if result.holder != nil {
				return nil, fmt.Errorf("%v has more than one presence marker", t.String())
			}
			result.holder = xunsafe.NewField(field)
			continue
		}
		result.index[field.Name] = len(result.index)
	}
	if result.holder == nil {
		return nil, nil
	}
	return result, result.init()
}
