package primitize

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Cloner is implemented by records that provide their own deep copy
type Cloner interface {
	Clone() (interface{}, error)
}

//visit identifies an already copied pointer, map or slice, slices also by length
type visit struct {
	ptr   unsafe.Pointer
	rType reflect.Type
	len   int
}

type copier struct {
	visited map[visit]reflect.Value
}

// DeepCopy returns a deep copy of value, non nil channels and unsafe pointers cannot be copied
func DeepCopy(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	if cloner, ok := value.(Cloner); ok {
		return cloner.Clone()
	}
	c := &copier{visited: map[visit]reflect.Value{}}
	cloned, err := c.copy(reflect.ValueOf(value))
	if err != nil {
		return nil, err
	}
	return cloned.Interface(), nil
}

func (c *copier) copy(src reflect.Value) (reflect.Value, error) {
	switch src.Kind() {
	case reflect.Invalid:
		return src, nil
	case reflect.Chan, reflect.UnsafePointer:
		if src.IsNil() {
			return reflect.Zero(src.Type()), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot copy %v", src.Type().String())
	case reflect.Ptr:
		if src.IsNil() {
			return reflect.Zero(src.Type()), nil
		}
		key := visit{ptr: src.UnsafePointer(), rType: src.Type()}
		if prev, ok := c.visited[key]; ok {
			return prev, nil
		}
		dest := reflect.New(src.Type().Elem())
		c.visited[key] = dest
		elem, err := c.copy(src.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		dest.Elem().Set(elem)
		return dest, nil
	case reflect.Interface:
		if src.IsNil() {
			return reflect.Zero(src.Type()), nil
		}
		elem, err := c.copy(src.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		dest := reflect.New(src.Type()).Elem()
		dest.Set(elem)
		return dest, nil
	case reflect.Struct:
		if src.Type() == timeType {
			break
		}
		return c.copyStruct(src)
	case reflect.Slice:
		if src.IsNil() {
			return reflect.Zero(src.Type()), nil
		}
		key := visit{ptr: src.UnsafePointer(), rType: src.Type(), len: src.Len()}
		if prev, ok := c.visited[key]; ok {
			return prev, nil
		}
		dest := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		c.visited[key] = dest
		for i := 0; i < src.Len(); i++ {
			item, err := c.copy(src.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}
			dest.Index(i).Set(item)
		}
		return dest, nil
	case reflect.Array:
		dest := reflect.New(src.Type()).Elem()
		for i := 0; i < src.Len(); i++ {
			item, err := c.copy(src.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}
			dest.Index(i).Set(item)
		}
		return dest, nil
	case reflect.Map:
		if src.IsNil() {
			return reflect.Zero(src.Type()), nil
		}
		key := visit{ptr: src.UnsafePointer(), rType: src.Type()}
		if prev, ok := c.visited[key]; ok {
			return prev, nil
		}
		dest := reflect.MakeMapWithSize(src.Type(), src.Len())
		c.visited[key] = dest
		iter := src.MapRange()
		for iter.Next() {
			key, err := c.copy(iter.Key())
			if err != nil {
				return reflect.Value{}, err
			}
			item, err := c.copy(iter.Value())
			if err != nil {
				return reflect.Value{}, err
			}
			dest.SetMapIndex(key, item)
		}
		return dest, nil
	}
	//primitives and funcs are shared
	dest := reflect.New(src.Type()).Elem()
	dest.Set(accessible(src))
	return dest, nil
}

func (c *copier) copyStruct(src reflect.Value) (reflect.Value, error) {
	if !src.CanAddr() {
		addressable := reflect.New(src.Type()).Elem()
		addressable.Set(accessible(src))
		src = addressable
	}
	dest := reflect.New(src.Type()).Elem()
	for i := 0; i < src.NumField(); i++ {
		field, err := c.copy(accessible(src.Field(i)))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%v.%v: %w", src.Type().String(), src.Type().Field(i).Name, err)
		}
		accessible(dest.Field(i)).Set(field)
	}
	return dest, nil
}

// accessible lifts read-only flag from unexported struct fields
func accessible(value reflect.Value) reflect.Value {
	if value.CanInterface() || !value.CanAddr() {
		return value
	}
	return reflect.NewAt(value.Type(), unsafe.Pointer(value.UnsafeAddr())).Elem()
}
