// Package clone deep copies the composite values (sequences and records)
// stored by cells, so that a caller keeping a reference to the value it handed
// in cannot change what the cell holds.
package clone

import (
	"reflect"
)

// Kind is the shape of a value as far as cloning is concerned.
type Kind int

const (
	// Scalar covers everything that is stored as-is: numbers, strings,
	// bools, structs, pointers, channels, funcs and nil.
	Scalar Kind = iota
	// Sequence is a slice or an array.
	Sequence
	// Record is a map.
	Record
)

func (k Kind) String() string {
	switch k {
	case Sequence:
		return "sequence"
	case Record:
		return "record"
	default:
		return "scalar"
	}
}

// KindOf classifies v by its dynamic type. Sequences are checked first.
func KindOf(v any) Kind {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return Sequence
	case reflect.Map:
		return Record
	default:
		return Scalar
	}
}

// IsSequence reports whether v is a slice or an array.
func IsSequence(v any) bool { return KindOf(v) == Sequence }

// IsRecord reports whether v is a plain key-value record. It is false for
// sequences.
func IsRecord(v any) bool { return KindOf(v) == Record }

// CloneSequence returns a deep copy of v when v is a slice or an array, and
// v itself otherwise.
func CloneSequence[T any](v T) T {
	if !IsSequence(v) {
		return v
	}

	return deep(v)
}

// CloneRecord returns a deep copy of v when v is a map, and v itself otherwise.
func CloneRecord[T any](v T) T {
	if !IsRecord(v) {
		return v
	}

	return deep(v)
}

func deep[T any](v T) T {
	rv := reflect.ValueOf(v)
	if isNil(rv) {
		return v
	}

	return newCloner().clone(rv).Interface().(T)
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

type visit struct {
	ptr uintptr
	len int
	typ reflect.Type
}

// cloner remembers what it already copied, so cycles and values shared
// between branches come out with the same shape.
type cloner struct {
	seen map[visit]reflect.Value
}

func newCloner() *cloner {
	return &cloner{seen: make(map[visit]reflect.Value)}
}

func (c *cloner) clone(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}

		key := visit{v.Pointer(), v.Len(), v.Type()}
		if out, ok := c.seen[key]; ok {
			return out
		}

		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		c.seen[key] = out

		for i := range v.Len() {
			out.Index(i).Set(c.clone(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := range v.Len() {
			out.Index(i).Set(c.clone(v.Index(i)))
		}
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}

		key := visit{v.Pointer(), 0, v.Type()}
		if out, ok := c.seen[key]; ok {
			return out
		}

		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		c.seen[key] = out

		iter := v.MapRange()
		for iter.Next() {
			// keys are kept as-is, they identify the entry
			out.SetMapIndex(iter.Key(), c.clone(iter.Value()))
		}
		return out

	case reflect.Pointer:
		if v.IsNil() {
			return v
		}

		key := visit{v.Pointer(), 0, v.Type()}
		if out, ok := c.seen[key]; ok {
			return out
		}

		out := reflect.New(v.Type().Elem())
		c.seen[key] = out

		out.Elem().Set(c.clone(v.Elem()))
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}

		out := reflect.New(v.Type()).Elem()
		out.Set(c.clone(v.Elem()))
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)

		// unexported fields stay shallow copies
		for i := range v.NumField() {
			if field := out.Field(i); field.CanSet() {
				field.Set(c.clone(v.Field(i)))
			}
		}
		return out

	default:
		return v
	}
}
