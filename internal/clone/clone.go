// Package clone provides the deep-copy primitive behind mutation drafts.
//
// A draft is an explicit copy-on-write structure: the commit engine clones
// the committed sub-state, lets mutators write to the clone in place, and
// publishes the clone only on a successful root-level return. The clone must
// therefore never share mutable containers (maps, slices, pointers) with the
// committed value.
//
// State is expected to be serializable-shaped: maps, slices, pointers and
// structs with exported fields. Unexported struct fields are copied as part
// of the enclosing struct value but are not descended into, so reference
// containers hidden in unexported fields stay shared. Channels and funcs are
// copied by reference.
package clone

import "reflect"

// Deep returns a deep copy of v.
//
// nil maps, slices and pointers stay nil in the copy, preserving the
// distinction between "absent" and "empty".
func Deep[T any](v T) T {
	rv := reflect.ValueOf(&v).Elem()
	out := deepValue(rv)
	return out.Interface().(T)
}

// deepValue recursively copies v. The returned value always has v's type.
func deepValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			// Map keys are comparable and treated as immutable; only
			// values are descended into.
			out.SetMapIndex(iter.Key(), deepValue(iter.Value()))
		}
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepValue(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepValue(v.Index(i)))
		}
		return out

	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepValue(v.Elem()))
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		// Copy the whole value first so unexported fields carry over,
		// then replace exported fields with deep copies.
		out.Set(v)
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			out.Field(i).Set(deepValue(v.Field(i)))
		}
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepValue(v.Elem()))
		return out

	default:
		// Primitives, strings, channels, funcs: copy as-is.
		return v
	}
}
