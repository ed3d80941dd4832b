package observe

import "reflect"

// Equal implements the de-duplication comparison for change streams:
// identity (reference) comparison, except when both values are slices, in
// which case they compare equal if they have the same length and identical
// elements position by position (shallow, one level deep).
//
// "Identity" for Go values means == for comparable types and pointer
// identity for maps, pointers, channels and funcs. Values of uncomparable
// non-reference types (e.g. structs containing slices) never compare equal,
// so they are always re-emitted.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	if av.Kind() == reflect.Slice && bv.Kind() == reflect.Slice {
		return shallowSliceEqual(av, bv)
	}
	return identityEqual(av, bv)
}

// IsNil reports whether v is nil or a typed nil pointer/map/slice/interface.
// Used by SelectNonNil-style filters.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// shallowSliceEqual compares two slices element-wise using identity
// comparison per element.
func shallowSliceEqual(a, b reflect.Value) bool {
	if a.IsNil() != b.IsNil() {
		return false
	}
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		ae := a.Index(i)
		be := b.Index(i)
		if ae.Kind() == reflect.Interface {
			if !Equal(valueOrNil(ae), valueOrNil(be)) {
				return false
			}
			continue
		}
		if !identityEqual(ae, be) {
			return false
		}
	}
	return true
}

func valueOrNil(v reflect.Value) any {
	if v.IsNil() {
		return nil
	}
	return v.Interface()
}

// identityEqual compares two same-typed values by identity.
func identityEqual(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		// A slice reached here is an element of an outer slice; compare by
		// backing identity, not contents.
		return a.Pointer() == b.Pointer() && a.Len() == b.Len()
	default:
		if !a.Type().Comparable() {
			return false
		}
		return a.Interface() == b.Interface()
	}
}
