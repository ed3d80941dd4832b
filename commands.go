package tydux

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"
)

// mutatorMethod is one entry of a facade's dispatch table: the bound method
// value plus its reflected signature.
type mutatorMethod struct {
	name string
	fn   reflect.Value
}

// methods promoted from the embedded Mutator; never mutator methods
// themselves.
var promotedMethods = map[string]bool{
	"State":  true,
	"Invoke": true,
}

// buildDispatchTable validates the commands struct and builds the method
// name -> bound closure table, per facade, once at construction.
//
// Validation enforces the commands contract:
//   - commands must be a non-nil pointer to a struct
//   - the struct's only field is the embedded Mutator[S]
//     (ILLEGAL_INSTANCE_MEMBER, naming the offender)
//   - every exported method besides the promoted Mutator methods is a
//     mutator method and must declare no return values
//     (ILLEGAL_RETURN_TYPE, naming the method)
//
// Table keys are the method names with the first rune lowered, matching the
// action-type convention ("[facade] increment" for method Increment).
func buildDispatchTable[S any](facadeID string, commands Commands[S]) (map[string]mutatorMethod, error) {
	v := reflect.ValueOf(commands)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, &Error{
			Code:     ErrCodeIllegalInstanceMember,
			Message:  "commands must be a non-nil pointer to a struct",
			FacadeID: facadeID,
		}
	}
	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return nil, &Error{
			Code:     ErrCodeIllegalInstanceMember,
			Message:  fmt.Sprintf("commands must point to a struct, not %s", elem.Kind()),
			FacadeID: facadeID,
		}
	}

	mutatorType := reflect.TypeOf((*Mutator[S])(nil)).Elem()
	et := elem.Type()
	embedded := false
	for i := 0; i < et.NumField(); i++ {
		field := et.Field(i)
		if field.Anonymous && field.Type == mutatorType {
			embedded = true
			continue
		}
		return nil, &Error{
			Code:     ErrCodeIllegalInstanceMember,
			Message:  "commands struct must carry no fields besides the embedded Mutator",
			FacadeID: facadeID,
			Member:   field.Name,
		}
	}
	if !embedded {
		return nil, &Error{
			Code:     ErrCodeIllegalInstanceMember,
			Message:  "commands struct must embed tydux.Mutator",
			FacadeID: facadeID,
		}
	}

	table := make(map[string]mutatorMethod)
	t := v.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if promotedMethods[m.Name] {
			continue
		}
		if m.Type.NumOut() != 0 {
			return nil, &Error{
				Code:     ErrCodeIllegalReturnType,
				Message:  "mutator methods must not return values",
				FacadeID: facadeID,
				Method:   m.Name,
			}
		}
		name := lowerFirst(m.Name)
		table[name] = mutatorMethod{name: name, fn: v.Method(i)}
	}
	return table, nil
}

// callMutator invokes a table entry with args converted to the method's
// parameter types. Argument mismatches are INVALID_ARGUMENT errors; panics
// from the method body propagate to the caller untouched.
func callMutator(facadeID string, m mutatorMethod, args []any) error {
	ft := m.fn.Type()
	numIn := ft.NumIn()

	if ft.IsVariadic() {
		if len(args) < numIn-1 {
			return argCountError(facadeID, m.name, numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return argCountError(facadeID, m.name, numIn, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= numIn-1 {
			pt = ft.In(numIn - 1).Elem()
		} else {
			pt = ft.In(i)
		}
		av, err := coerce(facadeID, m.name, i, arg, pt)
		if err != nil {
			return err
		}
		in[i] = av
	}

	m.fn.Call(in)
	return nil
}

func coerce(facadeID, method string, pos int, arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, &Error{
			Code:     ErrCodeInvalidArgument,
			Message:  fmt.Sprintf("argument %d is nil but parameter type %s is not nilable", pos, pt),
			FacadeID: facadeID,
			Method:   method,
		}
	}
	av := reflect.ValueOf(arg)
	if av.Type().AssignableTo(pt) {
		return av, nil
	}
	if av.Type().ConvertibleTo(pt) && isScalar(av.Kind()) && isScalar(pt.Kind()) {
		return av.Convert(pt), nil
	}
	return reflect.Value{}, &Error{
		Code:     ErrCodeInvalidArgument,
		Message:  fmt.Sprintf("argument %d has type %s, want %s", pos, av.Type(), pt),
		FacadeID: facadeID,
		Method:   method,
	}
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func argCountError(facadeID, method string, want, got int) *Error {
	return &Error{
		Code:     ErrCodeInvalidArgument,
		Message:  fmt.Sprintf("wrong argument count: want %d, got %d", want, got),
		FacadeID: facadeID,
		Method:   method,
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
