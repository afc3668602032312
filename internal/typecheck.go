package internal

import "reflect"

var (
	anyType    = reflect.TypeOf((*any)(nil)).Elem()
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
	loaderType = reflect.TypeOf((*Loader)(nil))
)

// checkType reports whether a resolved value can be bound to a parameter
// of type t. A nil value binds only to nilable types; everything else is
// decided by Go assignability, so an interface parameter accepts any
// implementation and a concrete parameter requires an exact or assignable
// runtime type. No implicit numeric conversion: a candidate of the wrong
// width is a miss, not a coercion.
func checkType(v any, t reflect.Type) bool {
	if v == nil {
		return nilable(t)
	}
	return reflect.TypeOf(v).AssignableTo(t)
}

// nilable reports whether t can hold an untyped nil.
func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

// typeKey is the loader lookup key for a parameter type, e.g.
// "*session.Session", "int" or "io.Writer".
func typeKey(t reflect.Type) string {
	return t.String()
}
