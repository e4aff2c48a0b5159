package dispatch

import "reflect"

// IsNil reports whether val is nil or a nil reference.
func IsNil(val any) bool {
	if val == nil {
		return true
	}
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// TypeOf returns the reflect.Type of T, including interfaces.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// isEmpty reports values that fail a required check: invalid,
// nil references and zero length strings or containers.
func isEmpty(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		if v.Kind() != reflect.Array && v.Kind() != reflect.String && v.IsNil() {
			return true
		}
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return true
		}
		return isEmpty(v.Elem())
	}
	return false
}

var (
	errorType  = TypeOf[error]()
	stringType = TypeOf[string]()
)
