package dispatch

import "reflect"

// ElementTypes returns the declared element types of the container
// parameter at index: [elem] for arrays and slices, [key, elem] for
// maps. An explicit Binding.Elem takes precedence. Erased element
// types (interfaces) and non-containers yield an empty result.
func ElementTypes(
	desc  *HandlerDescriptor,
	index int,
) []reflect.Type {
	if desc == nil || index < 0 || index >= len(desc.params) {
		return nil
	}
	param := desc.params[index]
	if b := param.Binding; b != nil && len(b.Elem) > 0 {
		return b.Elem
	}
	typ := param.Type
	switch typ.Kind() {
	case reflect.Slice, reflect.Array:
		if elem := typ.Elem(); elem.Kind() != reflect.Interface {
			return []reflect.Type{elem}
		}
	case reflect.Map:
		key, elem := typ.Key(), typ.Elem()
		if key.Kind() != reflect.Interface && elem.Kind() != reflect.Interface {
			return []reflect.Type{key, elem}
		}
	}
	return nil
}
