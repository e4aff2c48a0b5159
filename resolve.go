package dispatch

import (
	"errors"
	"fmt"
	"github.com/go-logr/logr"
	"reflect"
	"strings"
)

type (
	// Values maps a parameter key to its ordered raw values.
	// It has the same shape as url.Values.
	Values map[string][]string

	// Diagnostic records a parameter that was left unset.
	Diagnostic struct {
		Index   int
		Type    reflect.Type
		Message string
	}

	// ArgumentVector holds the converted arguments of a handler,
	// positionally aligned with its declared parameters.
	// Unset slots hold the zero value of the parameter type.
	ArgumentVector struct {
		values      []reflect.Value
		set         []bool
		diagnostics []Diagnostic
	}

	// Resolver builds the ArgumentVector of a handler from the raw
	// request parameters using the declared parameter bindings.
	// A Resolver retains nothing between calls.
	Resolver struct {
		options   Options
		converter *Converter
		beans     *BeanBinder
		logger    logr.Logger
	}
)


// ArgumentVector

// Len returns the number of slots.
func (a *ArgumentVector) Len() int {
	return len(a.values)
}

// IsSet reports whether the slot at index was resolved.
func (a *ArgumentVector) IsSet(index int) bool {
	return a.set[index]
}

// Value returns the argument at index.
func (a *ArgumentVector) Value(index int) any {
	return a.values[index].Interface()
}

// Values returns all arguments in order.
func (a *ArgumentVector) Values() []any {
	args := make([]any, len(a.values))
	for i, v := range a.values {
		args[i] = v.Interface()
	}
	return args
}

// Diagnostics returns the reasons slots were skipped.
func (a *ArgumentVector) Diagnostics() []Diagnostic {
	return a.diagnostics
}

func (a *ArgumentVector) String() string {
	return "[" + formatArgs(a.Values()) + "]"
}


// Resolver

// NewResolver creates a Resolver configured by opts.
func NewResolver(opts ...Option) *Resolver {
	options   := buildOptions(opts)
	converter := NewConverter(options.TimeLayout)
	return &Resolver{
		options:   options,
		converter: converter,
		beans:     NewBeanBinder(converter, options.Validator),
		logger:    options.Logger.WithName("resolver"),
	}
}

// Resolve converts raw into the arguments of desc, one parameter at
// a time in declaration order. Structural problems with the handler
// signature are reported before any value is converted.
func (r *Resolver) Resolve(
	desc *HandlerDescriptor,
	raw  Values,
) (*ArgumentVector, error) {
	if !desc.resolved() {
		return nil, &NotFoundError{Method: descName(desc)}
	}
	if err := r.validateMaps(desc); err != nil {
		return nil, err
	}

	n    := len(desc.params)
	args := &ArgumentVector{
		values: make([]reflect.Value, n),
		set:    make([]bool, n),
	}
	for i, param := range desc.params {
		args.values[i] = reflect.Zero(param.Type)
		if param.Binding == nil {
			if IsScalar(param.Type) {
				if r.options.StrictScalars {
					return nil, &ValidationError{Reason: fmt.Sprintf(
						"scalar parameter %d (%v) of %v must specify a binding",
						i, param.Type, desc)}
				}
				diag := Diagnostic{
					Index:   i,
					Type:    param.Type,
					Message: "must specify a binding for scalar parameter",
				}
				args.diagnostics = append(args.diagnostics, diag)
				r.logger.Info(diag.Message, "handler", desc.String(), "index", i, "type", param.Type.String())
				continue
			}
			v, err := r.beans.Bind(param.Type, raw)
			if err != nil {
				return nil, beanError(param.Type, err)
			}
			args.values[i], args.set[i] = v, true
			continue
		}
		v, set, err := r.resolveBound(desc, param, raw)
		if err != nil {
			return nil, err
		}
		if set {
			args.values[i], args.set[i] = v, true
		}
		r.logger.V(2).Info("resolved parameter", "key", param.Binding.Key, "set", set)
	}
	return args, nil
}

// validateMaps enforces a single string keyed and valued map
// parameter which must be first.
func (r *Resolver) validateMaps(desc *HandlerDescriptor) error {
	count := 0
	for i, param := range desc.params {
		if param.Type.Kind() != reflect.Map {
			continue
		}
		key := ""
		if b := param.Binding; b != nil {
			key = b.Key
		}
		if count++; count > 1 {
			return &ValidationError{Key: key, Reason: fmt.Sprintf(
				"must have only one map type parameter, occurring point: %v", desc)}
		}
		if param.Binding == nil || key == "" {
			continue
		}
		if i > 0 {
			return &ValidationError{Key: key, Reason: fmt.Sprintf(
				"map type parameter must be the first parameter, occurring point: %v", desc)}
		}
		types := ElementTypes(desc, i)
		if len(types) == 2 && (types[0] != stringType || types[1] != stringType) ||
			!stringType.AssignableTo(param.Type.Key()) ||
			!stringType.AssignableTo(param.Type.Elem()) {
			return &ValidationError{Key: key, Reason: fmt.Sprintf(
				"map type parameter must both be string, occurring point: %v", desc)}
		}
	}
	return nil
}

func (r *Resolver) resolveBound(
	desc  *HandlerDescriptor,
	param Parameter,
	raw   Values,
) (v reflect.Value, set bool, err error) {
	b   := param.Binding
	typ := param.Type
	if b.Key == "" {
		if b.Required {
			err = &ValidationError{Reason: "must not be null or empty"}
		}
		return
	}
	if typ.Kind() == reflect.Map {
		v, set = r.projectMap(typ, raw), true
	} else {
		values, present := raw[b.Key]
		present = present && len(values) > 0
		switch {
		case IsScalar(typ):
			literal := b.Default
			if present {
				literal = values[0]
			}
			if literal == "" && !present && typ.Kind() != reflect.String {
				v, set = reflect.Zero(typ), true
				break
			}
			v, err = r.converter.Convert(literal, typ)
			set = err == nil
		case typ.Kind() == reflect.Array:
			if !present {
				values = r.splitDefault(b.Default)
			}
			if len(values) > 0 {
				v, err = r.converter.ConvertAll(values, typ)
				set = err == nil
			}
		case typ.Kind() == reflect.Slice || typ.Kind() == reflect.Interface && len(b.Elem) == 1:
			if !present {
				values = r.splitDefault(b.Default)
			}
			if present || len(values) > 0 {
				v, err = r.newList(desc, param, values)
				set = err == nil
			}
		}
	}
	if err != nil {
		return reflect.Value{}, false, &ArgumentError{Key: b.Key, Type: typ, Cause: err}
	}
	if b.Required && (!set || isEmpty(v)) {
		return reflect.Value{}, false, &ValidationError{
			Key: b.Key, Reason: "must not be null or empty"}
	}
	return
}

// newList appends each non-empty raw value converted to the
// element type, preserving order.
func (r *Resolver) newList(
	desc   *HandlerDescriptor,
	param  Parameter,
	values []string,
) (reflect.Value, error) {
	elemType := stringType
	if types := ElementTypes(desc, param.Index); len(types) == 1 {
		elemType = types[0]
	}
	listType := param.Type
	if listType.Kind() != reflect.Slice {
		listType = reflect.SliceOf(elemType)
	}
	list := reflect.MakeSlice(listType, 0, len(values))
	for _, value := range values {
		if len(value) == 0 {
			continue
		}
		elem, err := r.converter.Convert(value, elemType)
		if err != nil {
			return reflect.Value{}, err
		}
		list = reflect.Append(list, elem)
	}
	if listType != param.Type {
		out := reflect.New(param.Type).Elem()
		out.Set(list)
		return out, nil
	}
	return list, nil
}

// projectMap keeps the first value of each raw parameter.
func (r *Resolver) projectMap(
	typ reflect.Type,
	raw Values,
) reflect.Value {
	m := reflect.MakeMapWithSize(typ, len(raw))
	keyType, elemType := typ.Key(), typ.Elem()
	for key, values := range raw {
		first := ""
		if len(values) > 0 {
			first = values[0]
		}
		kv := reflect.New(keyType).Elem()
		kv.Set(reflect.ValueOf(key))
		ev := reflect.New(elemType).Elem()
		ev.Set(reflect.ValueOf(first))
		m.SetMapIndex(kv, ev)
	}
	return m
}

func (r *Resolver) splitDefault(literal string) []string {
	if literal == "" {
		return nil
	}
	return strings.Split(literal, r.options.ListSeparator)
}

func beanError(typ reflect.Type, err error) error {
	var ie *InstantiationError
	var ve *ValidationError
	if errors.As(err, &ie) || errors.As(err, &ve) {
		return err
	}
	return &ArgumentError{Type: typ, Cause: err}
}

func descName(desc *HandlerDescriptor) string {
	if desc == nil {
		return "<nil>"
	}
	return desc.name
}

// Resolve converts raw into the arguments of desc using a
// default Resolver.
func Resolve(desc *HandlerDescriptor, raw Values) (*ArgumentVector, error) {
	return defaultResolver.Resolve(desc, raw)
}

var defaultResolver = NewResolver()
