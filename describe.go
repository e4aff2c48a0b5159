package dispatch

import (
	"errors"
	"fmt"
	"github.com/hashicorp/go-multierror"
	"reflect"
	"runtime"
	"strings"
)

type (
	// HandlerDescriptor identifies the resolved target and method
	// of a request along with the binding of each parameter.
	// It is immutable once described.
	HandlerDescriptor struct {
		target any
		typ    reflect.Type
		name   string
		fun    reflect.Value
		params []Parameter
		outErr bool
	}

	// Parameter describes a single declared handler parameter.
	// A nil Binding selects bean mode.
	Parameter struct {
		Index   int
		Type    reflect.Type
		Binding *Binding
	}
)

// Describe creates a HandlerDescriptor for the method of target.
// Bindings are assigned to the method parameters positionally and
// a nil or missing Binding leaves the parameter in bean mode.
func Describe(
	target   any,
	method   string,
	bindings ...*Binding,
) (*HandlerDescriptor, error) {
	if IsNil(target) {
		return nil, errors.New("describe: target cannot be nil")
	}
	tv := reflect.ValueOf(target)
	fun := tv.MethodByName(method)
	if !fun.IsValid() {
		return nil, &NotFoundError{Method: method}
	}
	return newDescriptor(target, tv.Type(), method, fun, bindings)
}

// DescribeFunc creates a HandlerDescriptor for a function value.
func DescribeFunc(
	fun      any,
	bindings ...*Binding,
) (*HandlerDescriptor, error) {
	fv := reflect.ValueOf(fun)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, fmt.Errorf("describe: expected a func, found %T", fun)
	}
	name := funcName(fv)
	return newDescriptor(nil, fv.Type(), name, fv, bindings)
}

// MustDescribe is like Describe but panics on error.
func MustDescribe(
	target   any,
	method   string,
	bindings ...*Binding,
) *HandlerDescriptor {
	d, err := Describe(target, method, bindings...)
	if err != nil {
		panic(err)
	}
	return d
}

func newDescriptor(
	target   any,
	typ      reflect.Type,
	name     string,
	fun      reflect.Value,
	bindings []*Binding,
) (*HandlerDescriptor, error) {
	var invalid error
	funType := fun.Type()
	numIn   := funType.NumIn()

	if funType.IsVariadic() {
		invalid = multierror.Append(invalid, errors.New(
			"variadic parameters are not supported"))
	}
	if len(bindings) > numIn {
		invalid = multierror.Append(invalid, fmt.Errorf(
			"%d bindings supplied for %d parameters", len(bindings), numIn))
	}

	params := make([]Parameter, numIn)
	for i := 0; i < numIn; i++ {
		param := Parameter{Index: i, Type: funType.In(i)}
		if i < len(bindings) {
			param.Binding = bindings[i]
		}
		if err := validateElem(param); err != nil {
			invalid = multierror.Append(invalid, err)
		}
		params[i] = param
	}

	outErr := false
	switch funType.NumOut() {
	case 1:
	case 2:
		if funType.Out(1) != errorType {
			invalid = multierror.Append(invalid, fmt.Errorf(
				"second output must be error, found %v", funType.Out(1)))
		}
		outErr = true
	default:
		invalid = multierror.Append(invalid, fmt.Errorf(
			"expected 1 or 2 outputs (result, error), found %d", funType.NumOut()))
	}

	if invalid != nil {
		return nil, &DescriptorError{Handler: typ, Method: name, Cause: invalid}
	}
	return &HandlerDescriptor{
		target: target,
		typ:    typ,
		name:   name,
		fun:    fun,
		params: params,
		outErr: outErr,
	}, nil
}

func validateElem(param Parameter) error {
	b := param.Binding
	if b == nil || len(b.Elem) == 0 {
		return nil
	}
	expected := 0
	switch param.Type.Kind() {
	case reflect.Slice, reflect.Interface:
		expected = 1
	case reflect.Map:
		expected = 2
	default:
		return fmt.Errorf("parameter %d (%v) cannot declare element types %v",
			param.Index, param.Type, b.Elem)
	}
	if len(b.Elem) != expected {
		return fmt.Errorf("parameter %d (%v) expects %d element types, found %d",
			param.Index, param.Type, expected, len(b.Elem))
	}
	for _, elem := range b.Elem {
		if elem == nil {
			return fmt.Errorf("parameter %d (%v) declares a nil element type", param.Index, param.Type)
		}
	}
	switch elem := b.Elem[0]; param.Type.Kind() {
	case reflect.Slice:
		if !elem.AssignableTo(param.Type.Elem()) {
			return fmt.Errorf("parameter %d (%v) cannot hold elements of type %v",
				param.Index, param.Type, elem)
		}
	case reflect.Interface:
		if !reflect.SliceOf(elem).AssignableTo(param.Type) {
			return fmt.Errorf("parameter %d (%v) cannot hold a list of %v",
				param.Index, param.Type, elem)
		}
	}
	return nil
}

// Target returns the handler instance or nil for functions.
func (d *HandlerDescriptor) Target() any {
	return d.target
}

// Type returns the handler type.
func (d *HandlerDescriptor) Type() reflect.Type {
	return d.typ
}

// Name returns the method name.
func (d *HandlerDescriptor) Name() string {
	return d.name
}

// Params returns the declared parameters in order.
func (d *HandlerDescriptor) Params() []Parameter {
	return d.params
}

// NumParam returns the number of declared parameters.
func (d *HandlerDescriptor) NumParam() int {
	return len(d.params)
}

// Param returns the parameter at index.
func (d *HandlerDescriptor) Param(index int) Parameter {
	return d.params[index]
}

func (d *HandlerDescriptor) resolved() bool {
	return d != nil && d.fun.IsValid()
}

func (d *HandlerDescriptor) String() string {
	if d == nil {
		return "<nil>"
	}
	if d.target == nil {
		return d.name
	}
	return fmt.Sprintf("%v.%s", d.typ, d.name)
}

func funcName(fv reflect.Value) string {
	if f := runtime.FuncForPC(fv.Pointer()); f != nil {
		name := f.Name()
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	return fv.Type().String()
}
