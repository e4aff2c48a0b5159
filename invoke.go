package dispatch

import (
	"fmt"
	"github.com/go-logr/logr"
	"reflect"
)

// Invoker resolves the arguments of a handler, calls it and
// narrows the output to a Render.
// An Invoker is safe for concurrent use.
type Invoker struct {
	resolver *Resolver
	logger   logr.Logger
	pipeline Next
}

// NewInvoker creates an Invoker configured by opts.
func NewInvoker(opts ...Option) *Invoker {
	resolver := NewResolver(opts...)
	invoker  := &Invoker{
		resolver: resolver,
		logger:   resolver.options.Logger.WithName("invoker"),
	}
	invoker.pipeline = pipeline(
		orderedFilters(resolver.options.Filters), invoker.complete)
	return invoker
}

// Resolver returns the Resolver used to build arguments.
func (i *Invoker) Resolver() *Resolver {
	return i.resolver
}

// Invoke calls the handler described by desc with arguments
// resolved from raw.
func (i *Invoker) Invoke(
	desc *HandlerDescriptor,
	raw  Values,
) (Render, error) {
	if !desc.resolved() {
		err := &NotFoundError{Method: descName(desc)}
		i.logger.Error(err, "handler not resolved")
		return nil, err
	}

	args, err := i.resolver.Resolve(desc, raw)
	if err != nil {
		i.logger.Error(err, "unable to resolve arguments", "handler", desc.String())
		return nil, err
	}

	i.logger.V(1).Info("invoking handler", "handler", desc.String(), "args", args.String())

	return i.pipeline(desc, args)
}

// complete is the terminal step of the pipeline.
func (i *Invoker) complete(
	desc *HandlerDescriptor,
	args *ArgumentVector,
) (Render, error) {
	out, err := i.call(desc, args)
	if err != nil {
		i.logger.Error(err, "handler failed", "handler", desc.String())
		return nil, err
	}
	return i.narrow(desc, out[0])
}

// call dispatches through the function value bound when the
// handler was described. Panics and returned errors both
// become an InvocationError.
func (i *Invoker) call(
	desc *HandlerDescriptor,
	args *ArgumentVector,
) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			out, err = nil, &InvocationError{
				Handler: desc.typ,
				Method:  desc.name,
				Args:    args.Values(),
				Cause:   cause,
			}
		}
	}()
	out = desc.fun.Call(args.values)
	if desc.outErr {
		if e := out[1]; !e.IsNil() {
			return nil, &InvocationError{
				Handler: desc.typ,
				Method:  desc.name,
				Args:    args.Values(),
				Cause:   e.Interface().(error),
			}
		}
	}
	return out, nil
}

func (i *Invoker) narrow(
	desc   *HandlerDescriptor,
	result reflect.Value,
) (Render, error) {
	if result.Kind() == reflect.Interface && result.IsNil() {
		return nil, nil
	}
	if render, ok := result.Interface().(Render); ok {
		return render, nil
	}
	actual := result.Type()
	if result.Kind() == reflect.Interface {
		actual = result.Elem().Type()
	}
	err := &TypeMismatchError{
		Handler: desc.typ,
		Method:  desc.name,
		Actual:  actual,
	}
	i.logger.Error(err, "unexpected handler result")
	return nil, err
}

// Invoke calls the handler described by desc using a default Invoker.
func Invoke(desc *HandlerDescriptor, raw Values) (Render, error) {
	return defaultInvoker.Invoke(desc, raw)
}

var defaultInvoker = NewInvoker()
