package dispatch

import (
	"fmt"
	"reflect"
	"strings"
)

type (
	// ValidationError reports a structural violation of the binding
	// rules or a required value that resolved to nothing.
	ValidationError struct {
		Key    string
		Reason string
		Cause  error
	}

	// ConversionError reports a raw value that could not be parsed
	// into the requested type.
	ConversionError struct {
		Value string
		Type  reflect.Type
		Cause error
	}

	// ArgumentError pinpoints the parameter key and expected type
	// of a failed conversion.
	ArgumentError struct {
		Key   string
		Type  reflect.Type
		Cause error
	}

	// InstantiationError reports a bean parameter that could not
	// be default constructed.
	InstantiationError struct {
		Type  reflect.Type
		Cause error
	}

	// NotFoundError reports a handler with no resolved method.
	NotFoundError struct {
		Method string
	}

	// InvocationError reports a failure raised by the handler itself.
	InvocationError struct {
		Handler reflect.Type
		Method  string
		Args    []any
		Cause   error
	}

	// TypeMismatchError reports a handler result that is not a Render.
	TypeMismatchError struct {
		Handler reflect.Type
		Method  string
		Actual  reflect.Type
	}

	// DescriptorError reports a handler that cannot be described.
	DescriptorError struct {
		Handler reflect.Type
		Method  string
		Cause   error
	}
)


// ValidationError

func (e *ValidationError) Error() string {
	var msg string
	if e.Key == "" {
		msg = fmt.Sprintf("validation: %s", e.Reason)
	} else {
		msg = fmt.Sprintf("validation: parameter %q %s", e.Key, e.Reason)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}


// ConversionError

func (e *ConversionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("convert: cannot convert %q to %v", e.Value, e.Type)
	}
	return fmt.Sprintf("convert: cannot convert %q to %v: %v", e.Value, e.Type, e.Cause)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}


// ArgumentError

func (e *ArgumentError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("illegal argument: bean of type %v: %v", e.Type, e.Cause)
	}
	return fmt.Sprintf("illegal argument: parameter %q should be of type %v: %v",
		e.Key, e.Type, e.Cause)
}

func (e *ArgumentError) Unwrap() error {
	return e.Cause
}


// InstantiationError

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("instantiate: unable to create %v: %v", e.Type, e.Cause)
}

func (e *InstantiationError) Unwrap() error {
	return e.Cause
}


// NotFoundError

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("can not find specified method: %s", e.Method)
}


// InvocationError

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke: handler %v, method %s, args [%s]: %v",
		e.Handler, e.Method, formatArgs(e.Args), e.Cause)
}

func (e *InvocationError) Unwrap() error {
	return e.Cause
}


// TypeMismatchError

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"invoke: handler %v, method %s must return an implementation of dispatch.Render, found %v",
		e.Handler, e.Method, e.Actual)
}


// DescriptorError

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("describe: invalid handler %v method %s: %v",
		e.Handler, e.Method, e.Cause)
}

func (e *DescriptorError) Unwrap() error {
	return e.Cause
}

func formatArgs(args []any) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", arg)
	}
	return sb.String()
}
