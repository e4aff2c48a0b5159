package dispatch

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type (
	// Binding describes how a single handler parameter is extracted
	// from the raw request parameters.
	// A parameter without a Binding is bound as a bean.
	Binding struct {
		Key      string
		// Default is the literal used when Key is absent. An empty
		// Default leaves non-string scalars at their zero value.
		Default  string
		Required bool
		// Elem declares the element types of a container parameter
		// when the Go type cannot carry them, e.g. []any.
		Elem []reflect.Type
	}

	// BindingOption customizes a Binding created by Param.
	BindingOption func(*Binding)
)

// Param creates a Binding for the parameter key.
func Param(key string, opts ...BindingOption) *Binding {
	b := &Binding{Key: key}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Default assigns the literal used when the key is absent.
func Default(value string) BindingOption {
	return func(b *Binding) {
		b.Default = value
	}
}

// Required rejects values that resolve to nil or empty.
func Required() BindingOption {
	return func(b *Binding) {
		b.Required = true
	}
}

// Elem declares the element types of a container parameter.
func Elem(types ...reflect.Type) BindingOption {
	return func(b *Binding) {
		b.Elem = types
	}
}

// ParseBinding creates a Binding from struct tag notation
//   `param:"age" default:"18" required:"true"`
// The key may also carry the options inline
//   `param:"age,default=18,required"`
func ParseBinding(tag reflect.StructTag) (*Binding, error) {
	key, ok := tag.Lookup("param")
	if !ok {
		return nil, fmt.Errorf("binding: missing param key in tag %q", tag)
	}
	parts := strings.Split(key, ",")
	b := &Binding{Key: strings.TrimSpace(parts[0])}
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		switch {
		case part == "required":
			b.Required = true
		case strings.HasPrefix(part, "default="):
			b.Default = strings.TrimPrefix(part, "default=")
		case part == "":
		default:
			return nil, fmt.Errorf("binding: unrecognized option %q for param %q", part, b.Key)
		}
	}
	if def, ok := tag.Lookup("default"); ok {
		b.Default = def
	}
	if req, ok := tag.Lookup("required"); ok {
		required, err := strconv.ParseBool(req)
		if err != nil {
			return nil, fmt.Errorf("binding: invalid required flag %q for param %q: %w", req, b.Key, err)
		}
		b.Required = required
	}
	return b, nil
}

// MustParseBinding is like ParseBinding but panics on error.
func MustParseBinding(tag reflect.StructTag) *Binding {
	b, err := ParseBinding(tag)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Binding) String() string {
	if b == nil {
		return "bean"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "param:%q", b.Key)
	if b.Default != "" {
		fmt.Fprintf(&sb, " default:%q", b.Default)
	}
	if b.Required {
		sb.WriteString(" required")
	}
	return sb.String()
}
