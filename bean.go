package dispatch

import (
	"errors"
	"fmt"
	"github.com/mitchellh/mapstructure"
	"reflect"
)

type (
	// Constructor initializes a bean before it is populated.
	Constructor interface {
		Construct() error
	}

	// BeanBinder creates and populates struct parameters that
	// have no explicit Binding from the raw request parameters.
	BeanBinder struct {
		converter *Converter
		validator Validator
	}
)

// NewBeanBinder creates a BeanBinder converting scalar fields with
// converter and validating populated beans with the optional validator.
func NewBeanBinder(converter *Converter, validator Validator) *BeanBinder {
	if converter == nil {
		converter = DefaultConverter
	}
	return &BeanBinder{converter, validator}
}

// Bind instantiates typ, a struct or *struct, and assigns each field
// whose name matches a key in raw. Unmatched keys and fields are
// left untouched.
func (b *BeanBinder) Bind(
	typ reflect.Type,
	raw Values,
) (reflect.Value, error) {
	inst, err := b.instantiate(typ)
	if err != nil {
		return reflect.Value{}, err
	}

	input := make(map[string]any, len(raw))
	for key, values := range raw {
		input[key] = values
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncValue(b.decodeHook),
		WeaklyTypedInput: true,
		TagName:          "param",
		Result:           inst.Interface(),
	})
	if err != nil {
		return reflect.Value{}, &InstantiationError{Type: typ, Cause: err}
	}
	if err = decoder.Decode(input); err != nil {
		var ce *ConversionError
		if errors.As(err, &ce) {
			return reflect.Value{}, ce
		}
		return reflect.Value{}, &ConversionError{Type: typ, Cause: err}
	}

	if v := b.validator; v != nil {
		if err := v.Validate(inst.Interface()); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return reflect.Value{}, err
			}
			return reflect.Value{}, &ValidationError{
				Reason: fmt.Sprintf("bean %v is invalid", typ),
				Cause:  err,
			}
		}
	}

	if typ.Kind() == reflect.Ptr {
		return inst, nil
	}
	return inst.Elem(), nil
}

func (b *BeanBinder) instantiate(typ reflect.Type) (reflect.Value, error) {
	structType := typ
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return reflect.Value{}, &InstantiationError{
			Type:  typ,
			Cause: errors.New("bean parameters must be a struct or *struct"),
		}
	}
	if _, ok := reflect.PointerTo(structType).MethodByName("NoConstructor"); ok {
		return reflect.Value{}, &InstantiationError{
			Type:  typ,
			Cause: errors.New("type declares NoConstructor"),
		}
	}
	inst := reflect.New(structType)
	if ctor, ok := inst.Interface().(Constructor); ok {
		if err := ctor.Construct(); err != nil {
			return reflect.Value{}, &InstantiationError{Type: typ, Cause: err}
		}
	}
	return inst, nil
}

// decodeHook narrows multi-valued parameters to the shape of the
// field and parses scalars with the Converter. Empty values keep
// the current field value.
func (b *BeanBinder) decodeHook(
	from reflect.Value,
	to   reflect.Value,
) (any, error) {
	data   := from.Interface()
	toType := to.Type()
	if values, ok := data.([]string); ok {
		if k := toType.Kind(); (k == reflect.Slice || k == reflect.Array) && !IsScalar(toType) {
			return data, nil
		}
		if len(values) == 0 {
			return current(to), nil
		}
		data = values[0]
	}
	if raw, ok := data.(string); ok && IsScalar(toType) {
		if raw == "" && toType.Kind() != reflect.String {
			return current(to), nil
		}
		v, err := b.converter.Convert(raw, toType)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}
	return data, nil
}

func current(v reflect.Value) any {
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return nil
	}
	return v.Interface()
}

