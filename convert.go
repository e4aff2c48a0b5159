package dispatch

import (
	"encoding"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Converter converts raw string parameters into scalar values
// and arrays or slices of scalar values.
// A Converter is immutable and safe for concurrent use.
type Converter struct {
	timeLayout string
}

// NewConverter creates a Converter parsing time.Time with layout.
func NewConverter(layout string) *Converter {
	if layout == "" {
		layout = time.RFC3339
	}
	return &Converter{layout}
}

// DefaultConverter is the shared Converter using RFC3339 times.
var DefaultConverter = NewConverter(time.RFC3339)

// IsScalar reports whether typ converts from a single raw string.
func IsScalar(typ reflect.Type) bool {
	if typ == nil {
		return false
	}
	switch typ {
	case durationType, timeType, uuidType:
		return true
	}
	if typ.Kind() != reflect.Ptr && reflect.PointerTo(typ).Implements(textUnmarshalerType) {
		return true
	}
	switch typ.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Ptr:
		return IsScalar(typ.Elem())
	}
	return false
}

// Convert parses raw into a value of typ.
func (c *Converter) Convert(
	raw string,
	typ reflect.Type,
) (reflect.Value, error) {
	if typ == nil {
		return reflect.Value{}, &ConversionError{Value: raw, Cause: errors.New("missing target type")}
	}
	v, err := c.convert(raw, typ)
	if err != nil {
		var ce *ConversionError
		if errors.As(err, &ce) {
			return reflect.Value{}, err
		}
		return reflect.Value{}, &ConversionError{Value: raw, Type: typ, Cause: err}
	}
	return v, nil
}

// ConvertAll parses each raw value into the element type of
// the array or slice typ, preserving order.
func (c *Converter) ConvertAll(
	raw []string,
	typ reflect.Type,
) (reflect.Value, error) {
	if typ == nil {
		return reflect.Value{}, &ConversionError{
			Value: strings.Join(raw, ","), Cause: errors.New("missing target type")}
	}
	var out reflect.Value
	switch typ.Kind() {
	case reflect.Slice:
		out = reflect.MakeSlice(typ, len(raw), len(raw))
	case reflect.Array:
		if len(raw) > typ.Len() {
			return reflect.Value{}, &ConversionError{
				Value: strings.Join(raw, ","),
				Type:  typ,
				Cause: fmt.Errorf("%d values exceed array length %d", len(raw), typ.Len()),
			}
		}
		out = reflect.New(typ).Elem()
	default:
		return reflect.Value{}, &ConversionError{
			Value: strings.Join(raw, ","),
			Type:  typ,
			Cause: errors.New("expected an array or slice type"),
		}
	}
	elemType := typ.Elem()
	for i, r := range raw {
		v, err := c.Convert(r, elemType)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

func (c *Converter) convert(
	raw string,
	typ reflect.Type,
) (reflect.Value, error) {
	switch typ {
	case durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	case timeType:
		t, err := time.Parse(c.timeLayout, raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil
	case uuidType:
		id, err := uuid.Parse(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(id), nil
	}

	if typ.Kind() != reflect.Ptr {
		if ptr := reflect.PointerTo(typ); ptr.Implements(textUnmarshalerType) {
			v := reflect.New(typ)
			if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
				return reflect.Value{}, err
			}
			return v.Elem(), nil
		}
	}

	v := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(raw, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(raw, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetFloat(f)
	case reflect.Complex64, reflect.Complex128:
		z, err := strconv.ParseComplex(raw, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetComplex(z)
	case reflect.String:
		v.SetString(raw)
	case reflect.Ptr:
		elem, err := c.Convert(raw, typ.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	default:
		return reflect.Value{}, fmt.Errorf("unsupported type %v", typ)
	}
	return v, nil
}

var (
	durationType        = TypeOf[time.Duration]()
	timeType            = TypeOf[time.Time]()
	uuidType            = TypeOf[uuid.UUID]()
	textUnmarshalerType = TypeOf[encoding.TextUnmarshaler]()
)
