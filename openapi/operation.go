package openapi

import (
	"encoding"
	"fmt"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"github.com/miruken-go/dispatch"
	"reflect"
	"strings"
	"time"
)

// Operation documents the parameters of the handler as query
// parameters. Beans contribute one parameter per exported field
// and unbound scalars, which are never resolved, are omitted.
func Operation(desc *dispatch.HandlerDescriptor) (*openapi3.Operation, error) {
	if desc == nil {
		return nil, fmt.Errorf("openapi: descriptor cannot be nil")
	}
	op := openapi3.NewOperation()
	op.OperationID = desc.String()
	op.Responses   = openapi3.NewResponses()
	for _, param := range desc.Params() {
		b := param.Binding
		if b == nil {
			if dispatch.IsScalar(param.Type) {
				continue
			}
			for _, p := range beanParameters(param.Type) {
				op.AddParameter(p)
			}
			continue
		}
		if b.Key == "" {
			continue
		}
		p, err := boundParameter(desc, param)
		if err != nil {
			return nil, err
		}
		op.AddParameter(p)
	}
	return op, nil
}

func boundParameter(
	desc  *dispatch.HandlerDescriptor,
	param dispatch.Parameter,
) (*openapi3.Parameter, error) {
	b      := param.Binding
	schema := schemaFor(param.Type, dispatch.ElementTypes(desc, param.Index), nil)
	if b.Default != "" && dispatch.IsScalar(param.Type) {
		def, err := dispatch.DefaultConverter.Convert(b.Default, param.Type)
		if err != nil {
			return nil, fmt.Errorf("openapi: invalid default for %q: %w", b.Key, err)
		}
		schema.WithDefault(defaultValue(def))
	}
	p := openapi3.NewQueryParameter(b.Key).
		WithRequired(b.Required).
		WithSchema(schema)
	switch param.Type.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Interface:
		if !dispatch.IsScalar(param.Type) {
			p.Style   = openapi3.SerializationForm
			p.Explode = openapi3.BoolPtr(true)
		}
	}
	return p, nil
}

func beanParameters(typ reflect.Type) []*openapi3.Parameter {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}
	var params []*openapi3.Parameter
	visiting := map[reflect.Type]bool{typ: true}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}
		name := fieldName(field)
		if name == "-" {
			continue
		}
		params = append(params, openapi3.NewQueryParameter(name).
			WithSchema(schemaFor(field.Type, nil, visiting)))
	}
	return params
}

// schemaFor describes typ. Structs already being described in
// visiting are emitted as untyped objects to break cycles.
func schemaFor(
	typ      reflect.Type,
	elem     []reflect.Type,
	visiting map[reflect.Type]bool,
) *openapi3.Schema {
	switch typ {
	case uuidType:
		return openapi3.NewStringSchema().WithFormat("uuid")
	case timeType:
		return openapi3.NewDateTimeSchema()
	case durationType:
		return openapi3.NewStringSchema().WithFormat("duration")
	}
	if typ.Kind() != reflect.Ptr && reflect.PointerTo(typ).Implements(textUnmarshalerType) {
		return openapi3.NewStringSchema()
	}
	switch typ.Kind() {
	case reflect.Bool:
		return openapi3.NewBoolSchema()
	case reflect.Int32:
		return openapi3.NewInt32Schema()
	case reflect.Int64:
		return openapi3.NewInt64Schema()
	case reflect.Int, reflect.Int8, reflect.Int16:
		return openapi3.NewIntegerSchema()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.NewIntegerSchema().WithMin(0)
	case reflect.Float32:
		return openapi3.NewFloat64Schema().WithFormat("float")
	case reflect.Float64:
		return openapi3.NewFloat64Schema()
	case reflect.String, reflect.Complex64, reflect.Complex128:
		return openapi3.NewStringSchema()
	case reflect.Ptr:
		return schemaFor(typ.Elem(), elem, visiting).WithNullable()
	case reflect.Slice, reflect.Array, reflect.Interface:
		itemType := dispatch.TypeOf[string]()
		if len(elem) == 1 {
			itemType = elem[0]
		} else if typ.Kind() != reflect.Interface && typ.Elem().Kind() != reflect.Interface {
			itemType = typ.Elem()
		}
		return openapi3.NewArraySchema().WithItems(schemaFor(itemType, nil, visiting))
	case reflect.Map:
		return openapi3.NewObjectSchema().
			WithAdditionalProperties(openapi3.NewStringSchema())
	case reflect.Struct:
		schema := openapi3.NewObjectSchema()
		if visiting[typ] {
			return schema
		}
		if visiting == nil {
			visiting = make(map[reflect.Type]bool)
		}
		visiting[typ] = true
		defer delete(visiting, typ)
		for i := 0; i < typ.NumField(); i++ {
			if field := typ.Field(i); field.IsExported() && !field.Anonymous {
				if name := fieldName(field); name != "-" {
					schema.WithProperty(name, schemaFor(field.Type, nil, visiting))
				}
			}
		}
		return schema
	}
	return openapi3.NewSchema()
}

func fieldName(field reflect.StructField) string {
	if name := strings.SplitN(field.Tag.Get("param"), ",", 2)[0]; name != "" {
		return name
	}
	return field.Name
}

func defaultValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Bool:
		return v.Bool()
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return defaultValue(v.Elem())
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v.Interface())
}

var (
	uuidType            = dispatch.TypeOf[uuid.UUID]()
	timeType            = dispatch.TypeOf[time.Time]()
	durationType        = dispatch.TypeOf[time.Duration]()
	textUnmarshalerType = dispatch.TypeOf[encoding.TextUnmarshaler]()
)
