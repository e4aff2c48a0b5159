package render

import (
	"encoding/json"
	"github.com/Rican7/conjson"
	"github.com/Rican7/conjson/transform"
	"io"
)

type (
	// Text renders a plain string body.
	Text struct {
		Body string
		Type string
	}

	// JSON renders Value as json using encoding/json.
	// Transformers apply key conventions to the output.
	JSON struct {
		Value        any
		Indent       string
		Transformers []transform.Transformer
	}
)


// Text

func (t Text) ContentType() string {
	if t.Type != "" {
		return t.Type
	}
	return "text/plain; charset=utf-8"
}

func (t Text) Render(w io.Writer) error {
	_, err := io.WriteString(w, t.Body)
	return err
}


// JSON

func (j JSON) ContentType() string {
	return "application/json; charset=utf-8"
}

func (j JSON) Render(w io.Writer) error {
	var v any = j.Value
	if trans := j.Transformers; len(trans) > 0 {
		v = conjson.NewMarshaler(j.Value, trans...)
	}
	enc := json.NewEncoder(w)
	if indent := j.Indent; len(indent) > 0 {
		enc.SetIndent("", indent)
	}
	return enc.Encode(v)
}

// CamelCase renders v as json with camelcase keys.
func CamelCase(v any) JSON {
	return JSON{Value: v, Transformers: camelCase}
}

var camelCase = []transform.Transformer{
	transform.OnlyForDirection(
		transform.Marshal,
		transform.CamelCaseKeys(false)),
}
