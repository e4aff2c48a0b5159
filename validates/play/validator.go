package play

import (
	"errors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	play "github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
	"github.com/hashicorp/go-multierror"
	"github.com/miruken-go/dispatch"
	"reflect"
	"strings"
)

// Validator validates bound beans with the go playground validator.
// https://github.com/go-playground/validator/
type Validator struct {
	validate   *play.Validate
	translator ut.Translator
}

// New creates a Validator reporting fields by their param tag.
func New(config ...func(*Validator) error) (*Validator, error) {
	v := &Validator{validate: play.New()}
	v.validate.RegisterTagNameFunc(paramName)
	for _, configure := range config {
		if configure != nil {
			if err := configure(v); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

// Validate returns a ValidationError for each failed field.
func (v *Validator) Validate(target any) error {
	err := v.validate.Struct(target)
	if err == nil {
		return nil
	}
	var fields play.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	var invalid error
	for _, field := range fields {
		reason := field.Error()
		if trans := v.translator; trans != nil {
			reason = field.Translate(trans)
		}
		invalid = multierror.Append(invalid, &dispatch.ValidationError{
			Key:    field.Field(),
			Reason: reason,
		})
	}
	return invalid
}

// Validator exposes the underlying validator for custom rules.
func (v *Validator) Validator() *play.Validate {
	return v.validate
}

// UseTranslator translates validation messages.
func UseTranslator(translator ut.Translator) func(*Validator) error {
	return func(v *Validator) error {
		v.translator = translator
		return nil
	}
}

// English translates validation messages with the default
// english translations.
func English() func(*Validator) error {
	return func(v *Validator) error {
		locale := en.New()
		trans, ok := ut.New(locale, locale).GetTranslator("en")
		if !ok {
			return errors.New("play: english translator not found")
		}
		if err := entrans.RegisterDefaultTranslations(v.validate, trans); err != nil {
			return err
		}
		v.translator = trans
		return nil
	}
}

func paramName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("param"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
