package gov

import (
	"errors"
	"github.com/asaskevich/govalidator"
	"github.com/hashicorp/go-multierror"
	"github.com/miruken-go/dispatch"
)

// Validator validates bound beans using `valid` struct tags.
// https://github.com/asaskevich/govalidator
type Validator struct{}

func (v Validator) Validate(target any) error {
	if ok, err := govalidator.ValidateStruct(target); !ok && err != nil {
		var errs govalidator.Errors
		if !errors.As(err, &errs) {
			return err
		}
		return collect(nil, errs)
	}
	return nil
}

func collect(invalid error, errs govalidator.Errors) error {
	for _, err := range errs {
		switch actual := err.(type) {
		case govalidator.Error:
			invalid = multierror.Append(invalid, &dispatch.ValidationError{
				Key:    actual.Name,
				Reason: actual.Err.Error(),
			})
		case govalidator.Errors:
			invalid = collect(invalid, actual)
		default:
			invalid = multierror.Append(invalid, err)
		}
	}
	return invalid
}
