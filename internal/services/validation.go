package services

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/vocabflash/internal/errors"
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError converts the first failing field of a validator error
// into a VALIDATION_ERROR.
func validationError(err error) *errors.AppError {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.NewBadRequestError(err.Error())
	}
	fe := verrs[0]
	var reason string
	switch fe.Tag() {
	case "required":
		reason = "cannot be empty"
	case "max":
		reason = fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		reason = fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		reason = fmt.Sprintf("must be one of %s", fe.Param())
	default:
		reason = fmt.Sprintf("failed %s validation", fe.Tag())
	}
	return errors.NewValidationError(fe.Field(), reason)
}
