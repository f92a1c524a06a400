package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var (
	validate      = validator.New()
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)
)

func init() {
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{Tag: err.Error()}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.Field()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Validate runs ValidateStruct and folds the failures into one ErrInvalidInput.
func Validate(data interface{}) error {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.FailedField + " failed " + e.Tag
		if e.Value != "" {
			msg += "=" + e.Value
		}
		parts = append(parts, msg)
	}
	return fmt.Errorf("%w: %s", pkgerrors.ErrInvalidInput, strings.Join(parts, ", "))
}
