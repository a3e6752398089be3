package post

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// stateValidate is shared; validator.Validate caches struct metadata and is
// safe for concurrent use.
var stateValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so messages match the stored format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("dataurl", validateDataURL); err != nil {
		panic(fmt.Sprintf("post: register dataurl validation: %v", err))
	}
	return v
}

// validateDataURL accepts an empty string or an RFC 2397 data URL.
func validateDataURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	if !strings.HasPrefix(s, "data:") {
		return false
	}
	return strings.Contains(s, ",")
}

// Validate checks ranges, enumerations and image fields of a state.
func Validate(s State) error {
	if err := stateValidate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidState, describe(err))
	}
	return nil
}

// ValidateStyle checks a preset payload.
func ValidateStyle(st StyleState) error {
	if err := stateValidate.Struct(st); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidState, describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
