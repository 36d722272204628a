package common

import (
	"errors"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the shared validator against the tagged struct.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// ValidationDetails flattens validator errors into field: rule strings
// suitable for the error response details payload.
func ValidationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		detail := strings.ToLower(fe.Field()) + ": " + fe.Tag()
		if fe.Param() != "" {
			detail += "=" + fe.Param()
		}
		out = append(out, detail)
	}
	return out
}
