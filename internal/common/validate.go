package common

import (
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs struct tag validation and converts failures into a
// field -> reason map suitable for the JSON error envelope.
func ValidateStruct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields[fieldName(fe)] = fe.Tag()
		}
		return fields
	}
	fields["_"] = err.Error()
	return fields
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "_"
	}
	return strings.ToLower(name[:1]) + name[1:]
}
