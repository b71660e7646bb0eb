// internal/util/validate.go
package util

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldProblem describes one failed validation rule on a request field.
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Rule    string `json:"rule"`
}

// ValidateStruct runs validator tags over obj and returns one problem per
// failing field, or nil when the struct is valid.
func ValidateStruct(obj any) []FieldProblem {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// validator.InvalidValidationError, e.g. a nil pointer instead of a struct.
		return []FieldProblem{{Field: "request", Message: "invalid request body", Rule: "struct"}}
	}

	var problems []FieldProblem
	for _, fe := range fieldErrors {
		problems = append(problems, FieldProblem{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
			Rule:    fe.Tag(),
		})
	}
	return problems
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "gt":
		return "value must be greater than " + fe.Param()
	case "gte":
		return "value must be at least " + fe.Param()
	case "lte":
		return "value must be at most " + fe.Param()
	case "max":
		return "value is too long"
	case "oneof":
		return "value must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}
