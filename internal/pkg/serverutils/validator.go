package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"policyai-be/internal/pkg/apperr"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation on a request DTO and folds all
// field errors into a single ValidationFailed error.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if ok := isValidationErrors(err, &fieldErrors); !ok {
			return apperr.Invalid("invalid request body")
		}
		parts := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
		return apperr.Invalid(strings.Join(parts, "; "))
	}
	return nil
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}
