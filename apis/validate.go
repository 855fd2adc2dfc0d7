package apis

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	requestValidator     *validator.Validate
	requestValidatorOnce sync.Once
)

// validateRequest checks the validate tags of a request struct before it is
// sent. Failing fields are reported by the JSON name the Photi server uses.
func validateRequest(req interface{}) error {
	value := reflect.ValueOf(req)
	if !value.IsValid() || value.Kind() == reflect.Ptr && value.IsNil() {
		return ErrInvalidArgs
	}

	requestValidatorOnce.Do(func() {
		requestValidator = validator.New()
		requestValidator.RegisterTagNameFunc(jsonFieldName)
	})

	err := requestValidator.Struct(req)
	var fieldErrs validator.ValidationErrors
	switch {
	case err == nil:
		return nil
	case errors.As(err, &fieldErrs):
		problems := make([]string, 0, len(fieldErrs))
		for _, fieldErr := range fieldErrs {
			problem := fieldErr.Field() + " fails " + fieldErr.Tag()
			if fieldErr.Param() != "" {
				problem += "=" + fieldErr.Param()
			}
			problems = append(problems, problem)
		}
		return ErrInfo(http.StatusBadRequest, fmt.Sprintf("invalid %s: %s", value.Type(), strings.Join(problems, ", ")))
	default:
		return ErrInfo(http.StatusBadRequest, err.Error())
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
