package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns the first failed rule into an AppError.
// overrides is keyed like in FieldErrors and may be nil.
func MapValidationError(err error, overrides map[string]string) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		if msg, ok := overrides[e.Field()+"."+e.Tag()]; ok {
			return New(CodeValidationError, msg, http.StatusBadRequest)
		}
		field := formatFieldName(e.Field())
		switch e.Tag() {
		case "required":
			return RequiredField(field)
		default:
			return InvalidField(field)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}

// FieldErrors reports one message per failed field, keyed by wire name.
// overrides is keyed by "field.tag" (e.g. "name.max"). ok is false when err
// is not a validation failure, such as a malformed multipart body.
func FieldErrors(err error, overrides map[string]string) (map[string]string, bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil, false
	}

	out := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, seen := out[e.Field()]; seen {
			continue
		}
		if msg, ok := overrides[e.Field()+"."+e.Tag()]; ok {
			out[e.Field()] = msg
			continue
		}
		field := formatFieldName(e.Field())
		if e.Tag() == "required" {
			out[e.Field()] = RequiredField(field).Message
		} else {
			out[e.Field()] = InvalidField(field).Message
		}
	}
	return out, true
}
