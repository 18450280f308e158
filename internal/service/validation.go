package service

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/school-directory/pkg/util/errorutil"
)

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// validationError turns validator output into a ValidationError listing every
// violated field, e.g. {"fields": {"email": "required"}, "missing": ["email"]}.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid input", nil)
	}

	fields := make(map[string]string, len(fieldErrs))
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fieldPath(fe)
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = fe.Tag()
		missing = append(missing, name)
	}
	sort.Strings(missing)

	return apperrors.NewValidationError("Missing required fields", map[string]any{
		"fields":  fields,
		"missing": missing,
	})
}

// fieldPath strips the struct name prefix from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}
