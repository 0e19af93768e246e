package collection

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrBookNotFound is returned when an operation targets an id that is not
// in the collection.
var ErrBookNotFound = errors.New("collection: book not found")

// FieldErrors is a field -> message map returned for user-correctable
// input problems, meant to be rendered next to the offending fields.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "invalid input: " + strings.Join(parts, "; ")
}

var validate = validator.New()

// fieldErrorsFrom flattens validator output into a FieldErrors map keyed
// by the lowercased struct field name.
func fieldErrorsFrom(err error) FieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"input": err.Error()}
	}
	fe := make(FieldErrors, len(verrs))
	for _, v := range verrs {
		field := strings.ToLower(v.Field()[:1]) + v.Field()[1:]
		switch v.Tag() {
		case "required":
			fe[field] = "is required"
		case "min":
			fe[field] = fmt.Sprintf("must be at least %s", v.Param())
		case "max":
			fe[field] = fmt.Sprintf("must be at most %s", v.Param())
		default:
			fe[field] = "is invalid"
		}
	}
	return fe
}
