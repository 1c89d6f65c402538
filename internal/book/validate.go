package book

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field. It matches ErrInvalidArgument.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "invalid book: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// Validate checks f against the column limits of the books table. Values are
// checked as given; surrounding whitespace is kept.
func (f Fields) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		field := jsonFieldName(fe.Field())
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Message: message})
	}
	return out
}

func jsonFieldName(field string) string {
	switch field {
	case "ImageURL":
		return "image_url"
	case "ISBN":
		return "isbn"
	default:
		return strings.ToLower(field)
	}
}

// ParseID parses a path id. Only positive base-10 integers are accepted, so
// values such as "1 OR 1=1" never reach a query.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: book id %q", ErrInvalidArgument, raw)
	}
	return id, nil
}
