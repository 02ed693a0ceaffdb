package web

import (
	"reflect"
	"strings"

	"bbscope/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Violation kinds reported to clients.
const (
	KindRequired       = "required"
	KindInvalidEnum    = "invalid_enum"
	KindLengthExceeded = "length_exceeded"
	KindInvalid        = "invalid"
)

type Violation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Kind  string `json:"kind"`
}

// ValidationError is returned for input that fails struct tag validation.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lists := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lists = append(lists, v.Field+" ("+v.Rule+")")
	}
	return "validation failed on " + strings.Join(lists, ", ")
}

// Validator implements echo.Validator on top of go-playground/validator.
// Field names in violations use their json names.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("host", func(fl validator.FieldLevel) bool {
		return models.ValidHost(fl.Field().String())
	})
	return &Validator{validate: v}
}

func (cv *Validator) Validate(i interface{}) error {
	return translate(cv.validate.Struct(i), "")
}

// Domain checks a target domain taken from a query or path parameter.
func (cv *Validator) Domain(domain string) error {
	return translate(cv.validate.Var(domain, "required,max=253,host"), "domain")
}

func translate(err error, field string) error {
	if err == nil {
		return nil
	}

	var valErr validator.ValidationErrors
	if !errors.As(err, &valErr) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range valErr {
		name := fe.Field()
		if name == "" {
			name = field
		}
		out.Violations = append(out.Violations, Violation{
			Field: name,
			Rule:  fe.Tag(),
			Kind:  kindOf(fe.Tag()),
		})
	}
	return out
}

func kindOf(tag string) string {
	switch tag {
	case "required":
		return KindRequired
	case "oneof":
		return KindInvalidEnum
	case "max":
		return KindLengthExceeded
	default:
		return KindInvalid
	}
}
