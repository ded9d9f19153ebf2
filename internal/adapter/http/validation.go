package http

import (
	"reflect"
	"strings"

	"credit-preapproval/internal/domain/preapproval"
	"credit-preapproval/pkg/id"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report fields by their wire name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "param", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	// flow id = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return id.IsID32(fl.Field().String())
	})
	// session id = 32-char hex or UUID, case-insensitive
	_ = v.RegisterValidation("sessionid", func(fl validator.FieldLevel) bool {
		return id.IsClientID(strings.ToLower(fl.Field().String()))
	})
	// wire name of a draft field
	_ = v.RegisterValidation("draftfield", func(fl validator.FieldLevel) bool {
		_, err := preapproval.ParseField(fl.Field().String())
		return err == nil
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := fieldPath(e)
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "sessionid":
			out = append(out, FieldError{Field: field, Message: "must be a 32-char hex id or a UUID"})
		case "draftfield":
			out = append(out, FieldError{Field: field, Message: "is not a known field"})
		case "min", "gte":
			out = append(out, FieldError{Field: field, Message: "must be at least " + e.Param()})
		case "max", "lte":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}

// fieldPath drops the request struct name: "updateReq.fields[ssn]" -> "fields[ssn]".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// flowFieldErrors lists a flow's error set in field order.
func flowFieldErrors(errs preapproval.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, f := range preapproval.Fields {
		if msg, ok := errs[f]; ok {
			out = append(out, FieldError{Field: string(f), Message: msg})
		}
	}
	return out
}
