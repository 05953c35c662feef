package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// fieldErrors maps a form field name to the message shown under it.
type fieldErrors map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
	return v
}

// messages holds field-specific wording keyed by "field.tag", then "field".
var messages = map[string]string{
	"staffName.required":   "Staff name is required",
	"designation.required": "Designation is required",
	"empId.required":       "Employee ID is required",
	"mobile":               "Enter a valid 10-digit mobile number",
	"salary.required":      "Salary is required",
	"salary":               "Salary must be a positive number",
	"userId.required":      "User ID is required",
	"userId.min":           "User ID must be at least 4 characters long.",
	"password.required":    "Password is required",
	"password.min":         "Password must be at least 6 characters long.",
	"password.max":         "Password must be at most 72 characters long.",
	"role":                 "Select a valid role",
	"joiningDate":          "Enter a valid date",
	"customerName":         "Customer name is required",
	"connectionType":       "Select a valid connection type",
	"status":               "Select a valid status",
	"appointmentDateTime":  "Enter a valid appointment date and time",
	"latitude":             "Latitude must be between -90 and 90",
	"longitude":            "Longitude must be between -180 and 180",
}

func validationMessage(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	return "is invalid"
}

// check validates form and returns per-field messages, or nil.
func check(form any) fieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fieldErrors{"form": err.Error()}
	}
	out := fieldErrors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = validationMessage(fe)
		}
	}
	return out
}

func (e fieldErrors) add(field, tag string) fieldErrors {
	if e == nil {
		e = fieldErrors{}
	}
	if _, seen := e[field]; !seen {
		if msg, ok := messages[field+"."+tag]; ok {
			e[field] = msg
		} else {
			e[field] = messages[field]
		}
	}
	return e
}

func trimAll(values ...*string) {
	for _, v := range values {
		*v = strings.TrimSpace(*v)
	}
}
