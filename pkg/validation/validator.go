// Package validation wraps validator/v10 with the service's custom rules and
// turns field errors into client-facing messages.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/go-playground/validator/v10"
)

// PhoneTag validates a 10-digit phone number.
const PhoneTag = "phone"

var phonePattern = regexp.MustCompile(constants.PhonePattern)

// MessageProvider lets a request type supply its own messages. Keys are
// "Field.tag" for a single rule or "Field" for any rule on that field.
type MessageProvider interface {
	ValidationMessages() map[string]string
}

func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation(PhoneTag, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// IsPhone reports whether s is a well-formed phone number.
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// Messages converts err from Validate.Struct into (summary, details).
// The summary is the first field's message; details lists all of them.
func Messages(request any, err error) (string, []string) {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error(), nil
	}

	var custom map[string]string
	if p, ok := request.(MessageProvider); ok {
		custom = p.ValidationMessages()
	}

	details := make([]string, 0, len(fieldErrors))
	seen := make(map[string]bool, len(fieldErrors))
	for _, fe := range fieldErrors {
		msg := lookup(custom, fe)
		if seen[msg] {
			continue
		}
		seen[msg] = true
		details = append(details, msg)
	}
	return details[0], details
}

func lookup(custom map[string]string, fe validator.FieldError) string {
	if msg, ok := custom[fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := custom[fe.StructField()]; ok {
		return msg
	}
	return DefaultMessage(fe.Field(), fe.Tag(), fe.Param())
}
