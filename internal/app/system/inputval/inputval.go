// Package inputval checks decoded request bodies with waffle/pantry/validate
// and turns the first failure into a message for a 400 response.
//
//	type eventInput struct {
//	    Name     string `json:"name" validate:"required,max=200" label:"name"`
//	    DateFrom string `json:"date_from" validate:"required,isodate" label:"date_from"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    jsonutil.BadRequest(w, res.First())
//	    return
//	}
package inputval

import (
	"net/mail"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/strataclub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result lists the failed fields in struct order.
type Result struct {
	Errors []FieldError
}

type FieldError struct {
	Field   string
	Label   string
	Message string
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Club-specific rules on top of the pantry built-ins (required, email,
// oneof, min, max). Each takes a string field.
var rules = map[string]struct {
	check   func(string) bool
	message func(label string) string
}{
	"role": {IsValidRole, func(l string) string {
		return l + " must be one of: " + models.RoleStudent + ", " + models.RoleAdmin + "."
	}},
	"isodate": {IsISODate, func(l string) string {
		return l + " must be a date in YYYY-MM-DD format."
	}},
	"httpurl": {IsValidHTTPURL, func(l string) string {
		return l + " must be a valid URL starting with http:// or https://."
	}},
	"objectid": {IsValidObjectID, func(l string) string {
		return l + " is not a valid ID."
	}},
}

var (
	validator     *validate.Validator
	validatorOnce sync.Once
)

func getValidator() *validate.Validator {
	validatorOnce.Do(func() {
		validator = validate.New(validate.WithStopOnFirstError())
		for name, rule := range rules {
			check := rule.check
			validator.RegisterRuleFunc(name, func(v any) bool {
				s, ok := v.(string)
				return ok && check(s)
			}, name)
		}
	})
	return validator
}

// Validate runs the struct's validate tags. Messages name the field by its
// label tag, falling back to the JSON name.
func Validate(s any) *Result {
	res := &Result{}
	err := getValidator().Struct(s)
	if err == nil {
		return res
	}
	errs, ok := err.(validate.Errors)
	if !ok {
		return res
	}

	labels := fieldLabels(s)
	for _, e := range errs {
		label := labels[e.Field]
		if label == "" {
			label = e.Field
		}
		res.Errors = append(res.Errors, FieldError{
			Field:   e.Field,
			Label:   label,
			Message: message(label, e.Rule, e.Param),
		})
	}
	return res
}

// fieldLabels maps JSON field names to label tags.
func fieldLabels(s any) map[string]string {
	labels := map[string]string{}
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return labels
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Name
		if j, _, _ := strings.Cut(f.Tag.Get("json"), ","); j != "" && j != "-" {
			name = j
		}
		if label := f.Tag.Get("label"); label != "" {
			labels[name] = label
		}
	}
	return labels
}

func message(label, rule, param string) string {
	if r, ok := rules[rule]; ok {
		return r.message(label)
	}
	switch rule {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "oneof", "enum":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + " must be at least " + param + " characters."
	case "max":
		return label + " must be at most " + param + " characters."
	}
	return label + " is invalid."
}

// IsValidEmail accepts a bare RFC 5322 address ("a@b.c", not "A <a@b.c>").
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// IsValidRole accepts student or admin in any case.
func IsValidRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case models.RoleStudent, models.RoleAdmin:
		return true
	}
	return false
}

// IsISODate accepts a real YYYY-MM-DD calendar date.
func IsISODate(s string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return err == nil
}

// IsValidHTTPURL accepts absolute http and https URLs with a host.
func IsValidHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
