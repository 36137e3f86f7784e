// Package inputval validates console input. Struct fields carry
// `validate:"..."` rules and a `label:"..."` used in messages.
package inputval

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the failed rules of one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = v.RegisterValidation("email", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return IsValidHTTPURL(fl.Field().String())
		})
		_ = v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
			return IsValidLocale(fl.Field().String())
		})
		_ = v.RegisterValidation("countrycode", func(fl validator.FieldLevel) bool {
			return IsValidCountryCode(fl.Field().String())
		})
		_ = v.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
			return IsValidPermission(fl.Field().String())
		})
	})
	return v
}

// Validate runs the struct's rules. Errors appear in field order.
func Validate(s any) *Result {
	res := &Result{}
	err := instance().Struct(s)
	if err == nil {
		return res
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.StructField(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "email":
		return "A valid email address is required."
	case "httpurl":
		return label + " must be a valid http or https URL."
	case "locale":
		return label + " must be a valid locale tag such as en or fr-CA."
	case "countrycode":
		return label + " must be a two-letter ISO country code."
	case "permission":
		return label + " must look like section.read or section.write."
	case "unique":
		return label + " must not contain duplicates."
	default:
		return label + " is invalid."
	}
}

// IsValidEmail reports whether s is a bare addr-spec (no display name).
// Single-label domains are allowed.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	return dotAtom(local, isLocalRune) && dotAtom(domain, isDomainRune)
}

func dotAtom(s string, ok func(rune) bool) bool {
	if s == "" || s[0] == '.' || s[len(s)-1] == '.' || strings.Contains(s, "..") {
		return false
	}
	for _, r := range s {
		if r != '.' && !ok(r) {
			return false
		}
	}
	return true
}

func isLocalRune(r rune) bool {
	return isDomainRune(r) || strings.ContainsRune("!#$%&'*+/=?^_`{|}~", r)
}

func isDomainRune(r rune) bool {
	return r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidLocale reports whether s parses as a BCP 47 language tag.
func IsValidLocale(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := language.Parse(s)
	return err == nil
}

// IsValidCountryCode reports whether s is an ISO 3166-1 alpha-2 country.
func IsValidCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	r, err := language.ParseRegion(s)
	return err == nil && r.IsCountry()
}

// IsValidPermission reports whether s is "<section>.<read|write>" with a
// lowercase section of letters, digits and hyphens.
func IsValidPermission(s string) bool {
	section, level, ok := strings.Cut(s, ".")
	if !ok || section == "" || (level != "read" && level != "write") {
		return false
	}
	for _, r := range section {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
