// utils/validation.go
package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

// DefaultRegion is used for numbers written without a country prefix
const DefaultRegion = "CL"

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidators(v)
	}
}

// RegisterValidators adds the "rut" and "phone_cl" tags to v
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return ValidateRUT(fl.Field().String())
	})
	_ = v.RegisterValidation("phone_cl", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String())
	})
}

// ValidatePhone checks that phone is a dialable number, Chilean unless it carries a prefix
func ValidatePhone(phone string) bool {
	p, err := libphonenumber.Parse(phone, DefaultRegion)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(p)
}

// FormatPhone returns phone in E.164, or "" when it cannot be parsed
func FormatPhone(phone string) string {
	p, err := libphonenumber.Parse(phone, DefaultRegion)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return ""
	}
	return libphonenumber.Format(p, libphonenumber.E164)
}

// NormalizeRUT strips dots and spaces and upper-cases the check digit: "76.123.456-k" -> "76123456-K"
func NormalizeRUT(rut string) string {
	r := strings.ToUpper(strings.NewReplacer(".", "", " ", "").Replace(strings.TrimSpace(rut)))
	if !strings.Contains(r, "-") && len(r) > 1 {
		r = r[:len(r)-1] + "-" + r[len(r)-1:]
	}
	return r
}

// ValidateRUT checks the modulo 11 check digit of a Chilean RUT
func ValidateRUT(rut string) bool {
	r := NormalizeRUT(rut)
	body, dv, ok := strings.Cut(r, "-")
	if !ok || len(body) < 7 || len(body) > 8 || len(dv) != 1 {
		return false
	}
	if _, err := strconv.Atoi(body); err != nil {
		return false
	}

	sum, factor := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	var want string
	switch rest := 11 - sum%11; rest {
	case 11:
		want = "0"
	case 10:
		want = "K"
	default:
		want = strconv.Itoa(rest)
	}
	return dv == want
}
