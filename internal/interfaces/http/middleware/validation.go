package middleware

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Indian mobile numbers: ten digits starting 6-9, optional +91 prefix
var mobilePattern = regexp.MustCompile(`^(\+91)?[6-9][0-9]{9}$`)

// SetupValidator configures gin's validator: error messages use JSON
// field names, and the "inmobile" tag validates Indian mobile numbers.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("inmobile", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true // pair with required when the field is mandatory
		}
		return mobilePattern.MatchString(strings.ReplaceAll(value, " ", ""))
	})
}
