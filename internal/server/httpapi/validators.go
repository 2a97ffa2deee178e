package httpapi

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidators adds the custom tags used by request structs to gin's
// validator.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("nodupes", noDupes)
	_ = v.RegisterValidation("nospaces", noSpaces)
}

func noDupes(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	seen := make(map[any]struct{}, field.Len())
	for i := 0; i < field.Len(); i++ {
		v := field.Index(i).Interface()
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

func noSpaces(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return !strings.ContainsFunc(s, unicode.IsSpace)
}
