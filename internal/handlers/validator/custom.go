package validator

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/sizing"
)

func basisValidator(resource sizing.Resource) func(fl validator.FieldLevel) bool {
	return func(fl validator.FieldLevel) bool {
		val, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return sizing.Allowed(sizing.BasesFor(resource), capacity.Basis(val))
	}
}

// growthValidator accepts a percentage in the sizing growth range. Pointer
// fields are dereferenced by the validator before the rule runs.
func growthValidator(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		g := field.Float()
		return g >= sizing.MinGrowth && g <= sizing.MaxGrowth
	case reflect.Int, reflect.Int32, reflect.Int64:
		g := float64(field.Int())
		return g >= sizing.MinGrowth && g <= sizing.MaxGrowth
	default:
		return false
	}
}

func reportFormatValidator(formats []string) func(fl validator.FieldLevel) bool {
	return func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		val := fl.Field().String()
		for _, f := range formats {
			if f == val {
				return true
			}
		}
		return false
	}
}
