// Файл: pkg/customvalidator/validators.go

package customvalidator

import (
	"reflect"
	"regexp"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

var (
	priorities     = map[string]bool{"low": true, "normal": true, "high": true, "urgent": true}
	requestTypes   = map[string]bool{"corrective": true, "preventive": true}
	equipmentStats = map[string]bool{"operational": true, "maintenance": true, "broken": true, "scrapped": true}
)

// RegisterCustomValidations регистрирует все кастомные правила в валидаторе.
func RegisterCustomValidations(v *validator.Validate) error {
	registerNullTypes(v)

	rules := map[string]validator.Func{
		"email":            isGoodEmailFormat,
		"hex_color":        isHexColor,
		"mr_priority":      oneOfSet(priorities),
		"mr_request_type":  oneOfSet(requestTypes),
		"equipment_status": oneOfSet(equipmentStats),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func oneOfSet(allowed map[string]bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return allowed[fl.Field().String()]
	}
}

// registerNullTypes учит валидатор "смотреть внутрь" null.String, null.Uint64 и т.д.
// Невалидное значение превращается в nil, чтобы сработал omitempty.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Uint64); ok && val.Valid {
			return val.Uint64
		}
		return nil
	}, null.Uint64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Float64); ok && val.Valid {
			return val.Float64
		}
		return nil
	}, null.Float64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Time); ok && val.Valid {
			return val.Time
		}
		return nil
	}, null.Time{})
}
