package dto

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidations teaches the binding validator to see decimal amounts as
// floats, so numeric tags (gt, gte) apply to them.
func RegisterValidations(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalAsFloat, decimal.Decimal{})
}

func decimalAsFloat(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
