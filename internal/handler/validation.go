package handler

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"repairshop/internal/lifecycle"
	"repairshop/internal/model"
)

var registerOnce sync.Once

// RegisterValidators teaches gin's validator the shop enums and how to read
// decimal amounts. Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})

		for tag, fn := range map[string]validator.Func{
			"work_area": func(fl validator.FieldLevel) bool {
				return lifecycle.IsValidArea(model.Area(fl.Field().String()))
			},
			"work_status": func(fl validator.FieldLevel) bool {
				return lifecycle.IsValidStatus(model.Status(fl.Field().String()))
			},
			"scheduled_status": func(fl validator.FieldLevel) bool {
				return lifecycle.IsValidScheduledStatus(model.ScheduledServiceStatus(fl.Field().String()))
			},
		} {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}
