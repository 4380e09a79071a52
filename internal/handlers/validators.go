package handlers

import (
	"reflect"
	"strings"
	"sync"

	"healthquery-backend/internal/models"
	"healthquery-backend/internal/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidators teaches gin's validator the domain tags and makes field
// errors report JSON names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("specialization", func(fl validator.FieldLevel) bool {
			return models.IsValidSpecialization(fl.Field().String())
		})
		_ = v.RegisterValidation("license", func(fl validator.FieldLevel) bool {
			return utils.ValidateLicenseNumber(fl.Field().String())
		})
		_ = v.RegisterValidation("urgency", func(fl validator.FieldLevel) bool {
			return models.ValidUrgency(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

func specializationList() string {
	return strings.Join(models.Specializations(), ", ")
}
