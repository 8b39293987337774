package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// prnValidator accepts a 16-digit permanent registration number.
func prnValidator(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 16 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// registerValidators adds the custom binding tags used by the DTOs.
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("prn", prnValidator)
		}
	})
}
