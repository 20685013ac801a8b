package validation

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"workvouch/internal/plans"
)

// RegisterValidators installs custom binding rules on gin's validator:
//
//	plantier  value must name a plan tier
//
// When strictTiers is false the rule accepts any value and unknown tiers
// fall back to the free tier limits.
func RegisterValidators(strictTiers bool) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("plantier", func(fl validator.FieldLevel) bool {
		if !strictTiers {
			return true
		}
		_, err := plans.ParseTier(fl.Field().String())
		return err == nil
	})
}
