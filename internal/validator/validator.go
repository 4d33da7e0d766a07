// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("account_type", validateAccountType)
		_ = v.RegisterValidation("payoff_strategy", validatePayoffStrategy)
		_ = v.RegisterValidation("plan_status", validatePlanStatus)
		_ = v.RegisterValidation("month_key", validateMonthKey)
	}
}

func validateAccountType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "checking", "savings", "cash", "credit":
		return true
	}
	return false
}

func validatePayoffStrategy(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "snowball", "avalanche":
		return true
	}
	return false
}

func validatePlanStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "completed", "paused":
		return true
	}
	return false
}

// validateMonthKey accepts "YYYY-MM" budget month keys.
func validateMonthKey(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 7 || s[4] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	mm := (s[5]-'0')*10 + (s[6] - '0')
	return mm >= 1 && mm <= 12
}
