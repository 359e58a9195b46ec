// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"finanza/internal/models"
)

var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency", validateCurrency)
		_ = v.RegisterValidation("month_token", validateMonthToken)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("adjustment_direction", validateAdjustmentDirection)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("account_type", validateAccountType)
	}
}

// Only the two currencies the ledger understands are accepted.
func validateCurrency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "USD", "VES":
		return true
	}
	return false
}

func validateMonthToken(fl validator.FieldLevel) bool {
	return monthRegex.MatchString(fl.Field().String())
}

// Legacy Spanish tokens pass validation and are normalized downstream.
func validateTransactionType(fl validator.FieldLevel) bool {
	_, ok := models.ParseTransactionType(fl.Field().String())
	return ok
}

func validateAdjustmentDirection(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "up", "down":
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateAccountType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "checking", "savings", "cash", "card":
		return true
	}
	return false
}
