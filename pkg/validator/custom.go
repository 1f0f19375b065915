package validator

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

func RegisterCustomValidations(validate *validator.Validate) {
	validate.RegisterValidation("posint", validatePositiveInt)
	validate.RegisterValidation("pagelimit", validatePageLimit)
}

// posint: string form of an integer >= 1
func validatePositiveInt(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Field().String())
	return err == nil && n >= 1
}

// pagelimit: string form of an integer in [1,100]
func validatePageLimit(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Field().String())
	return err == nil && n >= 1 && n <= 100
}
