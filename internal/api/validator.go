package api

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("blood_group", validateBloodGroup)

	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), constants.ErrBadRequest)
	}
	return nil
}

func validateBloodGroup(fl validator.FieldLevel) bool {
	return domain.BloodGroup(fl.Field().String()).Valid()
}
