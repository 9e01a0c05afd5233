package validation

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		if _, err := time.Parse("2006-01-02", value); err == nil {
			return true
		}
		_, err := time.Parse(time.RFC3339, value)
		return err == nil
	})

	v.RegisterValidation("leadstatus", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return models.IsValidStatus(strings.ToLower(strings.TrimSpace(value)))
	})

	v.RegisterValidation("delimiter", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		switch strings.ToLower(value) {
		case "", ",", "\t", "comma", "tab", "csv", "tsv":
			return true
		}
		return false
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		return ve
	}
	return nil
}
