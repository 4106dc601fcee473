// Package validators adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate on bound request bodies.
package validators

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator wraps a single validator instance shared by all handlers.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the Echo request validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks struct tags on a bound request body and converts
// violations into a 400 response.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
