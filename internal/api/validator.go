package api

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"stacy-ai/backend/internal/apperrors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getInstance returns the validator singleton; building the instance is
// expensive enough to do once.
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// validateRequest checks a payload against its `validate` field tags and
// wraps any failure in apperrors.ErrValidation with a readable message.
func validateRequest(payload interface{}) error {
	v := getInstance()
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: an unexpected error occurred during validation: %s", apperrors.ErrValidation, err.Error())
	}

	var errorMessages []string
	for _, fieldErr := range validationErrors {
		errorMessages = append(errorMessages, fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag()))
	}

	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(errorMessages, "; "))
}
